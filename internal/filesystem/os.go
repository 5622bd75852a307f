package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem abstracts the file operations needed to scaffold a module directory.
type FileSystem interface {
	Getwd() (string, error)
	Abs(path string) (string, error)
	Mkdir(path string, permissions fs.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Getwd returns the current working directory.
func (OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Mkdir creates a single directory and fails when it already exists.
func (OSFileSystem) Mkdir(path string, permissions fs.FileMode) error {
	return os.Mkdir(path, permissions)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file with the supplied permissions.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}
