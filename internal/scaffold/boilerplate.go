package scaffold

import (
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	// ReadmeFileName is the readme written into new modules.
	ReadmeFileName = "readme.md"
	// GitignoreFileName is the ignore file written into new modules.
	GitignoreFileName = ".gitignore"
	// CIConfigFileName is the Travis CI configuration written into new modules.
	CIConfigFileName = ".travis.yml"

	readmeTemplateConstant             = "# <package>\n[![NPM](https://nodei.co/npm/<package>.png)](https://nodei.co/npm/<package>/)\n"
	packagePlaceholderConstant         = "<package>"
	gitignoreContentsConstant          = "node_modules\n"
	boilerplateFilePermissionsConstant = fs.FileMode(0o644)
)

// FileWriter persists generated files.
type FileWriter interface {
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// RenderReadme substitutes the package name into every placeholder of the readme template.
func RenderReadme(packageName string) string {
	return strings.ReplaceAll(readmeTemplateConstant, packagePlaceholderConstant, packageName)
}

// Writer writes boilerplate files into a module directory.
type Writer struct {
	fileWriter FileWriter
}

// NewWriter constructs a Writer backed by fileWriter.
func NewWriter(fileWriter FileWriter) *Writer {
	return &Writer{fileWriter: fileWriter}
}

// WriteReadme writes readme.md for packageName.
func (writer *Writer) WriteReadme(directory string, packageName string) error {
	return writer.fileWriter.WriteFile(filepath.Join(directory, ReadmeFileName), []byte(RenderReadme(packageName)), boilerplateFilePermissionsConstant)
}

// WriteGitignore writes a .gitignore that excludes node_modules.
func (writer *Writer) WriteGitignore(directory string) error {
	return writer.fileWriter.WriteFile(filepath.Join(directory, GitignoreFileName), []byte(gitignoreContentsConstant), boilerplateFilePermissionsConstant)
}

// WriteCIConfig renders template into .travis.yml.
func (writer *Writer) WriteCIConfig(directory string, template CITemplate) error {
	renderedTemplate, renderError := template.Render()
	if renderError != nil {
		return renderError
	}
	return writer.fileWriter.WriteFile(filepath.Join(directory, CIConfigFileName), renderedTemplate, boilerplateFilePermissionsConstant)
}
