package workflow

import (
	"errors"
	"fmt"

	"github.com/temirov/create-module/internal/execshell"
	"github.com/temirov/create-module/internal/hosting"
)

const (
	nameTakenErrorTemplateConstant    = "%q is already taken on npm."
	invalidNameErrorTemplateConstant  = "invalid module name %q: %s"
	networkErrorTemplateConstant      = "unable to reach the npm registry: %s"
	remoteCreateErrorTemplateConstant = "unable to create GitHub repository %s: %s"
	remoteUpdateErrorTemplateConstant = "unable to update description of %s: %s"
	filesystemErrorTemplateConstant   = "unable to %s %s: %s"
	processErrorTemplateConstant      = "Failed %s: %s"
	unknownCauseMessageConstant       = "unknown error"
)

// NameTakenError reports a package name that already exists on the registry.
type NameTakenError struct {
	Name string
}

// Error matches the message printed by the command line.
func (takenError NameTakenError) Error() string {
	return fmt.Sprintf(nameTakenErrorTemplateConstant, takenError.Name)
}

// InvalidNameError reports a module name that cannot name a directory.
type InvalidNameError struct {
	Name   string
	Reason string
}

// Error describes the rejected name.
func (nameError InvalidNameError) Error() string {
	return fmt.Sprintf(invalidNameErrorTemplateConstant, nameError.Name, nameError.Reason)
}

// NetworkError reports a registry request that never produced a response.
type NetworkError struct {
	Cause error
}

// Error describes the transport failure.
func (networkError NetworkError) Error() string {
	return fmt.Sprintf(networkErrorTemplateConstant, describeCause(networkError.Cause))
}

// Unwrap exposes the transport error.
func (networkError NetworkError) Unwrap() error {
	return networkError.Cause
}

// RemoteCreateError reports a failed repository creation.
type RemoteCreateError struct {
	Name  string
	Cause error
}

// Error describes the failure using the hosting API message when available.
func (createError RemoteCreateError) Error() string {
	return fmt.Sprintf(remoteCreateErrorTemplateConstant, createError.Name, describeCause(createError.Cause))
}

// Unwrap exposes the hosting error.
func (createError RemoteCreateError) Unwrap() error {
	return createError.Cause
}

// RemoteUpdateError reports a failed description update, including an unreadable manifest.
type RemoteUpdateError struct {
	FullName string
	Cause    error
}

// Error describes the failure using the hosting API message when available.
func (updateError RemoteUpdateError) Error() string {
	return fmt.Sprintf(remoteUpdateErrorTemplateConstant, updateError.FullName, describeCause(updateError.Cause))
}

// Unwrap exposes the underlying error.
func (updateError RemoteUpdateError) Unwrap() error {
	return updateError.Cause
}

// FilesystemError reports a directory or file that could not be created or written.
type FilesystemError struct {
	Operation string
	Path      string
	Cause     error
}

// Error describes the filesystem failure.
func (filesystemError FilesystemError) Error() string {
	return fmt.Sprintf(filesystemErrorTemplateConstant, filesystemError.Operation, filesystemError.Path, describeCause(filesystemError.Cause))
}

// Unwrap exposes the operating system error.
func (filesystemError FilesystemError) Unwrap() error {
	return filesystemError.Cause
}

// ProcessError reports a child process that could not run or exited with a non-zero status.
type ProcessError struct {
	Step          string
	ExitCode      int
	StandardError string
	Cause         error
}

// Error describes the failed step.
func (processError ProcessError) Error() string {
	return fmt.Sprintf(processErrorTemplateConstant, processError.Step, describeCause(processError.Cause))
}

// Unwrap exposes the execution error.
func (processError ProcessError) Unwrap() error {
	return processError.Cause
}

func newProcessError(step string, cause error) ProcessError {
	processError := ProcessError{Step: step, Cause: cause}
	var failedError execshell.CommandFailedError
	if errors.As(cause, &failedError) {
		processError.ExitCode = failedError.Result.ExitCode
		processError.StandardError = failedError.Result.StandardError
	}
	return processError
}

func describeCause(cause error) string {
	if cause == nil {
		return unknownCauseMessageConstant
	}
	var operationError hosting.OperationError
	if errors.As(cause, &operationError) && len(operationError.APIMessage) > 0 {
		return operationError.APIMessage
	}
	return cause.Error()
}
