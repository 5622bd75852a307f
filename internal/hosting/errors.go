package hosting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v32/github"
)

const (
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	apiMessageDetailSeparatorConstant       = "; "
	apiMessageDetailTemplateConstant        = "%s (%s)"
)

// OperationName describes a named hosting API workflow supported by the client.
type OperationName string

// Operation names reported in errors.
const (
	CreateRepositoryOperationName  = OperationName("CreateRepository")
	UpdateDescriptionOperationName = OperationName("UpdateDescription")
)

// InvalidInputError indicates a request that was rejected before reaching the API.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps a failed hosting API call together with the message returned by the API.
type OperationError struct {
	Operation  OperationName
	APIMessage string
	Cause      error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if len(operationError.APIMessage) > 0 {
		return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.APIMessage)
	}
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

func newOperationError(operation OperationName, cause error) OperationError {
	return OperationError{Operation: operation, APIMessage: describeAPIMessage(cause), Cause: cause}
}

// describeAPIMessage extracts the human message from a GitHub error body, e.g.
// "Validation Failed (name already exists on this account)".
func describeAPIMessage(cause error) string {
	var errorResponse *github.ErrorResponse
	if !errors.As(cause, &errorResponse) {
		return ""
	}

	message := strings.TrimSpace(errorResponse.Message)
	details := make([]string, 0, len(errorResponse.Errors))
	for _, detail := range errorResponse.Errors {
		if trimmedDetail := strings.TrimSpace(detail.Message); len(trimmedDetail) > 0 {
			details = append(details, trimmedDetail)
		}
	}
	if len(details) == 0 {
		return message
	}
	return fmt.Sprintf(apiMessageDetailTemplateConstant, message, strings.Join(details, apiMessageDetailSeparatorConstant))
}
