package githubcli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/create-module/internal/execshell"
)

const (
	authSubcommandConstant                  = "auth"
	tokenSubcommandConstant                 = "token"
	hostnameFlagConstant                    = "--hostname"
	readTokenOperationNameConstant          = OperationName("ReadToken")
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	emptyTokenMessageConstant               = "gh auth token printed no token"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
)

// OperationName describes a named GitHub CLI workflow supported by the token source.
type OperationName string

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

var (
	// ErrExecutorNotConfigured indicates the token source was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrEmptyToken indicates gh exited successfully without printing a token.
	ErrEmptyToken = errors.New(emptyTokenMessageConstant)
)

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// TokenSource reads the OAuth token of the account gh is logged in with.
type TokenSource struct {
	executor GitHubCommandExecutor
	hostname string
}

// NewTokenSource constructs a TokenSource. An empty hostname lets gh pick its default host.
func NewTokenSource(executor GitHubCommandExecutor, hostname string) (*TokenSource, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &TokenSource{executor: executor, hostname: strings.TrimSpace(hostname)}, nil
}

// Token runs `gh auth token` and returns its trimmed output.
func (source *TokenSource) Token(executionContext context.Context) (string, error) {
	arguments := []string{authSubcommandConstant, tokenSubcommandConstant}
	if len(source.hostname) > 0 {
		arguments = append(arguments, hostnameFlagConstant, source.hostname)
	}

	executionResult, executionError := source.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{Arguments: arguments})
	if executionError != nil {
		return "", OperationError{Operation: readTokenOperationNameConstant, Cause: executionError}
	}

	token := strings.TrimSpace(executionResult.StandardOutput)
	if len(token) == 0 {
		return "", OperationError{Operation: readTokenOperationNameConstant, Cause: ErrEmptyToken}
	}
	return token, nil
}
