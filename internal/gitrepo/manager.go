package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/create-module/internal/execshell"
)

const (
	gitInitSubcommandConstant              = "init"
	gitSymbolicReferenceSubcommandConstant = "symbolic-ref"
	gitHeadReferenceConstant               = "HEAD"
	gitBranchReferencePrefixConstant       = "refs/heads/"
	gitRemoteSubcommandConstant            = "remote"
	gitRemoteAddSubcommandConstant         = "add"
	gitAddSubcommandConstant               = "add"
	gitAllFlagConstant                     = "--all"
	gitCommitSubcommandConstant            = "commit"
	gitMessageFlagConstant                 = "-m"
	gitPushSubcommandConstant              = "push"
	requiredValueMessageConstant           = "value required"
	workingDirectoryFieldConstant          = "working directory"
	remoteNameFieldConstant                = "remote name"
	remoteURLFieldConstant                 = "remote url"
	branchFieldConstant                    = "branch"
	commitMessageFieldConstant             = "commit message"
)

// ErrGitExecutorNotConfigured indicates the manager was built without an executor.
var ErrGitExecutorNotConfigured = errors.New("git executor not configured")

// GitExecutor exposes the ability to run git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// InvalidArgumentError reports a missing or malformed argument.
type InvalidArgumentError struct {
	FieldName string
	Message   string
}

// Error describes the invalid argument.
func (argumentError InvalidArgumentError) Error() string {
	return argumentError.FieldName + ": " + argumentError.Message
}

// InitializeOptions configures repository initialization.
type InitializeOptions struct {
	RemoteName string
	RemoteURL  string
	Branch     string
}

// PublishOptions configures the initial commit and push.
type PublishOptions struct {
	RemoteName    string
	Branch        string
	CommitMessage string
}

// RepositoryManager runs git commands inside a module directory.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// InitializeRepository runs `git init`, points the unborn HEAD at the
// configured branch and adds the remote. The remote URL is handed to git
// verbatim; git decides which address forms it accepts.
func (manager *RepositoryManager) InitializeRepository(executionContext context.Context, workingDirectory string, options InitializeOptions) error {
	if validationError := requireValue(workingDirectoryFieldConstant, workingDirectory); validationError != nil {
		return validationError
	}
	if validationError := requireValue(remoteNameFieldConstant, options.RemoteName); validationError != nil {
		return validationError
	}
	if validationError := requireValue(remoteURLFieldConstant, options.RemoteURL); validationError != nil {
		return validationError
	}

	if commandError := manager.run(executionContext, workingDirectory, gitInitSubcommandConstant); commandError != nil {
		return commandError
	}
	if branch := strings.TrimSpace(options.Branch); len(branch) > 0 {
		if commandError := manager.run(executionContext, workingDirectory, gitSymbolicReferenceSubcommandConstant, gitHeadReferenceConstant, gitBranchReferencePrefixConstant+branch); commandError != nil {
			return commandError
		}
	}
	return manager.run(executionContext, workingDirectory, gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, strings.TrimSpace(options.RemoteName), strings.TrimSpace(options.RemoteURL))
}

// StageAll runs `git add --all`.
func (manager *RepositoryManager) StageAll(executionContext context.Context, workingDirectory string) error {
	return manager.run(executionContext, workingDirectory, gitAddSubcommandConstant, gitAllFlagConstant)
}

// Commit records staged changes with the provided message.
func (manager *RepositoryManager) Commit(executionContext context.Context, workingDirectory string, message string) error {
	if validationError := requireValue(commitMessageFieldConstant, message); validationError != nil {
		return validationError
	}
	return manager.run(executionContext, workingDirectory, gitCommitSubcommandConstant, gitMessageFlagConstant, message)
}

// Push publishes the branch to the remote.
func (manager *RepositoryManager) Push(executionContext context.Context, workingDirectory string, remoteName string, branch string) error {
	if validationError := requireValue(remoteNameFieldConstant, remoteName); validationError != nil {
		return validationError
	}
	if validationError := requireValue(branchFieldConstant, branch); validationError != nil {
		return validationError
	}
	return manager.run(executionContext, workingDirectory, gitPushSubcommandConstant, strings.TrimSpace(remoteName), strings.TrimSpace(branch))
}

// PublishInitialCommit stages everything, commits and pushes, stopping at the first failure.
func (manager *RepositoryManager) PublishInitialCommit(executionContext context.Context, workingDirectory string, options PublishOptions) error {
	if commandError := manager.StageAll(executionContext, workingDirectory); commandError != nil {
		return commandError
	}
	if commandError := manager.Commit(executionContext, workingDirectory, options.CommitMessage); commandError != nil {
		return commandError
	}
	return manager.Push(executionContext, workingDirectory, options.RemoteName, options.Branch)
}

func (manager *RepositoryManager) run(executionContext context.Context, workingDirectory string, arguments ...string) error {
	if validationError := requireValue(workingDirectoryFieldConstant, workingDirectory); validationError != nil {
		return validationError
	}
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:         arguments,
		WorkingDirectory:  workingDirectory,
		EchoStandardError: true,
	})
	return executionError
}

func requireValue(fieldName string, value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return InvalidArgumentError{FieldName: fieldName, Message: requiredValueMessageConstant}
	}
	return nil
}
