package execshell

import (
	"fmt"
	"path/filepath"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitInitSubcommandNameConstant    = "init"
	gitSymbolicRefSubcommandConstant = "symbolic-ref"
	gitBranchReferencePrefixConstant = "refs/heads/"
	gitRemoteSubcommandNameConstant  = "remote"
	gitRemoteAddSubcommandConstant   = "add"
	gitAddSubcommandNameConstant     = "add"
	gitCommitSubcommandNameConstant  = "commit"
	gitPushSubcommandNameConstant    = "push"
	gitMessageFlagConstant           = "-m"
	npmInitSubcommandNameConstant    = "init"
	npmInstallSubcommandConstant     = "install"
	githubCLIAuthSubcommandConstant  = "auth"
	githubCLITokenSubcommandConstant = "token"
)

const (
	gitInitStartTemplateConstant                   = "Initializing git repository in %s"
	gitInitSuccessTemplateConstant                 = "Initialized git repository in %s"
	gitInitFailureTemplateConstant                 = "Failed to initialize git repository in %s (exit code %d%s)"
	gitInitExecutionFailureTemplateConstant        = "Unable to initialize git repository in %s: %s"
	gitSymbolicRefStartTemplateConstant            = "Selecting branch %s in %s"
	gitSymbolicRefSuccessTemplateConstant          = "Selected branch %s in %s"
	gitSymbolicRefFailureTemplateConstant          = "Failed to select branch %s in %s (exit code %d%s)"
	gitSymbolicRefExecutionFailureTemplateConstant = "Unable to select branch %s in %s: %s"
	gitRemoteAddStartTemplateConstant              = "Adding %s remote %s in %s"
	gitRemoteAddSuccessTemplateConstant            = "Added %s remote %s in %s"
	gitRemoteAddFailureTemplateConstant            = "Failed to add %s remote %s in %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplateConstant   = "Unable to add %s remote %s in %s: %s"
	gitAddStartTemplateConstant                    = "Staging %s in %s"
	gitAddSuccessTemplateConstant                  = "Staged %s in %s"
	gitAddFailureTemplateConstant                  = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant         = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant                 = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant               = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant               = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant      = "Unable to create commit in %s with message %q: %s"
	gitPushStartTemplateConstant                   = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant                 = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant                 = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant        = "Unable to push %s to %s from %s: %s"
	npmInitStartTemplateConstant                   = "Initializing package manifest in %s"
	npmInitSuccessTemplateConstant                 = "Initialized package manifest in %s"
	npmInitFailureTemplateConstant                 = "Failed npm init in %s (exit code %d%s)"
	npmInitExecutionFailureTemplateConstant        = "Unable to run npm init in %s: %s"
	npmInstallStartTemplateConstant                = "Installing %s in %s"
	npmInstallSuccessTemplateConstant              = "Installed %s in %s"
	npmInstallFailureTemplateConstant              = "Failed npm install %s in %s (exit code %d%s)"
	npmInstallExecutionFailureTemplateConstant     = "Unable to install %s in %s: %s"
	githubCLITokenStartMessageConstant             = "Reading GitHub token from gh"
	githubCLITokenSuccessMessageConstant           = "Read GitHub token from gh"
	githubCLITokenFailureTemplateConstant          = "Failed to read GitHub token from gh (exit code %d%s)"
	githubCLITokenExecutionFailureTemplateConstant = "Unable to read GitHub token from gh: %s"
	gitAllFilesLabelConstant                       = "all files"
	gitAllFilesFlagConstant                        = "--all"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandNPM:
		return formatter.describeNPMMessage(command, result, failure, stage)
	case CommandGitHubCLI:
		return formatter.describeGitHubCLIMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitInitSubcommandNameConstant:
		return formatter.describeGitInitMessage(command, result, failure, stage)
	case gitSymbolicRefSubcommandConstant:
		return formatter.describeGitSymbolicRefMessage(command, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.describeGitAddMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitInitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitInitStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitInitSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitInitFailureTemplateConstant, workingDirectory, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitInitExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

// describeGitSymbolicRefMessage covers `git symbolic-ref HEAD refs/heads/<branch>`, used to name the
// initial branch before the first commit exists.
func (formatter CommandMessageFormatter) describeGitSymbolicRefMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 3 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	branchName := formatter.ensureValue(strings.TrimPrefix(strings.TrimSpace(arguments[2]), gitBranchReferencePrefixConstant))
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitSymbolicRefStartTemplateConstant, branchName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitSymbolicRefSuccessTemplateConstant, branchName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitSymbolicRefFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitSymbolicRefExecutionFailureTemplateConstant, branchName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 4 || strings.TrimSpace(arguments[1]) != gitRemoteAddSubcommandConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	remoteName := formatter.ensureValue(strings.TrimSpace(arguments[2]))
	remoteURL := formatter.ensureValue(strings.TrimSpace(arguments[3]))
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteAddStartTemplateConstant, remoteName, remoteURL, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteAddSuccessTemplateConstant, remoteName, remoteURL, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteAddFailureTemplateConstant, remoteName, remoteURL, workingDirectory, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRemoteAddExecutionFailureTemplateConstant, remoteName, remoteURL, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	target := formatter.describeStagedPaths(command.Details.Arguments[1:])
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAddStartTemplateConstant, target, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, target, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAddFailureTemplateConstant, target, workingDirectory, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitAddExecutionFailureTemplateConstant, target, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.extractCommitMessage(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName, references := formatter.extractRemoteAndReferences(command.Details.Arguments[1:])
	trimmedRemote := formatter.ensureValue(remoteName)
	joinedReferences := formatter.ensureValue(strings.Join(references, ", "))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushStartTemplateConstant, joinedReferences, trimmedRemote, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, joinedReferences, trimmedRemote, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, joinedReferences, trimmedRemote, workingDirectory, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, joinedReferences, trimmedRemote, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeNPMMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch strings.TrimSpace(command.Details.Arguments[0]) {
	case npmInitSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(npmInitStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(npmInitSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(npmInitFailureTemplateConstant, workingDirectory, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(npmInitExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	case npmInstallSubcommandConstant:
		packages := formatter.ensureValue(strings.Join(formatter.collectNonFlagArguments(command.Details.Arguments[1:]), ", "))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(npmInstallStartTemplateConstant, packages, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(npmInstallSuccessTemplateConstant, packages, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(npmInstallFailureTemplateConstant, packages, workingDirectory, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(npmInstallExecutionFailureTemplateConstant, packages, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubCLIMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || strings.TrimSpace(arguments[0]) != githubCLIAuthSubcommandConstant || strings.TrimSpace(arguments[1]) != githubCLITokenSubcommandConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return githubCLITokenStartMessageConstant
	case messageStageSuccess:
		return githubCLITokenSuccessMessageConstant
	case messageStageFailure:
		return fmt.Sprintf(githubCLITokenFailureTemplateConstant, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubCLITokenExecutionFailureTemplateConstant, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := filepath.Base(string(command.Name))
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) describeStagedPaths(arguments []string) string {
	if containsArgument(arguments, gitAllFilesFlagConstant) {
		return gitAllFilesLabelConstant
	}
	return formatter.ensureValue(strings.Join(formatter.collectNonFlagArguments(arguments), ", "))
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	nonFlagArguments := formatter.collectNonFlagArguments(arguments)
	if len(nonFlagArguments) == 0 {
		return emptyStringConstant, nil
	}
	return nonFlagArguments[0], nonFlagArguments[1:]
}

func (formatter CommandMessageFormatter) collectNonFlagArguments(arguments []string) []string {
	collected := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		collected = append(collected, trimmed)
	}
	return collected
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
