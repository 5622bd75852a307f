package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForRemoteAddIncludesRemoteAndURL(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"remote", "add", "origin", "git@github.com:user/my-pkg.git"},
			WorkingDirectory: "/workspace/my-pkg",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Adding origin remote git@github.com:user/my-pkg.git in /workspace/my-pkg", message)
}

func TestBuildMessagesForCommitAndPush(t *testing.T) {
	formatter := CommandMessageFormatter{}
	commitCommand := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"commit", "-m", "Initial commit"}, WorkingDirectory: "/workspace/my-pkg"},
	}
	pushCommand := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"push", "origin", "master"}, WorkingDirectory: "/workspace/my-pkg"},
	}

	require.Equal(t, `Created commit in /workspace/my-pkg with message "Initial commit"`, formatter.BuildSuccessMessage(commitCommand))
	require.Equal(t, "Failed to push master to origin from /workspace/my-pkg (exit code 1: denied)", formatter.BuildFailureMessage(pushCommand, ExecutionResult{ExitCode: 1, StandardError: "denied\n"}))
}

func TestBuildMessagesForNPMCommands(t *testing.T) {
	formatter := CommandMessageFormatter{}
	installCommand := ShellCommand{
		Name:    CommandNPM,
		Details: CommandDetails{Arguments: []string{"install", "--save-dev", "semantic-release"}, WorkingDirectory: "/workspace/my-pkg"},
	}
	initCommand := ShellCommand{
		Name:    CommandNPM,
		Details: CommandDetails{Arguments: []string{"init"}},
	}

	require.Equal(t, "Installing semantic-release in /workspace/my-pkg", formatter.BuildStartedMessage(installCommand))
	require.Equal(t, "Unable to run npm init in current directory: boom", formatter.BuildExecutionFailureMessage(initCommand, errors.New("boom")))
}

func TestBuildGenericMessageUsesExecutableBaseName(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandName("/workspace/my-pkg/node_modules/.bin/semantic-release"),
		Details: CommandDetails{Arguments: []string{"setup"}, WorkingDirectory: "/workspace/my-pkg"},
	}

	require.Equal(t, "Running semantic-release setup (in /workspace/my-pkg)", formatter.BuildStartedMessage(command))
}

func TestBuildMessagesForInitialBranchSelection(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"symbolic-ref", "HEAD", "refs/heads/master"}, WorkingDirectory: "/workspace/my-pkg"},
	}
	truncatedCommand := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"symbolic-ref", "HEAD"}},
	}

	require.Equal(t, "Selecting branch master in /workspace/my-pkg", formatter.BuildStartedMessage(command))
	require.Equal(t, "Failed to select branch master in /workspace/my-pkg (exit code 128: fatal: not a git repository)", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository\n"}))
	require.Equal(t, "Completed git symbolic-ref HEAD", formatter.BuildSuccessMessage(truncatedCommand))
}

func TestBuildMessagesForGitHubCLIToken(t *testing.T) {
	formatter := CommandMessageFormatter{}
	tokenCommand := ShellCommand{Name: CommandGitHubCLI, Details: CommandDetails{Arguments: []string{"auth", "token"}}}
	otherCommand := ShellCommand{Name: CommandGitHubCLI, Details: CommandDetails{Arguments: []string{"auth", "status"}}}

	require.Equal(t, "Reading GitHub token from gh", formatter.BuildStartedMessage(tokenCommand))
	require.Equal(t, "Read GitHub token from gh", formatter.BuildSuccessMessage(tokenCommand))
	require.Equal(t, "Failed to read GitHub token from gh (exit code 1: no oauth token found for github.com)", formatter.BuildFailureMessage(tokenCommand, ExecutionResult{ExitCode: 1, StandardError: "no oauth token found for github.com\n"}))
	require.Equal(t, "Unable to read GitHub token from gh: exec: \"gh\": executable file not found in $PATH", formatter.BuildExecutionFailureMessage(tokenCommand, errors.New("exec: \"gh\": executable file not found in $PATH")))
	require.Equal(t, "Running gh auth status", formatter.BuildStartedMessage(otherCommand))
}
