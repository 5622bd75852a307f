package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/create-module/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testGitWrapperCaseNameConstant               = "git_wrapper"
	testNPMWrapperCaseNameConstant               = "npm_wrapper"
	testGitHubCLIWrapperCaseNameConstant         = "github_cli_wrapper"
	testCustomCommandCaseNameConstant            = "custom_command"
	testStandardErrorOutputConstant              = "failure"
	testReleaseToolCommandConstant               = "/tmp/project/node_modules/.bin/semantic-release"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

type recordingObserver struct {
	started   int
	completed int
	failed    int
}

func (observer *recordingObserver) CommandStarted(execshell.ShellCommand) {
	observer.started++
}

func (observer *recordingObserver) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
	observer.completed++
}

func (observer *recordingObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	observer.failed++
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	installDetails := execshell.CommandDetails{
		Arguments:        []string{"install", "--save-dev", "semantic-release"},
		WorkingDirectory: "/workspace/my-pkg",
		InheritTerminal:  true,
	}
	runnerFailure := errors.New("exec: \"npm\": executable file not found in $PATH")

	testCases := []struct {
		name              string
		runnerResult      execshell.ExecutionResult
		runnerError       error
		expectedLevels    []zapcore.Level
		expectedMessages  []string
		expectedCompleted int
		expectedFailed    int
		verifyError       func(testInstance *testing.T, executionError error)
	}{
		{
			name:              testExecutionSuccessCaseNameConstant,
			runnerResult:      execshell.ExecutionResult{StandardOutput: "added 1 package", ExitCode: 0},
			expectedLevels:    []zapcore.Level{zapcore.InfoLevel, zapcore.DebugLevel},
			expectedMessages:  []string{"Installing semantic-release in /workspace/my-pkg", "Installed semantic-release in /workspace/my-pkg"},
			expectedCompleted: 1,
			verifyError: func(testInstance *testing.T, executionError error) {
				require.NoError(testInstance, executionError)
			},
		},
		{
			name:              testExecutionFailureCaseNameConstant,
			runnerResult:      execshell.ExecutionResult{StandardError: testStandardErrorOutputConstant, ExitCode: 1},
			expectedLevels:    []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel},
			expectedMessages:  []string{"Installing semantic-release in /workspace/my-pkg", "Failed npm install semantic-release in /workspace/my-pkg (exit code 1: failure)"},
			expectedCompleted: 1,
			verifyError: func(testInstance *testing.T, executionError error) {
				var failedError execshell.CommandFailedError
				require.ErrorAs(testInstance, executionError, &failedError)
				require.Equal(testInstance, 1, failedError.Result.ExitCode)
				require.Equal(testInstance, execshell.CommandNPM, failedError.Command.Name)
			},
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      runnerFailure,
			expectedLevels:   []zapcore.Level{zapcore.InfoLevel, zapcore.ErrorLevel},
			expectedMessages: []string{"Installing semantic-release in /workspace/my-pkg", "Unable to install semantic-release in /workspace/my-pkg: " + runnerFailure.Error()},
			expectedFailed:   1,
			verifyError: func(testInstance *testing.T, executionError error) {
				var executionFailure execshell.CommandExecutionError
				require.ErrorAs(testInstance, executionError, &executionFailure)
				require.ErrorIs(testInstance, executionError, runnerFailure)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}
			eventObserver := &recordingObserver{}

			shellExecutor, creationError := execshell.NewShellExecutorWithObserver(zap.New(observerCore), recordingRunner, eventObserver)
			require.NoError(testInstance, creationError)

			executionResult, executionError := shellExecutor.ExecuteNPM(context.Background(), installDetails)
			testCase.verifyError(testInstance, executionError)
			if executionError != nil {
				require.Empty(testInstance, executionResult.StandardOutput)
			} else {
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			entries := observerLogs.All()
			require.Len(testInstance, entries, len(testCase.expectedLevels))
			for entryIndex, entry := range entries {
				require.Equal(testInstance, testCase.expectedLevels[entryIndex], entry.Level)
				require.Equal(testInstance, testCase.expectedMessages[entryIndex], entry.Message)
			}
			require.Equal(testInstance, true, entries[0].ContextMap()["interactive"])
			require.Equal(testInstance, "/workspace/my-pkg", entries[0].ContextMap()["working_directory"])

			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			require.True(testInstance, recordingRunner.recordedCommands[0].Details.InheritTerminal)
			require.Equal(testInstance, 1, eventObserver.started)
			require.Equal(testInstance, testCase.expectedCompleted, eventObserver.completed)
			require.Equal(testInstance, testCase.expectedFailed, eventObserver.failed)
		})
	}
}

func TestCommandFailedErrorIncludesStandardError(testInstance *testing.T) {
	failedError := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"push", "origin", "master"}}},
		Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: repository not found\n"},
	}

	require.Equal(testInstance, "git push origin master exited with code 128: fatal: repository not found", failedError.Error())
}

func TestShellExecutorWrappersSetCommandNames(testInstance *testing.T) {
	testCases := []struct {
		name            string
		invoke          func(executor *execshell.ShellExecutor) error
		expectedCommand execshell.CommandName
	}{
		{
			name: testGitWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandGit,
		},
		{
			name: testNPMWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteNPM(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandNPM,
		},
		{
			name: testGitHubCLIWrapperCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteGitHubCLI(context.Background(), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandGitHubCLI,
		},
		{
			name: testCustomCommandCaseNameConstant,
			invoke: func(executor *execshell.ShellExecutor) error {
				_, executionError := executor.ExecuteCommand(context.Background(), execshell.CommandName(testReleaseToolCommandConstant), execshell.CommandDetails{})
				return executionError
			},
			expectedCommand: execshell.CommandName(testReleaseToolCommandConstant),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			recordingRunner := &recordingCommandRunner{
				executionResult: execshell.ExecutionResult{ExitCode: 1},
			}
			executor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner)
			require.NoError(testInstance, creationError)

			executionError := testCase.invoke(executor)
			require.Error(testInstance, executionError)
			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			require.Equal(testInstance, testCase.expectedCommand, recordingRunner.recordedCommands[0].Name)
		})
	}
}
