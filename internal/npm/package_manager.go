package npm

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/temirov/create-module/internal/execshell"
)

const (
	// DefaultReleaseTool is the release-automation package installed into new modules.
	DefaultReleaseTool = "semantic-release"

	initSubcommandConstant                  = "init"
	installSubcommandConstant               = "install"
	saveDevFlagConstant                     = "--save-dev"
	setupSubcommandConstant                 = "setup"
	nodeModulesDirectoryConstant            = "node_modules"
	binariesDirectoryConstant               = ".bin"
	packageSpecTemplateConstant             = "%s@%s"
	invalidConstraintTemplateConstant       = "invalid %s version constraint %q: %v"
	workingDirectoryRequiredMessageConstant = "working directory must be provided"
)

// ErrExecutorNotConfigured indicates the package manager was built without an executor.
var ErrExecutorNotConfigured = errors.New("npm executor not configured")

// CommandExecutor runs npm and arbitrary package binaries.
type CommandExecutor interface {
	ExecuteNPM(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteCommand(executionContext context.Context, name execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Configuration selects the release tool and an optional semver constraint for it.
type Configuration struct {
	ReleaseTool        string
	ReleaseToolVersion string
}

// PackageManager runs npm commands inside a module directory.
type PackageManager struct {
	executor    CommandExecutor
	releaseTool string
	packageSpec string
}

// NewPackageManager validates the configuration and constructs a PackageManager.
func NewPackageManager(executor CommandExecutor, configuration Configuration) (*PackageManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	releaseTool := strings.TrimSpace(configuration.ReleaseTool)
	if len(releaseTool) == 0 {
		releaseTool = DefaultReleaseTool
	}

	packageSpec := releaseTool
	if versionConstraint := strings.TrimSpace(configuration.ReleaseToolVersion); len(versionConstraint) > 0 {
		if _, constraintError := semver.NewConstraint(versionConstraint); constraintError != nil {
			return nil, fmt.Errorf(invalidConstraintTemplateConstant, releaseTool, versionConstraint, constraintError)
		}
		packageSpec = fmt.Sprintf(packageSpecTemplateConstant, releaseTool, versionConstraint)
	}

	return &PackageManager{executor: executor, releaseTool: releaseTool, packageSpec: packageSpec}, nil
}

// ReleaseTool returns the name of the release-automation package.
func (manager *PackageManager) ReleaseTool() string {
	return manager.releaseTool
}

// ReleaseToolPackageSpec returns the argument handed to `npm install`.
func (manager *PackageManager) ReleaseToolPackageSpec() string {
	return manager.packageSpec
}

// Init runs `npm init` attached to the terminal so the user can answer its prompts.
func (manager *PackageManager) Init(executionContext context.Context, workingDirectory string) error {
	return manager.runNPM(executionContext, workingDirectory, initSubcommandConstant)
}

// InstallReleaseTool runs `npm install --save-dev <release tool>`, streaming its output.
func (manager *PackageManager) InstallReleaseTool(executionContext context.Context, workingDirectory string) error {
	return manager.runNPM(executionContext, workingDirectory, installSubcommandConstant, saveDevFlagConstant, manager.packageSpec)
}

// SetupReleaseTool runs `node_modules/.bin/<release tool> setup` attached to the terminal.
func (manager *PackageManager) SetupReleaseTool(executionContext context.Context, workingDirectory string) error {
	if len(strings.TrimSpace(workingDirectory)) == 0 {
		return errors.New(workingDirectoryRequiredMessageConstant)
	}
	binaryPath := filepath.Join(workingDirectory, nodeModulesDirectoryConstant, binariesDirectoryConstant, manager.releaseTool)
	_, executionError := manager.executor.ExecuteCommand(executionContext, execshell.CommandName(binaryPath), execshell.CommandDetails{
		Arguments:        []string{setupSubcommandConstant},
		WorkingDirectory: workingDirectory,
		InheritTerminal:  true,
	})
	return executionError
}

func (manager *PackageManager) runNPM(executionContext context.Context, workingDirectory string, arguments ...string) error {
	if len(strings.TrimSpace(workingDirectory)) == 0 {
		return errors.New(workingDirectoryRequiredMessageConstant)
	}
	_, executionError := manager.executor.ExecuteNPM(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		InheritTerminal:  true,
	})
	return executionError
}
