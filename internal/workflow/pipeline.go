package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/create-module/internal/gitrepo"
	"github.com/temirov/create-module/internal/hosting"
	"github.com/temirov/create-module/internal/scaffold"
)

const (
	creatingRepositoryMessageConstant    = "Creating GitHub repo.."
	createdRepositoryTemplateConstant    = "Created repo %s"
	creatingDirectoryTemplateConstant    = "Creating directory %s"
	initializingGitMessageConstant       = "Initialize git.."
	creatingReadmeMessageConstant        = "Create readme.md..."
	creatingGitignoreMessageConstant     = "Create .gitignore..."
	creatingCIConfigMessageConstant      = "Create .travis.yml"
	pushingMessageConstant               = "Commit and push to GitHub"
	doneMessageConstant                  = "Done."
	guidanceMessageConstant              = "If you have a more sophisticated build with multiple jobs you should have a look at\nhttps://github.com/dmakhno/travis_after_all\n\nGrant the token repo/public_repo scope (all others can be deselected)\n\nEncrypt your GH_TOKEN with this:\ntravis encrypt GH_TOKEN=<token> --add\nThe same for your npm details\ntravis encrypt $(echo -n \"<username>:<password>\" | base64) --add deploy.api_key"
	gitInitStepConstant                  = "git init"
	npmInitStepConstant                  = "npm init"
	npmInstallStepTemplateConstant       = "npm install %s"
	releaseToolSetupStepTemplateConstant = "%s setup"
	gitPushStepConstant                  = "git push"
	createDirectoryOperationConstant     = "create directory"
	resolveDirectoryOperationConstant    = "resolve working directory of"
	writeFileOperationConstant           = "write"
	emptyNameReasonConstant              = "name must not be empty"
	pathSeparatorNameReasonConstant      = "name must not contain path separators"
	relativeDirectoryNameReasonConstant  = "name must not refer to the current or parent directory"
	missingCloneURLTemplateConstant      = "repository response did not include a clone URL: %w"
	missingDependenciesMessageConstant   = "pipeline requires registry, hosting, git, npm, boilerplate, manifest and filesystem dependencies"
	stepLogMessageConstant               = "Completed scaffolding step"
	stepLogFieldConstant                 = "step"
	directoryLogFieldConstant            = "directory"
	repositoryLogFieldConstant           = "repository"
	moduleDirectoryPermissionsConstant   = fs.FileMode(0o755)
	currentDirectoryNameConstant         = "."
	parentDirectoryNameConstant          = ".."
	forwardSlashConstant                 = "/"
	backslashConstant                    = "\\"
)

// NameChecker reports whether a package name is still free on the registry.
type NameChecker interface {
	CheckAvailability(executionContext context.Context, packageName string) (bool, error)
}

// RepositoryHost creates and updates the hosted repository.
type RepositoryHost interface {
	CreateRepository(executionContext context.Context, name string) (hosting.Repository, error)
	UpdateDescription(executionContext context.Context, repository hosting.Repository, description string) error
}

// RepositoryHostFactory builds a RepositoryHost authenticated with token.
type RepositoryHostFactory func(executionContext context.Context, token string) (RepositoryHost, error)

// RepositoryInitializer runs the git side of the pipeline.
type RepositoryInitializer interface {
	InitializeRepository(executionContext context.Context, workingDirectory string, options gitrepo.InitializeOptions) error
	PublishInitialCommit(executionContext context.Context, workingDirectory string, options gitrepo.PublishOptions) error
}

// PackageManager runs the npm side of the pipeline.
type PackageManager interface {
	Init(executionContext context.Context, workingDirectory string) error
	InstallReleaseTool(executionContext context.Context, workingDirectory string) error
	SetupReleaseTool(executionContext context.Context, workingDirectory string) error
	ReleaseTool() string
	ReleaseToolPackageSpec() string
}

// BoilerplateWriter writes the generated files.
type BoilerplateWriter interface {
	WriteReadme(directory string, packageName string) error
	WriteGitignore(directory string) error
	WriteCIConfig(directory string, template scaffold.CITemplate) error
}

// ManifestReader extracts the description from the generated package manifest.
type ManifestReader interface {
	ReadDescription(directory string) (string, error)
}

// FileSystem creates the module directory below the current working directory.
type FileSystem interface {
	Getwd() (string, error)
	Mkdir(path string, permissions fs.FileMode) error
}

// Dependencies configures the collaborators used by the pipeline.
type Dependencies struct {
	Logger            *zap.Logger
	NameChecker       NameChecker
	HostFactory       RepositoryHostFactory
	RepositoryManager RepositoryInitializer
	PackageManager    PackageManager
	BoilerplateWriter BoilerplateWriter
	ManifestReader    ManifestReader
	FileSystem        FileSystem
	Output            io.Writer
}

// Pipeline scaffolds one module per Run.
type Pipeline struct {
	dependencies  Dependencies
	configuration Configuration
}

// NewPipeline validates dependencies and constructs a Pipeline.
func NewPipeline(dependencies Dependencies, configuration Configuration) (*Pipeline, error) {
	if dependencies.NameChecker == nil || dependencies.HostFactory == nil || dependencies.RepositoryManager == nil || dependencies.PackageManager == nil || dependencies.BoilerplateWriter == nil || dependencies.ManifestReader == nil || dependencies.FileSystem == nil {
		return nil, errors.New(missingDependenciesMessageConstant)
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Output == nil {
		dependencies.Output = io.Discard
	}

	sanitizedConfiguration, configurationError := configuration.sanitize()
	if configurationError != nil {
		return nil, configurationError
	}
	return &Pipeline{dependencies: dependencies, configuration: sanitizedConfiguration}, nil
}

// Run scaffolds the module called name. Steps run in order and the first
// failure is returned unchanged; nothing created before it is removed.
func (pipeline *Pipeline) Run(executionContext context.Context, name string, token string) error {
	moduleName := strings.TrimSpace(name)
	if nameError := validateModuleName(moduleName); nameError != nil {
		return nameError
	}

	if availabilityError := pipeline.checkName(executionContext, moduleName); availabilityError != nil {
		return availabilityError
	}

	host, repository, createError := pipeline.createRepository(executionContext, moduleName, token)
	if createError != nil {
		return createError
	}

	workingDirectory, directoryError := pipeline.createDirectory(moduleName)
	if directoryError != nil {
		return directoryError
	}

	if gitError := pipeline.initializeGit(executionContext, workingDirectory, repository); gitError != nil {
		return gitError
	}

	if boilerplateError := pipeline.writeBoilerplate(workingDirectory, moduleName); boilerplateError != nil {
		return boilerplateError
	}

	if packageError := pipeline.setUpPackage(executionContext, workingDirectory); packageError != nil {
		return packageError
	}

	pipeline.printf(creatingCIConfigMessageConstant)
	if writeError := pipeline.dependencies.BoilerplateWriter.WriteCIConfig(workingDirectory, pipeline.configuration.CITemplate); writeError != nil {
		return FilesystemError{Operation: writeFileOperationConstant, Path: filepath.Join(workingDirectory, scaffold.CIConfigFileName), Cause: writeError}
	}
	pipeline.logStep(scaffold.CIConfigFileName)

	fmt.Fprintln(pipeline.dependencies.Output, guidanceMessageConstant)

	if finalizeError := pipeline.finalize(executionContext, workingDirectory, host, repository); finalizeError != nil {
		return finalizeError
	}

	pipeline.printf(doneMessageConstant)
	return nil
}

func validateModuleName(moduleName string) error {
	switch {
	case len(moduleName) == 0:
		return InvalidNameError{Name: moduleName, Reason: emptyNameReasonConstant}
	case strings.Contains(moduleName, forwardSlashConstant) || strings.Contains(moduleName, backslashConstant):
		return InvalidNameError{Name: moduleName, Reason: pathSeparatorNameReasonConstant}
	case moduleName == currentDirectoryNameConstant || moduleName == parentDirectoryNameConstant:
		return InvalidNameError{Name: moduleName, Reason: relativeDirectoryNameReasonConstant}
	default:
		return nil
	}
}

func (pipeline *Pipeline) checkName(executionContext context.Context, moduleName string) error {
	available, checkError := pipeline.dependencies.NameChecker.CheckAvailability(executionContext, moduleName)
	if checkError != nil {
		return NetworkError{Cause: checkError}
	}
	if !available {
		return NameTakenError{Name: moduleName}
	}
	pipeline.logStep("check name")
	return nil
}

func (pipeline *Pipeline) createRepository(executionContext context.Context, moduleName string, token string) (RepositoryHost, hosting.Repository, error) {
	pipeline.printf(creatingRepositoryMessageConstant)

	host, hostError := pipeline.dependencies.HostFactory(executionContext, token)
	if hostError != nil {
		return nil, hosting.Repository{}, RemoteCreateError{Name: moduleName, Cause: hostError}
	}

	repository, createError := host.CreateRepository(executionContext, moduleName)
	if createError != nil {
		return nil, hosting.Repository{}, RemoteCreateError{Name: moduleName, Cause: createError}
	}
	if len(repository.FullName) == 0 {
		repository.FullName = repository.Owner + forwardSlashConstant + repository.Name
	}

	pipeline.printf(createdRepositoryTemplateConstant, repository.FullName)
	pipeline.logStep("create repository", zap.String(repositoryLogFieldConstant, repository.FullName))
	return host, repository, nil
}

func (pipeline *Pipeline) createDirectory(moduleName string) (string, error) {
	currentDirectory, workingDirectoryError := pipeline.dependencies.FileSystem.Getwd()
	if workingDirectoryError != nil {
		return "", FilesystemError{Operation: resolveDirectoryOperationConstant, Path: moduleName, Cause: workingDirectoryError}
	}

	workingDirectory := filepath.Join(currentDirectory, moduleName)
	pipeline.printf(creatingDirectoryTemplateConstant, workingDirectory)
	if mkdirError := pipeline.dependencies.FileSystem.Mkdir(workingDirectory, moduleDirectoryPermissionsConstant); mkdirError != nil {
		return "", FilesystemError{Operation: createDirectoryOperationConstant, Path: workingDirectory, Cause: mkdirError}
	}

	pipeline.logStep("create directory", zap.String(directoryLogFieldConstant, workingDirectory))
	return workingDirectory, nil
}

func (pipeline *Pipeline) initializeGit(executionContext context.Context, workingDirectory string, repository hosting.Repository) error {
	pipeline.printf(initializingGitMessageConstant)

	cloneURL := strings.TrimSpace(repository.SSHURL)
	if len(cloneURL) == 0 {
		derivedURL, deriveError := gitrepo.SSHRemoteFromWebURL(repository.HTMLURL)
		if deriveError != nil {
			return RemoteCreateError{Name: repository.FullName, Cause: fmt.Errorf(missingCloneURLTemplateConstant, deriveError)}
		}
		cloneURL = derivedURL
	}

	initializeError := pipeline.dependencies.RepositoryManager.InitializeRepository(executionContext, workingDirectory, gitrepo.InitializeOptions{
		RemoteName: pipeline.configuration.RemoteName,
		RemoteURL:  cloneURL,
		Branch:     pipeline.configuration.Branch,
	})
	if initializeError != nil {
		return newProcessError(gitInitStepConstant, initializeError)
	}

	pipeline.logStep(gitInitStepConstant)
	return nil
}

func (pipeline *Pipeline) writeBoilerplate(workingDirectory string, moduleName string) error {
	pipeline.printf(creatingReadmeMessageConstant)
	if readmeError := pipeline.dependencies.BoilerplateWriter.WriteReadme(workingDirectory, moduleName); readmeError != nil {
		return FilesystemError{Operation: writeFileOperationConstant, Path: filepath.Join(workingDirectory, scaffold.ReadmeFileName), Cause: readmeError}
	}
	pipeline.logStep(scaffold.ReadmeFileName)

	pipeline.printf(creatingGitignoreMessageConstant)
	if gitignoreError := pipeline.dependencies.BoilerplateWriter.WriteGitignore(workingDirectory); gitignoreError != nil {
		return FilesystemError{Operation: writeFileOperationConstant, Path: filepath.Join(workingDirectory, scaffold.GitignoreFileName), Cause: gitignoreError}
	}
	pipeline.logStep(scaffold.GitignoreFileName)
	return nil
}

func (pipeline *Pipeline) setUpPackage(executionContext context.Context, workingDirectory string) error {
	packageManager := pipeline.dependencies.PackageManager

	if initError := packageManager.Init(executionContext, workingDirectory); initError != nil {
		return newProcessError(npmInitStepConstant, initError)
	}
	pipeline.logStep(npmInitStepConstant)

	installStep := fmt.Sprintf(npmInstallStepTemplateConstant, packageManager.ReleaseToolPackageSpec())
	if installError := packageManager.InstallReleaseTool(executionContext, workingDirectory); installError != nil {
		return newProcessError(installStep, installError)
	}
	pipeline.logStep(installStep)

	setupStep := fmt.Sprintf(releaseToolSetupStepTemplateConstant, packageManager.ReleaseTool())
	if setupError := packageManager.SetupReleaseTool(executionContext, workingDirectory); setupError != nil {
		return newProcessError(setupStep, setupError)
	}
	pipeline.logStep(setupStep)
	return nil
}

// finalize pushes the initial commit and updates the description at the same
// time. Neither branch cancels the other and both errors are reported.
func (pipeline *Pipeline) finalize(executionContext context.Context, workingDirectory string, host RepositoryHost, repository hosting.Repository) error {
	var pushError, updateError error
	var group errgroup.Group

	group.Go(func() error {
		pipeline.printf(pushingMessageConstant)
		publishError := pipeline.dependencies.RepositoryManager.PublishInitialCommit(executionContext, workingDirectory, gitrepo.PublishOptions{
			RemoteName:    pipeline.configuration.RemoteName,
			Branch:        pipeline.configuration.Branch,
			CommitMessage: pipeline.configuration.CommitMessage,
		})
		if publishError != nil {
			pushError = newProcessError(gitPushStepConstant, publishError)
			return pushError
		}
		pipeline.logStep(gitPushStepConstant)
		return nil
	})

	group.Go(func() error {
		description, readError := pipeline.dependencies.ManifestReader.ReadDescription(workingDirectory)
		if readError != nil {
			updateError = RemoteUpdateError{FullName: repository.FullName, Cause: readError}
			return updateError
		}
		if descriptionError := host.UpdateDescription(executionContext, repository, description); descriptionError != nil {
			updateError = RemoteUpdateError{FullName: repository.FullName, Cause: descriptionError}
			return updateError
		}
		pipeline.logStep("update description", zap.String(repositoryLogFieldConstant, repository.FullName))
		return nil
	})

	_ = group.Wait()
	return multierr.Combine(pushError, updateError)
}

func (pipeline *Pipeline) printf(format string, arguments ...any) {
	fmt.Fprintf(pipeline.dependencies.Output, format+"\n", arguments...)
}

func (pipeline *Pipeline) logStep(step string, fields ...zap.Field) {
	pipeline.dependencies.Logger.Debug(stepLogMessageConstant, append([]zap.Field{zap.String(stepLogFieldConstant, step)}, fields...)...)
}
