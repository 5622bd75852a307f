package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/create-module/internal/execshell"
	"github.com/temirov/create-module/internal/filesystem"
	"github.com/temirov/create-module/internal/githubauth"
	"github.com/temirov/create-module/internal/githubcli"
	"github.com/temirov/create-module/internal/gitrepo"
	"github.com/temirov/create-module/internal/hosting"
	"github.com/temirov/create-module/internal/manifest"
	"github.com/temirov/create-module/internal/npm"
	"github.com/temirov/create-module/internal/registry"
	"github.com/temirov/create-module/internal/scaffold"
	"github.com/temirov/create-module/internal/ui"
	"github.com/temirov/create-module/internal/utils"
	"github.com/temirov/create-module/internal/workflow"
)

const (
	applicationNameConstant                 = "create-module"
	applicationUseConstant                  = applicationNameConstant + " <name>"
	applicationShortDescriptionConstant     = "Scaffold an npm module with a GitHub repository and semantic-release"
	applicationLongDescriptionConstant      = "create-module checks that <name> is free on npm, creates the GitHub repository, initializes git and npm, configures semantic-release and Travis CI, then pushes the initial commit."
	usageMessageConstant                    = "Usage: " + applicationUseConstant
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	tokenSourceFlagNameConstant             = "token-source"
	tokenSourceFlagUsageConstant            = "GitHub token source (env:NAME or file:/path). Defaults to GH_TOKEN, GITHUB_TOKEN, GITHUB_API_TOKEN, then the token of the gh login."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	toolsConfigurationKeyConstant           = "tools"
	createModuleConfigurationKeyConstant    = toolsConfigurationKeyConstant + ".create_module"
	environmentPrefixConstant               = "CREATEMODULE"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	ciTemplateLoadErrorTemplateConstant     = "unable to load CI template %s: %w"
	rootCommandInfoMessageConstant          = "create-module executed"
	rootCommandDebugMessageConstant         = "create-module diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
)

// ApplicationDependencies overrides the collaborators that reach outside the process.
// Zero values select the operating system implementations.
type ApplicationDependencies struct {
	EnvironmentLookup        githubauth.EnvironmentLookup
	FileSystem               filesystem.FileSystem
	CommandRunner            execshell.CommandRunner
	RegistryHTTPClient       *http.Client
	HostingTransport         http.RoundTripper
	ConfigurationSearchPaths []string
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	tokenSourceFlagValue  string
	dependencies          ApplicationDependencies
	homeExpander          *utils.HomeExpander
	errorOutput           io.Writer
}

// NewApplication assembles a CLI application backed by the operating system.
func NewApplication() *Application {
	return NewApplicationWithDependencies(ApplicationDependencies{})
}

// NewApplicationWithDependencies assembles a CLI application using the provided collaborators.
func NewApplicationWithDependencies(dependencies ApplicationDependencies) *Application {
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = filesystem.OSFileSystem{}
	}
	if dependencies.EnvironmentLookup == nil {
		dependencies.EnvironmentLookup = os.LookupEnv
	}
	searchPaths := dependencies.ConfigurationSearchPaths
	if len(searchPaths) == 0 {
		searchPaths = utils.DefaultSearchPaths(applicationNameConstant)
	}

	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		searchPaths,
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		dependencies:        dependencies,
		homeExpander:        utils.NewHomeExpander(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationUseConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.tokenSourceFlagValue, tokenSourceFlagNameConstant, "", tokenSourceFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the Cobra command so callers can set arguments and streams.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Configuration returns the configuration resolved by the last execution.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

// Execute runs the root command until it finishes or the process is interrupted, then flushes the logger.
func (application *Application) Execute() error {
	signalContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	return application.ExecuteContext(signalContext)
}

// ExecuteContext runs the root command with executionContext and ensures logger flushing.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range DefaultConfigurationValues(createModuleConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, tokenSourceFlagNameConstant) {
		application.configuration.Tools.CreateModule.TokenSource = application.tokenSourceFlagValue
	}

	// Log lines and echoed git output share one writer so concurrent steps do not interleave mid-line.
	application.errorOutput = utils.NewSynchronizedWriter(command.ErrOrStderr())
	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		application.errorOutput,
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		fmt.Fprintln(command.OutOrStdout(), usageMessageConstant)
		return command.Help()
	}

	executionContext := command.Context()
	moduleConfiguration := application.configuration.Tools.CreateModule

	shellExecutor, executorError := application.buildShellExecutor(command)
	if executorError != nil {
		return executorError
	}

	githubCLITokenSource, tokenSourceError := githubcli.NewTokenSource(shellExecutor, moduleConfiguration.GitHubCLIHostname)
	if tokenSourceError != nil {
		return tokenSourceError
	}
	tokenResolver := githubauth.NewResolver(application.dependencies.EnvironmentLookup, application.dependencies.FileSystem.ReadFile, application.homeExpander).WithFallback(githubCLITokenSource)
	token, tokenError := tokenResolver.Resolve(executionContext, moduleConfiguration.TokenSource)
	if tokenError != nil {
		return tokenError
	}

	pipeline, pipelineError := application.buildPipeline(command, moduleConfiguration, shellExecutor)
	if pipelineError != nil {
		return pipelineError
	}

	// Only the first argument names the module; anything after it is ignored.
	return pipeline.Run(executionContext, arguments[0], token)
}

func (application *Application) buildShellExecutor(command *cobra.Command) (*execshell.ShellExecutor, error) {
	commandRunner := application.dependencies.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunnerWithTerminal(command.InOrStdin(), command.OutOrStdout(), application.errorOutput)
	}

	var commandObserver execshell.CommandEventObserver
	if application.humanReadableLoggingEnabled() {
		commandObserver = ui.NewConsoleCommandEventLogger(application.logger)
	}
	return execshell.NewShellExecutorWithObserver(application.logger, commandRunner, commandObserver)
}

func (application *Application) buildPipeline(command *cobra.Command, moduleConfiguration CreateModuleConfiguration, shellExecutor *execshell.ShellExecutor) (*workflow.Pipeline, error) {
	fileSystem := application.dependencies.FileSystem

	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return nil, managerError
	}

	packageManager, packageManagerError := npm.NewPackageManager(shellExecutor, npm.Configuration{
		ReleaseTool:        moduleConfiguration.ReleaseTool,
		ReleaseToolVersion: moduleConfiguration.ReleaseToolVersion,
	})
	if packageManagerError != nil {
		return nil, packageManagerError
	}

	ciTemplate, ciTemplateError := application.loadCITemplate(moduleConfiguration.CITemplate)
	if ciTemplateError != nil {
		return nil, ciTemplateError
	}

	registryClient := registry.NewClient(registry.Configuration{
		BaseURL:   moduleConfiguration.RegistryURL,
		UserAgent: moduleConfiguration.UserAgent,
		Timeout:   moduleConfiguration.HTTPTimeout,
	}, application.dependencies.RegistryHTTPClient, application.logger)

	hostingFactory := hosting.NewClientFactory(hosting.Configuration{
		BaseURL:   moduleConfiguration.APIURL,
		UserAgent: moduleConfiguration.UserAgent,
		Timeout:   moduleConfiguration.HTTPTimeout,
	}, application.dependencies.HostingTransport, application.logger)

	return workflow.NewPipeline(workflow.Dependencies{
		Logger:      application.logger,
		NameChecker: registryClient,
		HostFactory: func(executionContext context.Context, token string) (workflow.RepositoryHost, error) {
			hostingClient, clientError := hostingFactory.NewClient(executionContext, token)
			if clientError != nil {
				return nil, clientError
			}
			return hostingClient, nil
		},
		RepositoryManager: repositoryManager,
		PackageManager:    packageManager,
		BoilerplateWriter: scaffold.NewWriter(fileSystem),
		ManifestReader:    manifest.NewReader(fileSystem.ReadFile),
		FileSystem:        fileSystem,
		Output:            utils.NewSynchronizedWriter(command.OutOrStdout()),
	}, workflow.Configuration{
		RemoteName:    moduleConfiguration.RemoteName,
		Branch:        moduleConfiguration.Branch,
		CommitMessage: moduleConfiguration.CommitMessage,
		CITemplate:    ciTemplate,
	})
}

// loadCITemplate returns the zero template, which selects the embedded default, when no path is configured.
func (application *Application) loadCITemplate(templatePath string) (scaffold.CITemplate, error) {
	trimmedPath := strings.TrimSpace(templatePath)
	if len(trimmedPath) == 0 {
		return scaffold.CITemplate{}, nil
	}

	absolutePath, absoluteError := application.dependencies.FileSystem.Abs(application.homeExpander.Expand(trimmedPath))
	if absoluteError != nil {
		return scaffold.CITemplate{}, fmt.Errorf(ciTemplateLoadErrorTemplateConstant, trimmedPath, absoluteError)
	}

	return scaffold.LoadCITemplateFile(application.dependencies.FileSystem.ReadFile, absolutePath)
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}
		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
