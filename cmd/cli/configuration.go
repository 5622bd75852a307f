package cli

import (
	"time"

	"github.com/temirov/create-module/internal/hosting"
	"github.com/temirov/create-module/internal/npm"
	"github.com/temirov/create-module/internal/registry"
	"github.com/temirov/create-module/internal/workflow"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration groups tool specific configuration.
type ApplicationToolsConfiguration struct {
	CreateModule CreateModuleConfiguration `mapstructure:"create_module"`
}

// CreateModuleConfiguration configures the collaborators of the scaffolding pipeline.
type CreateModuleConfiguration struct {
	RegistryURL        string        `mapstructure:"registry_url"`
	APIURL             string        `mapstructure:"api_url"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPTimeout        time.Duration `mapstructure:"http_timeout"`
	TokenSource        string        `mapstructure:"token_source"`
	GitHubCLIHostname  string        `mapstructure:"gh_hostname"`
	RemoteName         string        `mapstructure:"remote_name"`
	Branch             string        `mapstructure:"branch"`
	CommitMessage      string        `mapstructure:"commit_message"`
	ReleaseTool        string        `mapstructure:"release_tool"`
	ReleaseToolVersion string        `mapstructure:"release_tool_version"`
	CITemplate         string        `mapstructure:"ci_template"`
}

// DefaultConfigurationValues returns the defaults applied beneath the configuration rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + ".registry_url":   registry.DefaultBaseURL,
		prefix + ".api_url":        hosting.DefaultAPIBaseURL,
		prefix + ".user_agent":     hosting.DefaultUserAgent,
		prefix + ".remote_name":    workflow.DefaultRemoteName,
		prefix + ".branch":         workflow.DefaultBranch,
		prefix + ".commit_message": workflow.DefaultCommitMessage,
		prefix + ".release_tool":   npm.DefaultReleaseTool,
	}
}
