package githubauth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Environment variable names consulted, in order, when no token source is configured.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

const (
	environmentTokenMissingTemplateConstant = "environment variable %s is not set"
	fileReadErrorTemplateConstant           = "unable to read token file %s: %w"
	fileTokenEmptyErrorTemplateConstant     = "token file %s is empty"
	fallbackFailedTemplateConstant          = "%w (%w)"
)

// ErrTokenNotFound indicates that no GitHub token could be located.
var ErrTokenNotFound = errors.New("GitHub token not found: run `gh auth login`, set GH_TOKEN or GITHUB_TOKEN, or pass --token-source")

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// PathExpander rewrites configured file paths before they are read.
type PathExpander interface {
	Expand(candidatePath string) string
}

// TokenProvider supplies a token from a credential store outside the environment.
type TokenProvider interface {
	Token(executionContext context.Context) (string, error)
}

// Resolver locates the token attached to hosting API requests.
type Resolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
	pathExpander      PathExpander
	fallback          TokenProvider
}

// NewResolver creates a token resolver with optional dependency overrides.
func NewResolver(environmentLookup EnvironmentLookup, fileReader FileReader, pathExpander PathExpander) *Resolver {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	return &Resolver{environmentLookup: environmentLookup, fileReader: fileReader, pathExpander: pathExpander}
}

// WithFallback sets the provider consulted when tokenSource is blank and no
// preferred environment variable holds a token.
func (resolver *Resolver) WithFallback(fallback TokenProvider) *Resolver {
	resolver.fallback = fallback
	return resolver
}

// Resolve returns the token named by tokenSource. When tokenSource is blank it
// returns the first non-empty variable from the preference list, then the
// fallback provider's token.
func (resolver *Resolver) Resolve(resolutionContext context.Context, tokenSource string) (string, error) {
	if resolutionContext != nil {
		if contextError := resolutionContext.Err(); contextError != nil {
			return "", contextError
		}
	}

	if len(strings.TrimSpace(tokenSource)) > 0 {
		sourceConfiguration, parseError := ParseTokenSource(tokenSource)
		if parseError != nil {
			return "", parseError
		}
		return resolver.ResolveSource(sourceConfiguration)
	}

	for _, environmentName := range tokenPreference {
		if value, found := resolver.lookupEnvironment(environmentName); found {
			return value, nil
		}
	}

	if resolver.fallback == nil {
		return "", ErrTokenNotFound
	}
	token, fallbackError := resolver.fallback.Token(resolutionContext)
	if fallbackError != nil {
		return "", fmt.Errorf(fallbackFailedTemplateConstant, ErrTokenNotFound, fallbackError)
	}
	if trimmedToken := strings.TrimSpace(token); len(trimmedToken) > 0 {
		return trimmedToken, nil
	}
	return "", ErrTokenNotFound
}

// ResolveSource reads the token from an explicit source.
func (resolver *Resolver) ResolveSource(source TokenSourceConfiguration) (string, error) {
	switch source.Type {
	case TokenSourceTypeEnvironment:
		value, found := resolver.lookupEnvironment(source.Reference)
		if !found {
			return "", fmt.Errorf(environmentTokenMissingTemplateConstant, source.Reference)
		}
		return value, nil
	case TokenSourceTypeFile:
		tokenFilePath := source.Reference
		if resolver.pathExpander != nil {
			tokenFilePath = resolver.pathExpander.Expand(tokenFilePath)
		}
		contents, readError := resolver.fileReader(tokenFilePath)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, tokenFilePath, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileTokenEmptyErrorTemplateConstant, tokenFilePath)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedTokenSourceTemplateConstant, source.Type)
	}
}

func (resolver *Resolver) lookupEnvironment(key string) (string, bool) {
	value, exists := resolver.environmentLookup(key)
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}
