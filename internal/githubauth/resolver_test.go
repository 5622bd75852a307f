package githubauth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/create-module/internal/githubauth"
)

const (
	testCLITokenConstant  = "cli-token"
	testAPITokenConstant  = "api-token"
	testFileTokenConstant = "file-token"
	testTokenFileConstant = "/secrets/github"
)

type stubPathExpander struct {
	replacement string
}

func (expander stubPathExpander) Expand(string) string {
	return expander.replacement
}

func TestResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		files         map[string]string
		tokenSource   string
		expectedToken string
		expectedError error
		expectFailure bool
	}{
		{
			name:          "preference_order",
			environment:   map[string]string{githubauth.EnvGitHubCLIToken: testCLITokenConstant, githubauth.EnvGitHubAPIToken: testAPITokenConstant},
			expectedToken: testCLITokenConstant,
		},
		{
			name:          "blank_values_skipped",
			environment:   map[string]string{githubauth.EnvGitHubCLIToken: "  ", githubauth.EnvGitHubAPIToken: testAPITokenConstant},
			expectedToken: testAPITokenConstant,
		},
		{
			name:          "explicit_environment_source",
			environment:   map[string]string{"CUSTOM_TOKEN": " custom ", githubauth.EnvGitHubCLIToken: testCLITokenConstant},
			tokenSource:   "env:CUSTOM_TOKEN",
			expectedToken: "custom",
		},
		{
			name:          "bare_source_names_environment",
			environment:   map[string]string{"CUSTOM_TOKEN": "custom"},
			tokenSource:   "CUSTOM_TOKEN",
			expectedToken: "custom",
		},
		{
			name:          "file_source",
			files:         map[string]string{testTokenFileConstant: testFileTokenConstant + "\n"},
			tokenSource:   "file:~/github",
			expectedToken: testFileTokenConstant,
		},
		{
			name:          "missing_token",
			environment:   map[string]string{},
			expectedError: githubauth.ErrTokenNotFound,
			expectFailure: true,
		},
		{
			name:          "missing_explicit_environment",
			environment:   map[string]string{githubauth.EnvGitHubCLIToken: testCLITokenConstant},
			tokenSource:   "env:ABSENT",
			expectFailure: true,
		},
		{
			name:          "unsupported_source",
			tokenSource:   "vault:secret",
			expectFailure: true,
		},
		{
			name:          "empty_file",
			files:         map[string]string{testTokenFileConstant: "\n"},
			tokenSource:   "file:" + testTokenFileConstant,
			expectFailure: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			environmentLookup := func(key string) (string, bool) {
				value, found := testCase.environment[key]
				return value, found
			}
			fileReader := func(path string) ([]byte, error) {
				contents, found := testCase.files[path]
				if !found {
					return nil, errors.New("file not found")
				}
				return []byte(contents), nil
			}

			resolver := githubauth.NewResolver(environmentLookup, fileReader, stubPathExpander{replacement: testTokenFileConstant})
			token, resolveError := resolver.Resolve(context.Background(), testCase.tokenSource)
			if testCase.expectFailure {
				require.Error(testInstance, resolveError)
				if testCase.expectedError != nil {
					require.ErrorIs(testInstance, resolveError, testCase.expectedError)
				}
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedToken, token)
		})
	}
}

type stubTokenProvider struct {
	token   string
	failure error
	calls   int
}

func (provider *stubTokenProvider) Token(context.Context) (string, error) {
	provider.calls++
	return provider.token, provider.failure
}

func TestResolverFallback(testInstance *testing.T) {
	providerFailure := errors.New("gh: not logged in")

	testCases := []struct {
		name          string
		environment   map[string]string
		tokenSource   string
		provider      *stubTokenProvider
		expectedToken string
		expectedCalls int
		expectedError []error
	}{
		{
			name:          "used_when_environment_empty",
			environment:   map[string]string{githubauth.EnvGitHubToken: "  "},
			provider:      &stubTokenProvider{token: "gho_persisted\n"},
			expectedToken: "gho_persisted",
			expectedCalls: 1,
		},
		{
			name:          "environment_preferred",
			environment:   map[string]string{githubauth.EnvGitHubAPIToken: testAPITokenConstant},
			provider:      &stubTokenProvider{token: "gho_persisted"},
			expectedToken: testAPITokenConstant,
		},
		{
			name:          "explicit_source_skips_fallback",
			environment:   map[string]string{},
			tokenSource:   "env:MISSING_TOKEN",
			provider:      &stubTokenProvider{token: "gho_persisted"},
			expectedError: []error{},
		},
		{
			name:          "provider_failure_reports_not_found",
			environment:   map[string]string{},
			provider:      &stubTokenProvider{failure: providerFailure},
			expectedCalls: 1,
			expectedError: []error{githubauth.ErrTokenNotFound, providerFailure},
		},
		{
			name:          "provider_blank_token",
			environment:   map[string]string{},
			provider:      &stubTokenProvider{token: " "},
			expectedCalls: 1,
			expectedError: []error{githubauth.ErrTokenNotFound},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			environmentLookup := func(key string) (string, bool) {
				value, found := testCase.environment[key]
				return value, found
			}
			resolver := githubauth.NewResolver(environmentLookup, nil, nil).WithFallback(testCase.provider)

			token, resolveError := resolver.Resolve(context.Background(), testCase.tokenSource)
			require.Equal(testInstance, testCase.expectedCalls, testCase.provider.calls)
			if testCase.expectedError != nil {
				require.Error(testInstance, resolveError)
				require.Empty(testInstance, token)
				for _, expectedError := range testCase.expectedError {
					require.ErrorIs(testInstance, resolveError, expectedError)
				}
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedToken, token)
		})
	}
}

func TestParseTokenSourceRejectsEmptyReferences(testInstance *testing.T) {
	for _, sourceValue := range []string{"", "env:", "file: ", "vault:secret/token"} {
		_, parseError := githubauth.ParseTokenSource(sourceValue)
		require.ErrorAs(testInstance, parseError, &githubauth.InvalidTokenSourceError{}, sourceValue)
	}

	configuration, parseError := githubauth.ParseTokenSource("FILE:/tmp/token")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, githubauth.TokenSourceTypeFile, configuration.Type)
	require.Equal(testInstance, "/tmp/token", configuration.Reference)
	require.Equal(testInstance, "file:/tmp/token", configuration.String())

	bareConfiguration, bareParseError := githubauth.ParseTokenSource(" MY_TOKEN ")
	require.NoError(testInstance, bareParseError)
	require.Equal(testInstance, githubauth.TokenSourceConfiguration{Type: githubauth.TokenSourceTypeEnvironment, Reference: "MY_TOKEN"}, bareConfiguration)
}
