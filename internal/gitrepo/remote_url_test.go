package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/create-module/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name           string
		remote         string
		expectedRemote gitrepo.RemoteURL
		expectError    bool
	}{
		{
			name:           "scp_style_ssh",
			remote:         "git@github.com:octocat/my-pkg.git",
			expectedRemote: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "octocat", Repository: "my-pkg"},
		},
		{
			name:           "ssh_scheme",
			remote:         "ssh://git@github.com/octocat/my-pkg.git",
			expectedRemote: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "octocat", Repository: "my-pkg"},
		},
		{
			name:           "https_web_url",
			remote:         "https://github.com/octocat/my-pkg",
			expectedRemote: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "github.com", Owner: "octocat", Repository: "my-pkg"},
		},
		{name: "empty", remote: "  ", expectError: true},
		{name: "unsupported_scheme", remote: "ftp://github.com/octocat/my-pkg", expectError: true},
		{name: "missing_repository", remote: "git@github.com:octocat/", expectError: true},
		{name: "nested_path", remote: "https://github.com/octocat/group/my-pkg", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedRemote, parsedRemote)
		})
	}
}

func TestSSHRemoteFromWebURL(testInstance *testing.T) {
	sshRemote, deriveError := gitrepo.SSHRemoteFromWebURL("https://github.com/octocat/my-pkg")
	require.NoError(testInstance, deriveError)
	require.Equal(testInstance, "git@github.com:octocat/my-pkg.git", sshRemote)

	_, invalidError := gitrepo.SSHRemoteFromWebURL("not-a-url")
	require.Error(testInstance, invalidError)
}

func TestFormatRemoteURLRejectsUnknownProtocol(testInstance *testing.T) {
	_, formatError := gitrepo.FormatRemoteURL(gitrepo.RemoteURL{Protocol: "svn", Host: "github.com", Owner: "octocat", Repository: "my-pkg"})
	require.ErrorAs(testInstance, formatError, &gitrepo.UnsupportedProtocolError{})
}
