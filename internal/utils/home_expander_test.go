package utils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/create-module/internal/utils"
)

const testHomeDirectoryConstant = "/home/module-author"

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		provider      utils.HomeDirectoryProvider
		candidatePath string
		expectedPath  string
	}{
		{
			name:          "bare_tilde",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "~",
			expectedPath:  testHomeDirectoryConstant,
		},
		{
			name:          "tilde_prefix",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "~/.config/create-module/travis.yml",
			expectedPath:  filepath.Join(testHomeDirectoryConstant, ".config/create-module/travis.yml"),
		},
		{
			name:          "absolute_path",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "/etc/create-module/travis.yml",
			expectedPath:  "/etc/create-module/travis.yml",
		},
		{
			name:          "provider_failure",
			provider:      func() (string, error) { return "", errors.New("no home") },
			candidatePath: "~/token",
			expectedPath:  "~/token",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			expander := utils.NewHomeExpanderWithProvider(testCase.provider)
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidatePath))
		})
	}
}
