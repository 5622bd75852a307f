package workflow

import (
	"strings"

	"github.com/temirov/create-module/internal/scaffold"
)

const (
	// DefaultRemoteName is the git remote pointing at the hosted repository.
	DefaultRemoteName = "origin"
	// DefaultBranch is the branch pushed with the initial commit.
	DefaultBranch = "master"
	// DefaultCommitMessage is the message of the initial commit.
	DefaultCommitMessage = "Initial commit"
)

// Configuration customizes the git side of the pipeline and supplies the CI template.
type Configuration struct {
	RemoteName    string
	Branch        string
	CommitMessage string
	CITemplate    scaffold.CITemplate
}

func (configuration Configuration) sanitize() (Configuration, error) {
	sanitized := Configuration{
		RemoteName:    strings.TrimSpace(configuration.RemoteName),
		Branch:        strings.TrimSpace(configuration.Branch),
		CommitMessage: strings.TrimSpace(configuration.CommitMessage),
		CITemplate:    configuration.CITemplate,
	}
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = DefaultRemoteName
	}
	if len(sanitized.Branch) == 0 {
		sanitized.Branch = DefaultBranch
	}
	if len(sanitized.CommitMessage) == 0 {
		sanitized.CommitMessage = DefaultCommitMessage
	}
	if sanitized.CITemplate.IsEmpty() {
		defaultTemplate, templateError := scaffold.DefaultCITemplate()
		if templateError != nil {
			return Configuration{}, templateError
		}
		sanitized.CITemplate = defaultTemplate
	}
	return sanitized, nil
}
