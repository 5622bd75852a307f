package hosting

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v32/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// DefaultAPIBaseURL is the public GitHub REST endpoint.
	DefaultAPIBaseURL = "https://api.github.com/"
	// DefaultUserAgent identifies requests issued by create-module.
	DefaultUserAgent = "npm semantic-create-module"

	urlPathSeparatorConstant                = "/"
	fullNameSeparatorConstant               = "/"
	userRepositoryOwnerConstant             = ""
	repositoryNameFieldConstant             = "name"
	repositoryFullNameFieldConstant         = "full_name"
	tokenFieldConstant                      = "token"
	apiBaseURLFieldConstant                 = "api_url"
	requiredValueMessageConstant            = "value required"
	fullNameFormatMessageConstant           = "expected owner/name"
	invalidBaseURLTemplateConstant          = "invalid base URL %q"
	repositoryCreatedLogMessageConstant     = "Created hosted repository"
	repositoryDescriptionLogMessageConstant = "Updated hosted repository description"
	repositoryLogFieldConstant              = "repository"
	descriptionLogFieldConstant             = "description"
)

// Repository describes the hosted repository returned by the API.
type Repository struct {
	FullName string
	Owner    string
	Name     string
	SSHURL   string
	HTMLURL  string
}

// Configuration describes how hosting clients reach the API.
type Configuration struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// ClientFactory builds authenticated hosting clients.
type ClientFactory struct {
	configuration Configuration
	baseTransport http.RoundTripper
	logger        *zap.Logger
}

// NewClientFactory constructs a factory. A nil baseTransport selects http.DefaultTransport.
func NewClientFactory(configuration Configuration, baseTransport http.RoundTripper, logger *zap.Logger) *ClientFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientFactory{configuration: configuration, baseTransport: baseTransport, logger: logger}
}

// NewClient returns a client that attaches the token as a bearer credential on every request.
func (factory *ClientFactory) NewClient(executionContext context.Context, token string) (*Client, error) {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, InvalidInputError{FieldName: tokenFieldConstant, Message: requiredValueMessageConstant}
	}

	baseURL, baseURLError := resolveBaseURL(factory.configuration.BaseURL)
	if baseURLError != nil {
		return nil, baseURLError
	}

	if factory.baseTransport != nil {
		executionContext = context.WithValue(executionContext, oauth2.HTTPClient, &http.Client{Transport: factory.baseTransport})
	}
	authenticatedClient := oauth2.NewClient(executionContext, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken}))
	authenticatedClient.Timeout = factory.configuration.Timeout

	apiClient := github.NewClient(authenticatedClient)
	apiClient.BaseURL = baseURL
	apiClient.UserAgent = DefaultUserAgent
	if userAgent := strings.TrimSpace(factory.configuration.UserAgent); len(userAgent) > 0 {
		apiClient.UserAgent = userAgent
	}

	return &Client{repositories: apiClient.Repositories, logger: factory.logger}, nil
}

func resolveBaseURL(rawBaseURL string) (*url.URL, error) {
	trimmedBaseURL := strings.TrimSpace(rawBaseURL)
	if len(trimmedBaseURL) == 0 {
		trimmedBaseURL = DefaultAPIBaseURL
	}
	if !strings.HasSuffix(trimmedBaseURL, urlPathSeparatorConstant) {
		trimmedBaseURL += urlPathSeparatorConstant
	}

	parsedURL, parseError := url.Parse(trimmedBaseURL)
	if parseError != nil || len(parsedURL.Scheme) == 0 || len(parsedURL.Host) == 0 {
		return nil, InvalidInputError{FieldName: apiBaseURLFieldConstant, Message: fmt.Sprintf(invalidBaseURLTemplateConstant, rawBaseURL)}
	}
	return parsedURL, nil
}

// Client creates and updates repositories owned by the authenticated user.
type Client struct {
	repositories *github.RepositoriesService
	logger       *zap.Logger
}

// CreateRepository issues POST /user/repos with the given name.
func (client *Client) CreateRepository(executionContext context.Context, name string) (Repository, error) {
	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) == 0 {
		return Repository{}, InvalidInputError{FieldName: repositoryNameFieldConstant, Message: requiredValueMessageConstant}
	}

	createdRepository, _, createError := client.repositories.Create(executionContext, userRepositoryOwnerConstant, &github.Repository{Name: github.String(trimmedName)})
	if createError != nil {
		return Repository{}, newOperationError(CreateRepositoryOperationName, createError)
	}

	repository := Repository{
		FullName: createdRepository.GetFullName(),
		Owner:    createdRepository.GetOwner().GetLogin(),
		Name:     createdRepository.GetName(),
		SSHURL:   createdRepository.GetSSHURL(),
		HTMLURL:  createdRepository.GetHTMLURL(),
	}
	if len(repository.Owner) == 0 || len(repository.Name) == 0 {
		repository.Owner, repository.Name = splitFullName(repository.FullName)
	}

	client.logger.Debug(repositoryCreatedLogMessageConstant, zap.String(repositoryLogFieldConstant, repository.FullName))
	return repository, nil
}

// UpdateDescription issues PATCH /repos/<full_name> with the repository name and description.
// An empty description is omitted from the request body.
func (client *Client) UpdateDescription(executionContext context.Context, repository Repository, description string) error {
	owner, name := repository.Owner, repository.Name
	if len(owner) == 0 || len(name) == 0 {
		owner, name = splitFullName(repository.FullName)
	}
	if len(owner) == 0 || len(name) == 0 {
		return InvalidInputError{FieldName: repositoryFullNameFieldConstant, Message: fullNameFormatMessageConstant}
	}

	update := &github.Repository{Name: github.String(name)}
	if len(description) > 0 {
		update.Description = github.String(description)
	}

	if _, _, editError := client.repositories.Edit(executionContext, owner, name, update); editError != nil {
		return newOperationError(UpdateDescriptionOperationName, editError)
	}

	client.logger.Debug(repositoryDescriptionLogMessageConstant, zap.String(repositoryLogFieldConstant, owner+fullNameSeparatorConstant+name), zap.String(descriptionLogFieldConstant, description))
	return nil
}

func splitFullName(fullName string) (string, string) {
	components := strings.SplitN(strings.TrimSpace(fullName), fullNameSeparatorConstant, 2)
	if len(components) != 2 {
		return "", ""
	}
	return components[0], components[1]
}
