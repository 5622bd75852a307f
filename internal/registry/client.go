package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public npm registry.
	DefaultBaseURL = "https://registry.npmjs.org"
	// DefaultUserAgent identifies requests issued by create-module.
	DefaultUserAgent = "npm semantic-create-module"

	userAgentHeaderConstant               = "User-Agent"
	requestCreationErrorTemplateConstant  = "creating registry request: %w"
	requestExecutionErrorTemplateConstant = "querying registry for %q: %w"
	packageNameRequiredMessageConstant    = "package name must be provided"
	packageURLTemplateConstant            = "%s/%s"
	availabilityLogMessageConstant        = "Checked npm registry"
	packageNameLogFieldConstant           = "package"
	statusCodeLogFieldConstant            = "status_code"
	availableLogFieldConstant             = "available"
	urlPathSeparatorConstant              = "/"
)

// Configuration describes how the registry client reaches the registry.
type Configuration struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client probes the npm registry for package name availability.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// NewClient constructs a registry client. A nil httpClient selects one honoring the configured timeout.
func NewClient(configuration Configuration, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: configuration.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), urlPathSeparatorConstant)
	if len(baseURL) == 0 {
		baseURL = DefaultBaseURL
	}

	userAgent := strings.TrimSpace(configuration.UserAgent)
	if len(userAgent) == 0 {
		userAgent = DefaultUserAgent
	}

	return &Client{httpClient: httpClient, baseURL: baseURL, userAgent: userAgent, logger: logger}
}

// CheckAvailability issues HEAD <registry>/<name>. A 200 response means the
// name is taken; every other status is treated as available. Transport
// failures are returned as errors.
func (client *Client) CheckAvailability(executionContext context.Context, packageName string) (bool, error) {
	trimmedName := strings.TrimSpace(packageName)
	if len(trimmedName) == 0 {
		return false, errors.New(packageNameRequiredMessageConstant)
	}

	packageURL := fmt.Sprintf(packageURLTemplateConstant, client.baseURL, url.PathEscape(trimmedName))
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodHead, packageURL, nil)
	if requestError != nil {
		return false, fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
	}
	request.Header.Set(userAgentHeaderConstant, client.userAgent)

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return false, fmt.Errorf(requestExecutionErrorTemplateConstant, trimmedName, responseError)
	}
	defer response.Body.Close()

	available := response.StatusCode != http.StatusOK
	client.logger.Debug(
		availabilityLogMessageConstant,
		zap.String(packageNameLogFieldConstant, trimmedName),
		zap.Int(statusCodeLogFieldConstant, response.StatusCode),
		zap.Bool(availableLogFieldConstant, available),
	)
	return available, nil
}
