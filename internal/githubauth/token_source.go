package githubauth

import (
	"fmt"
	"strings"
)

const (
	tokenSourceSeparatorConstant           = ":"
	invalidTokenSourceTemplateConstant     = "invalid token source %q: %s"
	emptyTokenSourceReasonConstant         = "value is empty"
	emptyReferenceReasonTemplateConstant   = "%s source needs a reference after %q"
	unsupportedTokenSourceTemplateConstant = "unsupported token source type %q"
)

// TokenSourceType selects where Resolver reads the token from.
type TokenSourceType string

// Supported token source types. The type doubles as the prefix accepted by ParseTokenSource.
const (
	TokenSourceTypeEnvironment TokenSourceType = "env"
	TokenSourceTypeFile        TokenSourceType = "file"
)

// TokenSourceConfiguration names one token location: an environment variable or a file path.
type TokenSourceConfiguration struct {
	Type      TokenSourceType
	Reference string
}

// String renders the configuration in the form accepted by ParseTokenSource.
func (configuration TokenSourceConfiguration) String() string {
	return string(configuration.Type) + tokenSourceSeparatorConstant + configuration.Reference
}

// InvalidTokenSourceError reports a --token-source value that cannot be parsed.
type InvalidTokenSourceError struct {
	Value  string
	Reason string
}

// Error describes the rejected value.
func (sourceError InvalidTokenSourceError) Error() string {
	return fmt.Sprintf(invalidTokenSourceTemplateConstant, sourceError.Value, sourceError.Reason)
}

// ParseTokenSource accepts "env:NAME", "file:/path" or a bare environment
// variable name. Prefixes are case-insensitive.
func ParseTokenSource(sourceValue string) (TokenSourceConfiguration, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return TokenSourceConfiguration{}, InvalidTokenSourceError{Value: sourceValue, Reason: emptyTokenSourceReasonConstant}
	}

	prefix, reference, hasPrefix := strings.Cut(trimmedValue, tokenSourceSeparatorConstant)
	if !hasPrefix {
		return TokenSourceConfiguration{Type: TokenSourceTypeEnvironment, Reference: trimmedValue}, nil
	}

	sourceType := TokenSourceType(strings.ToLower(strings.TrimSpace(prefix)))
	if sourceType != TokenSourceTypeEnvironment && sourceType != TokenSourceTypeFile {
		return TokenSourceConfiguration{}, InvalidTokenSourceError{Value: sourceValue, Reason: fmt.Sprintf(unsupportedTokenSourceTemplateConstant, prefix)}
	}

	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return TokenSourceConfiguration{}, InvalidTokenSourceError{Value: sourceValue, Reason: fmt.Sprintf(emptyReferenceReasonTemplateConstant, sourceType, prefix+tokenSourceSeparatorConstant)}
	}
	return TokenSourceConfiguration{Type: sourceType, Reference: trimmedReference}, nil
}
