package scaffold

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	templateParseErrorTemplateConstant  = "parsing CI template: %w"
	templateRenderErrorTemplateConstant = "rendering CI template: %w"
	templateReadErrorTemplateConstant   = "reading CI template %s: %w"
)

//go:embed templates/travis.yml
var defaultCITemplate []byte

// ErrEmptyCITemplate indicates a CI template without any top-level keys.
var ErrEmptyCITemplate = errors.New("CI template is empty")

// CITemplate is the parsed Travis CI configuration written into every new module.
type CITemplate struct {
	document map[string]any
}

// LoadCITemplate parses YAML template data.
func LoadCITemplate(templateData []byte) (CITemplate, error) {
	document := map[string]any{}
	if parseError := yaml.Unmarshal(templateData, &document); parseError != nil {
		return CITemplate{}, fmt.Errorf(templateParseErrorTemplateConstant, parseError)
	}
	if len(document) == 0 {
		return CITemplate{}, ErrEmptyCITemplate
	}
	return CITemplate{document: document}, nil
}

// DefaultCITemplate parses the embedded Travis CI template.
func DefaultCITemplate() (CITemplate, error) {
	return LoadCITemplate(defaultCITemplate)
}

// LoadCITemplateFile parses the template stored at templatePath.
func LoadCITemplateFile(readFile func(path string) ([]byte, error), templatePath string) (CITemplate, error) {
	templateData, readError := readFile(templatePath)
	if readError != nil {
		return CITemplate{}, fmt.Errorf(templateReadErrorTemplateConstant, templatePath, readError)
	}
	return LoadCITemplate(templateData)
}

// IsEmpty reports whether the template holds no configuration.
func (template CITemplate) IsEmpty() bool {
	return len(template.document) == 0
}

// Render serializes the template back to YAML.
func (template CITemplate) Render() ([]byte, error) {
	if template.IsEmpty() {
		return nil, ErrEmptyCITemplate
	}
	renderedTemplate, renderError := yaml.Marshal(template.document)
	if renderError != nil {
		return nil, fmt.Errorf(templateRenderErrorTemplateConstant, renderError)
	}
	return renderedTemplate, nil
}
