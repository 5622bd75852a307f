package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// FileName is the npm package manifest file name.
	FileName = "package.json"

	schemaResourceNameConstant           = "package.schema.json"
	schemaUnmarshalErrorTemplateConstant = "unmarshaling schema JSON: %w"
	schemaResourceErrorTemplateConstant  = "adding schema resource: %w"
	schemaCompileErrorTemplateConstant   = "compiling schema: %w"
	readErrorTemplateConstant            = "reading %s: %w"
	parseErrorTemplateConstant           = "parsing %s: %w"
	validationErrorTemplateConstant      = "%s is invalid: %s"
	issueTemplateConstant                = "%s %s"
	issueSeparatorConstant               = "; "
	instancePathSeparatorConstant        = "/"
	rootInstancePathLabelConstant        = "(root)"
)

//go:embed schema/package.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileError   error
	printer        = message.NewPrinter(language.English)
)

// PackageManifest holds the package.json fields consumed by create-module.
type PackageManifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// ValidationIssue describes one schema violation.
type ValidationIssue struct {
	Path    string
	Message string
}

// ValidationError reports a manifest that does not satisfy the schema.
type ValidationError struct {
	FilePath string
	Issues   []ValidationIssue
}

// Error lists every issue on a single line.
func (validationError ValidationError) Error() string {
	descriptions := make([]string, 0, len(validationError.Issues))
	for _, issue := range validationError.Issues {
		descriptions = append(descriptions, fmt.Sprintf(issueTemplateConstant, issue.Path, issue.Message))
	}
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.FilePath, strings.Join(descriptions, issueSeparatorConstant))
}

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// Reader loads package manifests from module directories.
type Reader struct {
	fileReader FileReader
}

// NewReader constructs a Reader. A nil fileReader selects os.ReadFile.
func NewReader(fileReader FileReader) *Reader {
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	return &Reader{fileReader: fileReader}
}

// ReadManifest reads, validates and decodes <directory>/package.json.
func (reader *Reader) ReadManifest(directory string) (PackageManifest, error) {
	manifestPath := filepath.Join(directory, FileName)
	contents, readError := reader.fileReader(manifestPath)
	if readError != nil {
		return PackageManifest{}, fmt.Errorf(readErrorTemplateConstant, manifestPath, readError)
	}

	if validationError := validate(manifestPath, contents); validationError != nil {
		return PackageManifest{}, validationError
	}

	var packageManifest PackageManifest
	if decodeError := json.Unmarshal(contents, &packageManifest); decodeError != nil {
		return PackageManifest{}, fmt.Errorf(parseErrorTemplateConstant, manifestPath, decodeError)
	}
	return packageManifest, nil
}

// ReadDescription returns the manifest description, or the empty string when none is declared.
func (reader *Reader) ReadDescription(directory string) (string, error) {
	packageManifest, readError := reader.ReadManifest(directory)
	if readError != nil {
		return "", readError
	}
	return packageManifest.Description, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		schemaDocument, unmarshalError := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if unmarshalError != nil {
			compileError = fmt.Errorf(schemaUnmarshalErrorTemplateConstant, unmarshalError)
			return
		}

		compiler := jsonschema.NewCompiler()
		if resourceError := compiler.AddResource(schemaResourceNameConstant, schemaDocument); resourceError != nil {
			compileError = fmt.Errorf(schemaResourceErrorTemplateConstant, resourceError)
			return
		}

		schema, schemaError := compiler.Compile(schemaResourceNameConstant)
		if schemaError != nil {
			compileError = fmt.Errorf(schemaCompileErrorTemplateConstant, schemaError)
			return
		}
		compiledSchema = schema
	})
	return compiledSchema, compileError
}

func validate(manifestPath string, contents []byte) error {
	schema, schemaError := loadSchema()
	if schemaError != nil {
		return schemaError
	}

	instance, instanceError := jsonschema.UnmarshalJSON(bytes.NewReader(contents))
	if instanceError != nil {
		return fmt.Errorf(parseErrorTemplateConstant, manifestPath, instanceError)
	}

	validationFailure := schema.Validate(instance)
	if validationFailure == nil {
		return nil
	}

	var schemaValidationError *jsonschema.ValidationError
	if !errors.As(validationFailure, &schemaValidationError) {
		return fmt.Errorf(parseErrorTemplateConstant, manifestPath, validationFailure)
	}

	issues := []ValidationIssue{}
	collectIssues(schemaValidationError, &issues)
	if len(issues) == 0 {
		issues = append(issues, ValidationIssue{Path: rootInstancePathLabelConstant, Message: schemaValidationError.Error()})
	}
	return ValidationError{FilePath: manifestPath, Issues: issues}
}

// collectIssues walks the error tree and keeps leaf errors only.
func collectIssues(validationError *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(validationError.Causes) > 0 {
		for _, cause := range validationError.Causes {
			collectIssues(cause, issues)
		}
		return
	}
	if validationError.ErrorKind == nil {
		return
	}

	instancePath := rootInstancePathLabelConstant
	if len(validationError.InstanceLocation) > 0 {
		instancePath = instancePathSeparatorConstant + strings.Join(validationError.InstanceLocation, instancePathSeparatorConstant)
	}
	*issues = append(*issues, ValidationIssue{Path: instancePath, Message: validationError.ErrorKind.LocalizedString(printer)})
}
