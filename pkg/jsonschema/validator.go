// Package jsonschema wraps JSON-schema compilation and validation for
// callers that compile a schema once and validate many documents against it.
package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidJSON marks input that could not be parsed as JSON at all, as
// opposed to JSON that parses but violates the schema.
var ErrInvalidJSON = errors.New("invalid JSON")

// ValidationErrors flattens a schema validation failure into one error per
// violated constraint.
type ValidationErrors []error

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON schema, safe for concurrent Validate calls.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile parses and compiles a schema document.
func Compile(schemaDoc string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schemaDoc)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Valid reports whether doc conforms to the schema. Documents that are not
// JSON at all do not conform.
func (s *Schema) Valid(doc []byte) bool {
	ok, _ := s.Validate(doc)
	return ok
}

// Validate reports whether doc conforms and, when it does not, why.
// A doc that is not parseable JSON returns false with a parse error.
func (s *Schema) Validate(doc []byte) (bool, ValidationErrors) {
	var data interface{}
	if err := json.Unmarshal(doc, &data); err != nil {
		return false, ValidationErrors{fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}

	err := s.compiled.Validate(data)
	if err == nil {
		return true, nil
	}
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		return false, flatten(verr)
	}
	return false, ValidationErrors{err}
}

// Validate compiles schemaDoc and validates doc in one step, for callers
// without a hot path.
func Validate(doc, schemaDoc string) (bool, error) {
	schema, err := Compile(schemaDoc)
	if err != nil {
		return false, err
	}
	ok, verrs := schema.Validate([]byte(doc))
	if !ok && len(verrs) > 0 && errors.Is(verrs[0], ErrInvalidJSON) {
		return false, verrs[0]
	}
	return ok, nil
}

// flatten walks the validation error tree and collects leaf messages.
func flatten(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if err.Message != "" {
		errs = append(errs, fmt.Errorf("validation error at %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}
	return errs
}
