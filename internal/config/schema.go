package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/volleyhq/volley/pkg/jsonschema"
)

// documentSchema constrains the shape of a plan document: the known
// top-level fields and their value kinds. YAML ignores unknown keys
// silently, so without this check a misspelled field would just vanish.
// Semantic rules (ranges, one-protocol-per-request, threshold grammar)
// run later on the typed values.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "requests"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "threads": {"type": "integer"},
    "iterations": {"type": "integer"},
    "rampUp": {"type": "string"},
    "hold": {"type": "string"},
    "successThreshold": {"type": "number"},
    "thresholds": {"type": "array", "items": {"type": "string"}},
    "pacing": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "kind": {"type": "string"},
        "duration": {"type": "string"},
        "min": {"type": "string"},
        "max": {"type": "string"}
      }
    },
    "variables": {"type": "object", "additionalProperties": {"type": "string"}},
    "timeout": {"type": "string"},
    "requestTimeout": {"type": "string"},
    "http": {"type": "object"},
    "sql": {"type": "object"},
    "data": {"type": "object"},
    "requests": {"type": "array", "minItems": 1, "items": {"type": "object"}}
  }
}`

var docSchema = mustCompileDocumentSchema()

func mustCompileDocumentSchema() *jsonschema.Schema {
	s, err := jsonschema.Compile(documentSchema)
	if err != nil {
		panic(fmt.Sprintf("config: document schema does not compile: %v", err))
	}
	return s
}

// checkShape validates a raw JSON plan document against the embedded
// schema.
func checkShape(jsonRaw []byte) error {
	ok, errs := docSchema.Validate(jsonRaw)
	if ok {
		return nil
	}
	return fmt.Errorf("plan does not match schema: %s", errs.Error())
}

// yamlToJSON re-encodes a YAML document as JSON so it can be schema
// checked.
func yamlToJSON(raw []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
