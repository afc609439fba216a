// Package jsonpath evaluates JSONPath-style expressions against JSON
// documents. Expressions are translated to gjson syntax, so both
// "$.users[0].name" and plain "users.0.name" work.
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Lookup evaluates path against doc and reports the value and whether the
// path exists. Null values exist and read as "null".
func Lookup(doc, path string) (string, bool) {
	if doc == "" || path == "" {
		return "", false
	}

	result := gjson.Get(doc, ToGjsonPath(path))
	if !result.Exists() {
		return "", false
	}
	if result.Type == gjson.Null {
		return "null", true
	}
	return result.String(), true
}

// Extract is Lookup with an error for missing paths, for callers that treat
// absence as a failure.
func Extract(doc, path string) (string, error) {
	if doc == "" {
		return "", fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return "", fmt.Errorf("empty path expression")
	}
	value, ok := Lookup(doc, path)
	if !ok {
		return "", fmt.Errorf("path not found: %s", path)
	}
	return value, nil
}

// ToGjsonPath converts a JSONPath expression to gjson syntax:
//
//	$.users[0].name -> users.0.name
//	$['a']["b"]     -> a.b
//	$               -> @this
//
// Expressions already in gjson syntax pass through unchanged.
func ToGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '[':
			// Bracket access follows either a name ("users[0]") or another
			// bracket ("[0][1]"); both become dot-separated segments.
			if b.Len() > 0 {
				b.WriteByte('.')
			}
		case ']', '\'', '"':
			// Closing brackets and quotes vanish; the next '[' or '.'
			// starts the following segment.
		case '.':
			if b.Len() > 0 {
				b.WriteByte('.')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
