package jsonpath

import (
	"testing"
)

const testDoc = `{
	"name": "John Doe",
	"age": 30,
	"email": "john@example.com",
	"address": {
		"street": "123 Main St",
		"city": "Anytown",
		"zipcode": "12345"
	},
	"phones": [
		{
			"type": "home",
			"number": "555-1234"
		},
		{
			"type": "work",
			"number": "555-5678"
		}
	],
	"active": true,
	"scores": [10, 20, 30, 40],
	"metadata": null
}`

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
		found    bool
	}{
		{
			name:     "Simple property",
			path:     "$.name",
			expected: "John Doe",
			found:    true,
		},
		{
			name:     "Numeric property",
			path:     "$.age",
			expected: "30",
			found:    true,
		},
		{
			name:     "Boolean property",
			path:     "$.active",
			expected: "true",
			found:    true,
		},
		{
			name:     "Nested property",
			path:     "$.address.city",
			expected: "Anytown",
			found:    true,
		},
		{
			name:     "Array element",
			path:     "$.scores[1]",
			expected: "20",
			found:    true,
		},
		{
			name:     "Object in array",
			path:     "$.phones[0].number",
			expected: "555-1234",
			found:    true,
		},
		{
			name:     "Last array element",
			path:     "$.scores[3]",
			expected: "40",
			found:    true,
		},
		{
			name:     "Null value exists",
			path:     "$.metadata",
			expected: "null",
			found:    true,
		},
		{
			name:  "Non-existent property",
			path:  "$.nonexistent",
			found: false,
		},
		{
			name:  "Non-existent nested property",
			path:  "$.address.country",
			found: false,
		},
		{
			name:  "Array index out of bounds",
			path:  "$.scores[10]",
			found: false,
		},
		{
			name:  "Empty path",
			path:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := Lookup(testDoc, tt.path)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.path, ok, tt.found)
			}
			if tt.found && value != tt.expected {
				t.Errorf("Lookup(%q) = %q, want %q", tt.path, value, tt.expected)
			}
		})
	}

	if _, ok := Lookup("", "$.name"); ok {
		t.Errorf("Expected empty document to report not found")
	}
}

func TestLookupRoot(t *testing.T) {
	value, ok := Lookup(testDoc, "$")
	if !ok {
		t.Fatalf("Expected root path to be found")
	}
	if value != testDoc {
		t.Errorf("Root path returned %q, want the whole document", value)
	}
}

func TestLookupGjsonPassthrough(t *testing.T) {
	// Expressions already in gjson syntax work unchanged.
	value, ok := Lookup(testDoc, "phones.1.type")
	if !ok || value != "work" {
		t.Errorf("Lookup(phones.1.type) = %q, %v; want %q, true", value, ok, "work")
	}
}

func TestExtract(t *testing.T) {
	value, err := Extract(testDoc, "$.user.name")
	if err == nil {
		t.Errorf("Expected error for missing path, got value %q", value)
	}

	value, err = Extract(testDoc, "$.email")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if value != "john@example.com" {
		t.Errorf("Extract($.email) = %q, want %q", value, "john@example.com")
	}

	if _, err := Extract("", "$.name"); err == nil {
		t.Errorf("Expected error for empty document, got nil")
	}
	if _, err := Extract(testDoc, ""); err == nil {
		t.Errorf("Expected error for empty path, got nil")
	}
}

func TestToGjsonPath(t *testing.T) {
	tests := []struct {
		jsonPath  string
		gjsonPath string
	}{
		{"$.name", "name"},
		{"$['name']", "name"},
		{`$["name"]`, "name"},
		{"$.user.name", "user.name"},
		{"$.items[0]", "items.0"},
		{"$.items[0].name", "items.0.name"},
		{"$.deeply.nested[0].array[1].value", "deeply.nested.0.array.1.value"},
		{"$", "@this"},
		{"$[0]", "0"},
		{"$[0].name", "0.name"},
		{"users.0.name", "users.0.name"},
	}

	for _, tt := range tests {
		t.Run(tt.jsonPath, func(t *testing.T) {
			result := ToGjsonPath(tt.jsonPath)
			if result != tt.gjsonPath {
				t.Errorf("ToGjsonPath(%q) = %q, want %q", tt.jsonPath, result, tt.gjsonPath)
			}
		})
	}
}
