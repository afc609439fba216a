package scenario

import "fmt"

// ConfigError describes an invalid scenario field. It is the only error
// class that aborts a run; everything that happens after workers start is
// absorbed into samples instead.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "invalid scenario: field '" + e.Field + "': " + e.Message
}

// prefixConfigError qualifies a nested ConfigError with its list position,
// e.g. "requests[2].url".
func prefixConfigError(err error, field string, index int) error {
	ce, ok := err.(*ConfigError)
	if !ok {
		return err
	}
	return &ConfigError{
		Field:   fmt.Sprintf("%s[%d].%s", field, index, ce.Field),
		Message: ce.Message,
	}
}
