package config

import "fmt"

// Error reports an invalid configuration value. It is always fatal and is
// returned before any network activity takes place.
type Error struct {
	Field   string
	Value   any
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("invalid %s", e.Field)
	if e.Value != nil && e.Value != "" {
		msg += fmt.Sprintf(" %q", fmt.Sprint(e.Value))
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(field string, value any, message string, err error) *Error {
	return &Error{Field: field, Value: value, Message: message, Err: err}
}
