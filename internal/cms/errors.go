package cms

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("record not found")

// ValidationError reports a create request that broke a field rule.
type ValidationError struct {
	Kind  string
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, Message(e.Field, e.Rule))
}

var messages = map[string]string{
	"required": "%s is required",
	"oneof":    "%s has an unsupported value",
	"max":      "%s is too long",
}

// Message renders a rule violation for display in notices.
func Message(field, rule string) string {
	if format, ok := messages[rule]; ok {
		return fmt.Sprintf(format, field)
	}

	return fmt.Sprintf("%s is invalid", field)
}
