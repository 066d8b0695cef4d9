package lifecycle

import (
	"strings"
)

// ValidationError is a local check failure raised before a write request.
// It never reaches the network layer.
type ValidationError struct {
	// Title is the alert title shown to the user.
	Title string
	// Missing names the required fields that were empty, in form order.
	Missing []string
	// Message overrides the generated message when set.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return RequiredMessage(e.Missing)
}

// Field is a named form value for Required.
type Field struct {
	Name  string
	Value string
}

// Required returns a *ValidationError naming every field whose value is
// blank, or nil when all are present.
func Required(title string, fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Title: title, Missing: missing}
}

// RequiredMessage formats "X is required.", "X and Y are required." or
// "X, Y, and Z are required.".
func RequiredMessage(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0] + " is required."
	case 2:
		return names[0] + " and " + names[1] + " are required."
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1] + " are required."
	}
}
