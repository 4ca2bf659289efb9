package setup

import "fmt"

// MissingConfigError reports a configuration section that must be set.
type MissingConfigError struct {
	Section string
}

func (e MissingConfigError) Error() string {
	return fmt.Sprintf("configuration %q not set", e.Section)
}

func NewMissingConfigError(section string) *MissingConfigError {
	return &MissingConfigError{
		Section: section,
	}
}

// InvalidRowError reports a malformed line of an ingredient import.
type InvalidRowError struct {
	Line   int
	Reason string
}

func (e InvalidRowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
