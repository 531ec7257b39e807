package lookup

import (
	"errors"
	"fmt"
)

// ErrVariableNotFound is the sentinel matched by every [VariableNotFoundError].
var ErrVariableNotFound = errors.New("variable not found")

// VariableNotFoundError is recorded when strict variables are enabled and a
// reference resolves to nothing.
type VariableNotFoundError struct {
	// Path is the full textual form of the reference e.g. "user.addresses[0].city".
	Path string
}

// Error implements the error interface for [VariableNotFoundError].
func (v *VariableNotFoundError) Error() string {
	return fmt.Sprintf("variable %q does not exist", v.Path)
}

// Unwrap allows errors.Is(err, ErrVariableNotFound).
func (v *VariableNotFoundError) Unwrap() error {
	return ErrVariableNotFound
}
