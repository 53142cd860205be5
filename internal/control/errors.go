package control

import "errors"

// Domain errors for the control package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, control.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a control definition ID does not exist.
	ErrNotFound = errors.New("control: not found")

	// ErrExists is returned when creating a definition with an ID that already exists.
	ErrExists = errors.New("control: already exists")

	// ErrInvalid is returned when definition validation fails.
	ErrInvalid = errors.New("control: invalid definition")

	// ErrBuiltin is returned when attempting to modify or delete a built-in definition.
	ErrBuiltin = errors.New("control: built-in definitions are immutable")
)
