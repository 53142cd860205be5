package binding

import "errors"

// Domain errors for the binding package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, binding.ErrEntityUnresolved) {
//	    // the binding's entity parameter did not resolve to an entity id
//	}
var (
	// ErrEntityUnresolved is returned when a write binding's entity parameter
	// does not resolve to a non-empty entity id.
	ErrEntityUnresolved = errors.New("binding: entity parameter unresolved")

	// ErrInvalidService is returned when a write binding's service is not a
	// "domain.service" string.
	ErrInvalidService = errors.New("binding: invalid service")
)
