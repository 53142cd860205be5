package export

import "errors"

// Import errors. The API layer maps these onto the structured error codes
// clients key on.
var (
	// ErrInvalidYAML is returned when the pasted text is not parseable YAML.
	ErrInvalidYAML = errors.New("invalid_yaml")

	// ErrUnrecognizedStructure is returned when the YAML parses but does
	// not look like a designer-generated snippet.
	ErrUnrecognizedStructure = errors.New("unrecognized_display_structure")

	// ErrNoPages is returned when a recognised snippet carries no pages.
	ErrNoPages = errors.New("no_pages_found")
)
