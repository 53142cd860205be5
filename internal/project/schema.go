package project

import "fmt"

// CheckSchemaVersion verifies that a stored document's version is loadable
// by this build. It never rewrites the document: a version outside the
// supported window is a hard error with a human-readable reason.
func CheckSchemaVersion(version int) error {
	if version > SchemaVersion {
		return fmt.Errorf("%w: document is version %d, this build supports up to %d",
			ErrSchemaTooNew, version, SchemaVersion)
	}
	if version < MinSchemaVersion {
		return fmt.Errorf("%w: document is version %d, minimum supported is %d",
			ErrSchemaTooOld, version, MinSchemaVersion)
	}
	return nil
}
