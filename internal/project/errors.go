package project

import "errors"

// Domain errors for the project package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, project.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a project ID does not exist.
	ErrNotFound = errors.New("project: not found")

	// ErrExists is returned when creating a project with an ID that already exists.
	ErrExists = errors.New("project: already exists")

	// ErrInvalidName is returned when a project name is empty or too long.
	ErrInvalidName = errors.New("project: invalid name")

	// ErrSchemaTooNew is returned when a stored document was written by a
	// newer build than this one.
	ErrSchemaTooNew = errors.New("project: schema version too new")

	// ErrSchemaTooOld is returned when a stored document predates the
	// minimum version this build can migrate.
	ErrSchemaTooOld = errors.New("project: schema version too old")
)
