package repositories

import "errors"

// Sentinel errors shared by every repository. Handlers translate these into
// 404 and 409 responses.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflict")
)
