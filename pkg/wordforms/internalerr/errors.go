package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrMissingInput  = errors.New("missing input")
	ErrNoInputFiles  = errors.New("no input files")
	ErrDictionary    = errors.New("dictionary unavailable")
	ErrDuplicate     = errors.New("duplicate entry")
	ErrInvalidConfig = errors.New("invalid configuration")
)
