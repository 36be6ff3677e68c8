package spectrum

import "errors"

// Errors returned by spectrum operations.
var (
	ErrDataSource            = errors.New("spectrum: missing or malformed data source")
	ErrUnsupportedMethod     = errors.New("spectrum: unsupported uncertainty method")
	ErrUnsupportedInstrument = errors.New("spectrum: operation not supported for instrument")
	ErrMissingPrerequisite   = errors.New("spectrum: missing prerequisite")
)
