package enrich

import "errors"

var (
	// ErrInvalidMaxAttempts indicates an invalid retry configuration.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrNotSegmented indicates the database holds no chunks to enrich.
	ErrNotSegmented = errors.New("no chunks found, run segmentation first")

	// ErrInvalidRange indicates a start/end range that selects nothing.
	ErrInvalidRange = errors.New("invalid chunk range")
)
