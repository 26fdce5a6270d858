package segment

import "errors"

var (
	// ErrInvalidBounds indicates min/target/max sizes that cannot produce chunks.
	ErrInvalidBounds = errors.New("invalid segmentation bounds")

	// ErrEmptyText indicates an empty source text.
	ErrEmptyText = errors.New("source text is empty")

	// ErrMainTextNotFound indicates the extraction markers matched nothing usable.
	ErrMainTextNotFound = errors.New("main text not found between markers")
)
