package ai

import "errors"

var (
	// ErrMalformedResponse indicates the model returned output that could
	// not be parsed as the expected JSON structure.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrIncompleteEnrichment indicates the model's output parsed but is
	// missing one or more required sections.
	ErrIncompleteEnrichment = errors.New("incomplete enrichment")

	// ErrEmptyResponse indicates the model returned no choices.
	ErrEmptyResponse = errors.New("empty model response")
)
