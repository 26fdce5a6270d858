package publish

import "errors"

var (
	// ErrExhausted indicates every chunk in the sequence has been published.
	ErrExhausted = errors.New("all chunks have been published")

	// ErrNotReady indicates the chunk selected for publication has no
	// enrichment yet.
	ErrNotReady = errors.New("chunk is not enriched yet")

	// ErrNoChunks indicates the database holds no chunks to publish.
	ErrNoChunks = errors.New("no chunks found, run segmentation first")
)
