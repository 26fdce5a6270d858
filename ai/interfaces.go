package ai

import (
	"context"

	"github.com/poiesic/lectio/core"
)

// Generator produces reader-facing enrichment for a chunk of source text.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateEnrichment analyzes the chunk text and produces the full
	// enrichment: a modern rendering, historical context, annotations,
	// discussion prompts, themes, and the optional scholarly apparatus.
	// The result passes core.ValidateEnrichment.
	// Returns an error if generation or validation fails.
	GenerateEnrichment(ctx context.Context, req *GenerationRequest) (*core.Enrichment, error)
}

// GenerationRequest carries a chunk's text and position to the generator.
type GenerationRequest struct {
	// ChunkIndex is the chunk's position in the reading sequence.
	ChunkIndex int

	// Location is the book/chapter the chunk falls in, zero when the
	// text has no structural markers before the chunk.
	Location core.StructuralLocation

	// Text is the chunk's source text.
	Text string

	// WordCount is the chunk's word count, used for prompt sizing hints.
	WordCount int
}

// Provider creates and manages Generator instances, ensuring they share
// configuration and resources appropriately.
type Provider interface {
	// Generator returns the enrichment generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
