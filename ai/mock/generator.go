package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/lectio/ai"
	"github.com/poiesic/lectio/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateEnrichmentFunc is called by GenerateEnrichment if set.
	// If nil, produces a deterministic enrichment from the request.
	GenerateEnrichmentFunc func(ctx context.Context, req *ai.GenerationRequest) (*core.Enrichment, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateEnrichment produces a deterministic enrichment derived from the
// chunk index, so tests can verify exactly which chunk a result came from.
func (m *MockGenerator) GenerateEnrichment(ctx context.Context, req *ai.GenerationRequest) (*core.Enrichment, error) {
	m.callCount++

	if m.GenerateEnrichmentFunc != nil {
		return m.GenerateEnrichmentFunc(ctx, req)
	}

	return &core.Enrichment{
		Rendering: fmt.Sprintf("mock rendering of chunk %d", req.ChunkIndex),
		Context:   fmt.Sprintf("mock context for chunk %d", req.ChunkIndex),
		Annotations: []core.Annotation{
			{Topic: "mock topic", Explanation: "mock explanation"},
		},
		DiscussionPrompts: []string{
			fmt.Sprintf("mock question about chunk %d", req.ChunkIndex),
		},
		Themes:      []string{"mock theme"},
		Model:       "mock-model",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// CallCount returns the number of times GenerateEnrichment was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateEnrichmentFunc = nil
}
