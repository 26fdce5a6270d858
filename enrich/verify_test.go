package enrich

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lectio/ai/mock"
	"github.com/poiesic/lectio/core"
	badgerstore "github.com/poiesic/lectio/storage/badger"
)

func TestVerifier_AllEnriched(t *testing.T) {
	repo, _, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	seedChunks(t, repo, 8)
	enricher := NewEnricher(repo, mock.NewMockGenerator(), testConfig(), io.Discard)
	_, err = enricher.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	result, err := NewVerifier(repo, 4).Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, result.Checked)
	assert.Equal(t, 8, result.Enriched)
	assert.Empty(t, result.SpanBreaks)
	assert.True(t, result.Complete())
}

func TestVerifier_ReportsSpanBreaks(t *testing.T) {
	repo, _, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, repo.PutChunks(ctx,
		&core.Chunk{Index: 0, Span: core.SourceSpan{Start: 0, End: 10}, Text: "aaaaaaaaaa"},
		// Index 1 is missing and the span leaves a hole after byte 10.
		&core.Chunk{Index: 2, Span: core.SourceSpan{Start: 25, End: 35}, Text: "bbbbbbbbbb"},
	))

	result, err := NewVerifier(repo, 2).Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, result.SpanBreaks)
	assert.False(t, result.Complete())
}

func TestVerifier_ReportsMissingAndIncomplete(t *testing.T) {
	repo, _, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	seedChunks(t, repo, 4)

	// Chunks 0 and 2 get valid enrichments, 1 stays bare, and 3 is
	// rewritten with a gutted enrichment.
	valid := func() *core.Enrichment {
		return &core.Enrichment{
			Rendering:         "r",
			Context:           "c",
			Annotations:       []core.Annotation{{Topic: "t", Explanation: "e"}},
			DiscussionPrompts: []string{"q"},
			Themes:            []string{"theme"},
		}
	}
	require.NoError(t, repo.SetEnrichment(ctx, 0, valid()))
	require.NoError(t, repo.SetEnrichment(ctx, 2, valid()))

	chunk, err := repo.GetChunk(ctx, 3)
	require.NoError(t, err)
	chunk.Enrichment = &core.Enrichment{Rendering: "only a rendering"}
	require.NoError(t, repo.PutChunks(ctx, chunk))

	result, err := NewVerifier(repo, 2).Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Checked)
	assert.Equal(t, 2, result.Enriched)
	assert.Equal(t, []int{1}, result.Missing)
	assert.Equal(t, []int{3}, result.Incomplete)
	assert.False(t, result.Complete())
}

func TestVerifier_EmptyDatabase(t *testing.T) {
	repo, _, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewVerifier(repo, 2).Verify(context.Background())
	assert.ErrorIs(t, err, ErrNotSegmented)
}
