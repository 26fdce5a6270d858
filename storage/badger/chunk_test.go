package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lectio/core"
	"github.com/poiesic/lectio/storage"
)

func newTestChunk(index int) *core.Chunk {
	text := fmt.Sprintf("passage for chunk %d", index)
	return &core.Chunk{
		Index:     index,
		Span:      core.SourceSpan{Start: index * 100, End: index*100 + len(text)},
		Location:  core.StructuralLocation{Book: 1, Chapter: index + 1},
		Text:      text,
		WordCount: core.CountWords(text),
	}
}

func newTestEnrichment(model string) *core.Enrichment {
	return &core.Enrichment{
		Rendering:         "a rendering",
		Context:           "some context",
		Annotations:       []core.Annotation{{Topic: "t", Explanation: "e"}},
		DiscussionPrompts: []string{"q"},
		Themes:            []string{"theme"},
		Model:             model,
	}
}

func TestChunkRepository_PutAndGet(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	chunk := newTestChunk(0)

	require.NoError(t, repo.PutChunks(ctx, chunk))
	assert.False(t, chunk.InsertedAt.IsZero(), "InsertedAt should be set on first write")

	got, err := repo.GetChunk(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, chunk.Text, got.Text)
	assert.Equal(t, chunk.Span, got.Span)
	assert.Equal(t, chunk.Location, got.Location)
}

func TestChunkRepository_GetMissing(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = repo.GetChunk(context.Background(), 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChunkRepository_PutRejectsInvalid(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	err = repo.PutChunks(context.Background(), &core.Chunk{Index: -1, Text: "x", Span: core.SourceSpan{End: 1}})
	assert.ErrorIs(t, err, core.ErrNegativeIndex)
}

func TestChunkRepository_RePutPreservesEnrichment(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	chunk := newTestChunk(0)
	require.NoError(t, repo.PutChunks(ctx, chunk))
	require.NoError(t, repo.SetEnrichment(ctx, 0, newTestEnrichment("m1")))

	// Re-segmentation writes the same chunk again without an enrichment.
	require.NoError(t, repo.PutChunks(ctx, newTestChunk(0)))

	got, err := repo.GetChunk(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, got.Enrichment, "enrichment should survive a re-put")
	assert.Equal(t, "m1", got.Enrichment.Model)
}

func TestChunkRepository_GetChunkRange(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.PutChunks(ctx, newTestChunk(i)))
	}

	chunks, err := repo.GetChunkRange(ctx, 3, 7)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	for i, c := range chunks {
		assert.Equal(t, 3+i, c.Index, "range results must be ordered by index")
	}

	_, err = repo.GetChunkRange(ctx, -1, 5)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestChunkRepository_ChunkCount(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	count, err := repo.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.PutChunks(ctx, newTestChunk(i)))
	}

	count, err = repo.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestChunkRepository_SetEnrichment(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, repo.PutChunks(ctx, newTestChunk(0)))

	require.NoError(t, repo.SetEnrichment(ctx, 0, newTestEnrichment("m1")))

	got, err := repo.GetChunk(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, got.Enrichment)
	assert.Equal(t, "m1", got.Enrichment.Model)
	assert.True(t, got.UpdatedAt.After(got.InsertedAt) || got.UpdatedAt.Equal(got.InsertedAt))
}

func TestChunkRepository_SetEnrichmentMissingChunk(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	err = repo.SetEnrichment(context.Background(), 42, newTestEnrichment("m1"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChunkRepository_SetEnrichmentRejectsIncomplete(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, repo.PutChunks(ctx, newTestChunk(0)))

	e := newTestEnrichment("m1")
	e.Rendering = ""
	err = repo.SetEnrichment(ctx, 0, e)
	assert.ErrorIs(t, err, core.ErrMissingSection)
}

func TestChunkRepository_Manifest(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	got, err := repo.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "absent manifest should load as nil")

	manifest := &core.Manifest{
		Source:     core.FingerprintText("source text"),
		SourceLen:  10000,
		ChunkCount: 4,
		TargetSize: 2500,
		MinSize:    2000,
		MaxSize:    3000,
	}
	require.NoError(t, repo.SaveManifest(ctx, manifest))

	got, err = repo.LoadManifest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, manifest.Source, got.Source)
	assert.Equal(t, manifest.ChunkCount, got.ChunkCount)
}

func TestChunkRepository_DeleteChunks(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.PutChunks(ctx, newTestChunk(i)))
	}
	require.NoError(t, repo.SaveManifest(ctx, &core.Manifest{
		Source:     core.FingerprintText("text"),
		SourceLen:  4,
		ChunkCount: 3,
	}))

	require.NoError(t, repo.DeleteChunks(ctx))

	count, err := repo.ChunkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	manifest, err := repo.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Nil(t, manifest, "manifest is removed with the chunks")
}

func TestChunkRepository_GetAllChunksIncludesStranded(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	for _, i := range []int{0, 2, 7} {
		require.NoError(t, repo.PutChunks(ctx, newTestChunk(i)))
	}

	all, err := repo.GetAllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	indices := []int{}
	for _, chunk := range all {
		indices = append(indices, chunk.Index)
	}
	assert.Equal(t, []int{0, 2, 7}, indices, "chunks past a hole are still returned, in order")
}
