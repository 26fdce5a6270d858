package storage

import (
	"context"

	"github.com/poiesic/lectio/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing chunks and the
// segmentation manifest.
type ChunkRepository interface {
	Repository
	// PutChunks stores one or more chunks, keyed by index.
	// Sets InsertedAt on first write and UpdatedAt on every write.
	// Existing chunks at the same index are overwritten, but an existing
	// chunk's enrichment is preserved when the incoming chunk has none.
	PutChunks(ctx context.Context, chunks ...*core.Chunk) error

	// GetChunk retrieves a single chunk by index.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, index int) (*core.Chunk, error)

	// GetChunkRange retrieves chunks with start <= Index < end, ordered
	// by index. Missing indices within the range are skipped.
	GetChunkRange(ctx context.Context, start, end int) ([]*core.Chunk, error)

	// GetAllChunks retrieves every stored chunk ordered by index. Unlike
	// GetChunkRange it is not bounded by an index window, so it surfaces
	// chunks stranded past a hole in the sequence.
	GetAllChunks(ctx context.Context) ([]*core.Chunk, error)

	// ChunkCount returns the number of stored chunks.
	ChunkCount(ctx context.Context) (int, error)

	// SetEnrichment attaches an enrichment to the chunk at index and
	// updates its UpdatedAt timestamp. The write is atomic: a crash
	// leaves either the previous chunk state or the new one.
	// Returns ErrNotFound if the chunk doesn't exist.
	SetEnrichment(ctx context.Context, index int, enrichment *core.Enrichment) error

	// DeleteChunks removes every stored chunk and the manifest. Used when
	// a forced re-segmentation replaces the collection outright.
	DeleteChunks(ctx context.Context) error

	// SaveManifest stores the segmentation manifest, replacing any
	// previous one.
	SaveManifest(ctx context.Context, manifest *core.Manifest) error

	// LoadManifest retrieves the segmentation manifest.
	// Returns (nil, nil) if no manifest has been saved.
	LoadManifest(ctx context.Context) (*core.Manifest, error)
}

// PublicationRepository provides operations for the append-only
// publication log.
type PublicationRepository interface {
	Repository
	// AppendEntry records a publication. If an entry for the same chunk
	// index already exists, the stored entry is returned unchanged and
	// nothing is written. Entries are never updated or deleted.
	AppendEntry(ctx context.Context, entry *core.PublicationEntry) (*core.PublicationEntry, error)

	// GetEntry retrieves the publication entry for a chunk index.
	// Returns ErrNotFound if the chunk has not been published.
	GetEntry(ctx context.Context, chunkIndex int) (*core.PublicationEntry, error)

	// GetEntries retrieves all publication entries ordered by chunk index.
	GetEntries(ctx context.Context) ([]*core.PublicationEntry, error)

	// PublishedCount returns the number of publication entries.
	PublishedCount(ctx context.Context) (int, error)
}
