package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint identifies a particular source text. It is derived from the
// text content, so identical texts always produce identical fingerprints.
type Fingerprint uint64

// FingerprintText computes a deterministic fingerprint of a source text
// using BLAKE2b hashing.
func FingerprintText(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// SourceSpan locates a chunk within the source text as a half-open byte
// range [Start, End).
type SourceSpan struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s SourceSpan) Len() int { return s.End - s.Start }

// StructuralLocation is the coarse position of a chunk in the work's
// structure. Zero values mean the text carries no such marker.
type StructuralLocation struct {
	Book    int
	Chapter int
}

// Chunk is one day's passage: a bounded contiguous slice of the source text
// plus, once the enrichment stage has run, its generated companion content.
type Chunk struct {
	Index      int // dense 0..N-1, defines reading order; immutable
	Span       SourceSpan
	Location   StructuralLocation
	Text       string // the literal passage; immutable
	WordCount  int
	Enrichment *Enrichment // nil until enrichment succeeds
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Enriched reports whether the chunk carries enrichment content.
func (c *Chunk) Enriched() bool {
	return c.Enrichment != nil
}

// Annotation is a scholarly note on a topic raised by the passage.
type Annotation struct {
	Topic       string
	Explanation string
	Link        string
}

// ParallelAccount points at a related passage in another ancient author.
type ParallelAccount struct {
	Author    string
	Work      string
	Reference string
	Relevance string
	Link      string
}

// RelatedPassage points at a related section elsewhere in the same work.
type RelatedPassage struct {
	Book       int
	Chapter    int
	Summary    string
	Connection string
}

// VocabEntry defines an important term appearing in the passage.
type VocabEntry struct {
	Term       string
	Definition string
}

// Enrichment is the externally generated companion content for a chunk.
// It is written whole: regeneration produces a full replacement, never a
// merge with the previous value.
type Enrichment struct {
	Rendering         string // modern prose rendering of the passage
	Context           string
	Annotations       []Annotation
	ParallelAccounts  []ParallelAccount
	RelatedPassages   []RelatedPassage
	DiscussionPrompts []string
	Themes            []string
	Vocabulary        []VocabEntry
	Model             string // generation model identifier, for audit
	GeneratedAt       time.Time
}

// PublicationEntry records one confirmed successful publish. Entries are
// append-only: at most one exists per chunk index and none is ever mutated.
type PublicationEntry struct {
	ChunkIndex    int
	DestinationID string
	URL           string
	PublishedAt   time.Time
}

// Manifest records the segmentation that produced the chunk collection.
// The fingerprint pins the chunk indices to one exact source text; a
// segmentation run against a text with a different fingerprint must not
// silently replace an existing collection.
type Manifest struct {
	Source      Fingerprint
	SourceLen   int
	ChunkCount  int
	TargetSize  int
	MinSize     int
	MaxSize     int
	SegmentedAt time.Time
}

// CountWords estimates the word count of a passage.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
