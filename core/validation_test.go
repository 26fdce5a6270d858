package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnrichment() *Enrichment {
	return &Enrichment{
		Rendering:         "rendering",
		Context:           "context",
		Annotations:       []Annotation{{Topic: "t", Explanation: "e"}},
		DiscussionPrompts: []string{"q"},
		Themes:            []string{"theme"},
	}
}

func TestValidateChunk_Valid(t *testing.T) {
	chunk := &Chunk{
		Index: 0,
		Span:  SourceSpan{Start: 0, End: 12},
		Text:  "some passage",
	}
	assert.NoError(t, ValidateChunk(chunk))
}

func TestValidateChunk_Nil(t *testing.T) {
	err := ValidateChunk(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidChunk)
}

func TestValidateChunk_NegativeIndex(t *testing.T) {
	chunk := &Chunk{
		Index: -1,
		Span:  SourceSpan{Start: 0, End: 4},
		Text:  "text",
	}
	err := ValidateChunk(chunk)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeIndex)
}

func TestValidateChunk_EmptyText(t *testing.T) {
	chunk := &Chunk{Index: 0}
	err := ValidateChunk(chunk)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestValidateChunk_SpanMismatch(t *testing.T) {
	chunk := &Chunk{
		Index: 0,
		Span:  SourceSpan{Start: 0, End: 100},
		Text:  "short",
	}
	err := ValidateChunk(chunk)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpanMismatch)
}

func TestValidateEnrichment_Valid(t *testing.T) {
	assert.NoError(t, ValidateEnrichment(validEnrichment()))
}

func TestValidateEnrichment_Nil(t *testing.T) {
	err := ValidateEnrichment(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEnrichment)
}

func TestValidateEnrichment_MissingRequiredSections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(e *Enrichment)
	}{
		{"rendering", func(e *Enrichment) { e.Rendering = "" }},
		{"context", func(e *Enrichment) { e.Context = "" }},
		{"annotations", func(e *Enrichment) { e.Annotations = nil }},
		{"discussion_prompts", func(e *Enrichment) { e.DiscussionPrompts = nil }},
		{"key_themes", func(e *Enrichment) { e.Themes = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEnrichment()
			tc.mutate(e)
			err := ValidateEnrichment(e)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingSection)
			assert.Contains(t, err.Error(), tc.name)
		})
	}
}

func TestValidateEnrichment_OptionalSectionsMayBeEmpty(t *testing.T) {
	e := validEnrichment()
	e.ParallelAccounts = nil
	e.RelatedPassages = nil
	e.Vocabulary = nil
	assert.NoError(t, ValidateEnrichment(e))
}

func TestRequiredSections_ReturnsCopy(t *testing.T) {
	sections := RequiredSections()
	require.NotEmpty(t, sections)
	sections[0] = "mutated"
	assert.NotEqual(t, "mutated", RequiredSections()[0])
}

func TestValidatePublicationEntry_Valid(t *testing.T) {
	entry := &PublicationEntry{
		ChunkIndex:    0,
		DestinationID: "post-1",
		PublishedAt:   time.Now().UTC(),
	}
	assert.NoError(t, ValidatePublicationEntry(entry))
}

func TestValidatePublicationEntry_Invalid(t *testing.T) {
	now := time.Now().UTC()

	assert.ErrorIs(t, ValidatePublicationEntry(nil), ErrInvalidPublication)

	err := ValidatePublicationEntry(&PublicationEntry{ChunkIndex: -1, DestinationID: "p", PublishedAt: now})
	assert.ErrorIs(t, err, ErrNegativeIndex)

	err = ValidatePublicationEntry(&PublicationEntry{ChunkIndex: 0, PublishedAt: now})
	assert.ErrorIs(t, err, ErrInvalidPublication)

	err = ValidatePublicationEntry(&PublicationEntry{ChunkIndex: 0, DestinationID: "p"})
	assert.ErrorIs(t, err, ErrInvalidPublication)
}
