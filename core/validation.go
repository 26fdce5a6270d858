// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Index must not be negative
//   - Text must not be empty
//   - Span length must equal the text length
//
// NOT validated (populated by later stages):
//   - Enrichment (nil until the enrichment stage succeeds)
//   - Location (zero when the text carries no structural markers)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeIndex)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.Span.Len() != len(chunk.Text) {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrSpanMismatch)
	}

	return nil
}

// requiredSections lists the enrichment sections a generation response must
// fill before it is accepted. Parallel accounts, related passages and
// vocabulary stay optional; models omit them for passages where none apply.
var requiredSections = []string{
	"rendering",
	"context",
	"annotations",
	"discussion_prompts",
	"key_themes",
}

// RequiredSections returns the names of the enrichment sections that must be
// present and non-empty for an enrichment to be accepted.
func RequiredSections() []string {
	out := make([]string, len(requiredSections))
	copy(out, requiredSections)
	return out
}

// ValidateEnrichment validates an Enrichment according to domain rules.
// All required sections must be present and non-empty.
func ValidateEnrichment(e *Enrichment) error {
	if e == nil {
		return fmt.Errorf("%w: enrichment is nil", ErrInvalidEnrichment)
	}

	if e.Rendering == "" {
		return fmt.Errorf("%w: %w: rendering", ErrInvalidEnrichment, ErrMissingSection)
	}
	if e.Context == "" {
		return fmt.Errorf("%w: %w: context", ErrInvalidEnrichment, ErrMissingSection)
	}
	if len(e.Annotations) == 0 {
		return fmt.Errorf("%w: %w: annotations", ErrInvalidEnrichment, ErrMissingSection)
	}
	if len(e.DiscussionPrompts) == 0 {
		return fmt.Errorf("%w: %w: discussion_prompts", ErrInvalidEnrichment, ErrMissingSection)
	}
	if len(e.Themes) == 0 {
		return fmt.Errorf("%w: %w: key_themes", ErrInvalidEnrichment, ErrMissingSection)
	}

	return nil
}

// ValidatePublicationEntry validates a PublicationEntry according to domain
// rules. The destination identifier is what makes the entry usable for
// idempotency and audit, so it must never be empty.
func ValidatePublicationEntry(entry *PublicationEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidPublication)
	}

	if entry.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPublication, ErrNegativeIndex)
	}

	if entry.DestinationID == "" {
		return fmt.Errorf("%w: destination id cannot be empty", ErrInvalidPublication)
	}

	if entry.PublishedAt.IsZero() {
		return fmt.Errorf("%w: published_at cannot be zero", ErrInvalidPublication)
	}

	return nil
}
