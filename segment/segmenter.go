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


package segment

import (
	"fmt"

	"github.com/poiesic/lectio/core"
)

// Config holds the chunk size bounds, measured in bytes of source text.
type Config struct {
	// TargetSize is the preferred chunk size. Ties between equally ranked
	// break points are resolved by proximity to this value.
	TargetSize int

	// MinSize is the smallest acceptable chunk. Only the final chunk,
	// which absorbs the remainder of the text, may be shorter.
	MinSize int

	// MaxSize is the largest acceptable chunk. A break is forced here when
	// no boundary of any kind exists earlier.
	MaxSize int
}

// DefaultConfig returns the bounds used for daily reading portions.
func DefaultConfig() Config {
	return Config{
		TargetSize: 2500,
		MinSize:    2000,
		MaxSize:    3000,
	}
}

// Validate checks that the bounds can produce chunks.
func (c Config) Validate() error {
	if c.MinSize <= 0 {
		return fmt.Errorf("%w: min size %d must be positive", ErrInvalidBounds, c.MinSize)
	}
	if c.MinSize > c.MaxSize {
		return fmt.Errorf("%w: min size %d exceeds max size %d", ErrInvalidBounds, c.MinSize, c.MaxSize)
	}
	if c.TargetSize < c.MinSize || c.TargetSize > c.MaxSize {
		return fmt.Errorf("%w: target size %d outside [%d, %d]", ErrInvalidBounds, c.TargetSize, c.MinSize, c.MaxSize)
	}
	return nil
}

// Segment divides text into an ordered, gapless, non-overlapping sequence of
// chunks covering the entire input. Concatenating the chunks' Text in index
// order reproduces text exactly.
//
// The scan moves forward from the end of the previous chunk. Within the
// window [pos+MinSize, pos+MaxSize] the best break point is chosen by
// priority: structural boundary, then paragraph boundary, then sentence
// boundary. Boundaries of the same priority are ranked by proximity to
// pos+TargetSize. If the window contains no boundary at all, the break is
// forced at pos+MaxSize. The final chunk absorbs the remainder and may be
// shorter than MinSize.
func Segment(text string, cfg Config) ([]*core.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return nil, ErrEmptyText
	}

	bounds := scanBoundaries(text)
	markers := scanStructure(text)

	var chunks []*core.Chunk
	pos := 0
	for pos < len(text) {
		end := len(text)
		if len(text)-pos > cfg.MaxSize {
			end = findBreak(bounds, pos, cfg)
		}

		chunk := &core.Chunk{
			Index:     len(chunks),
			Span:      core.SourceSpan{Start: pos, End: end},
			Location:  locationAt(markers, pos),
			Text:      text[pos:end],
			WordCount: core.CountWords(text[pos:end]),
		}
		chunks = append(chunks, chunk)
		pos = end
	}

	return chunks, nil
}

// findBreak returns the best break position for a chunk starting at pos.
// The caller guarantees at least MaxSize bytes remain.
func findBreak(bounds boundaries, pos int, cfg Config) int {
	lo := pos + cfg.MinSize
	hi := pos + cfg.MaxSize
	target := pos + cfg.TargetSize

	for _, candidates := range [][]int{bounds.structural, bounds.paragraph, bounds.sentence} {
		if b, ok := closestInWindow(candidates, lo, hi, target); ok {
			return b
		}
	}

	// No boundary of any kind in the window.
	return hi
}

// closestInWindow picks the candidate within [lo, hi] closest to target.
// Candidates must be sorted ascending. Equal distances resolve to the
// earlier position so results stay deterministic.
func closestInWindow(candidates []int, lo, hi, target int) (int, bool) {
	i := searchInts(candidates, lo)
	best := -1
	bestDist := -1
	for ; i < len(candidates) && candidates[i] <= hi; i++ {
		dist := candidates[i] - target
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best = candidates[i]
			bestDist = dist
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// searchInts returns the smallest index i such that a[i] >= x.
func searchInts(a []int, x int) int {
	lo, hi := 0, len(a)
	for lo < hi {
		mid := (lo + hi) / 2
		if a[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
