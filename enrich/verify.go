package enrich

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/lectio/core"
	"github.com/poiesic/lectio/storage"
)

// VerifyResult reports the enrichment state of the whole chunk sequence.
type VerifyResult struct {
	// Checked is the number of chunks examined.
	Checked int

	// Enriched is the number of chunks with a valid enrichment.
	Enriched int

	// Missing lists indices with no enrichment at all, ascending.
	Missing []int

	// Incomplete lists indices whose stored enrichment fails validation,
	// ascending. These need regeneration.
	Incomplete []int

	// SpanBreaks lists indices where the chunk sequence is broken: the
	// index is not the successor of the previous one, or the span does
	// not begin where the previous span ended. A break means the chunks
	// no longer reconstruct the source text.
	SpanBreaks []int
}

// Complete returns true if every chunk carries a valid enrichment and the
// sequence is unbroken.
func (v *VerifyResult) Complete() bool {
	return len(v.Missing) == 0 && len(v.Incomplete) == 0 && len(v.SpanBreaks) == 0
}

// Verifier checks stored enrichments for completeness. Verification is
// read-only, so chunks are checked concurrently on a worker pool.
type Verifier struct {
	repo    storage.ChunkRepository
	workers int
}

// NewVerifier creates a verifier with the given pool size.
func NewVerifier(repo storage.ChunkRepository, workers int) *Verifier {
	if workers <= 0 {
		workers = 4
	}
	return &Verifier{repo: repo, workers: workers}
}

// Verify validates every stored chunk's enrichment. The whole keyspace is
// scanned rather than a count-bounded range: a hole in the sequence must not
// hide the chunks stranded past it.
func (v *Verifier) Verify(ctx context.Context) (*VerifyResult, error) {
	chunks, err := v.repo.GetAllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrNotSegmented
	}

	result := &VerifyResult{Checked: len(chunks)}

	// Continuity is an ordering property, so it is checked in sequence
	// before the per-chunk work fans out.
	nextIndex, offset := 0, 0
	for _, chunk := range chunks {
		if chunk.Index != nextIndex || chunk.Span.Start != offset {
			result.SpanBreaks = append(result.SpanBreaks, chunk.Index)
		}
		nextIndex = chunk.Index + 1
		offset = chunk.Span.End
	}

	pool, err := ants.NewPool(v.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, chunk := range chunks {
		chunk := chunk
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			missing := chunk.Enrichment == nil
			incomplete := !missing && core.ValidateEnrichment(chunk.Enrichment) != nil

			mu.Lock()
			defer mu.Unlock()
			switch {
			case missing:
				result.Missing = append(result.Missing, chunk.Index)
			case incomplete:
				result.Incomplete = append(result.Incomplete, chunk.Index)
			default:
				result.Enriched++
			}
		})
		if submitErr != nil {
			wg.Done()
			return nil, submitErr
		}
	}
	wg.Wait()

	sort.Ints(result.Missing)
	sort.Ints(result.Incomplete)
	return result, nil
}
