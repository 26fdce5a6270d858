package enrich

import (
	"time"

	"github.com/google/uuid"
)

// Failure records one chunk that could not be enriched after all retries.
type Failure struct {
	// Index is the chunk index that failed.
	Index int

	// Attempts is how many generation attempts were made.
	Attempts int

	// Reason is the final error message.
	Reason string
}

// Report summarizes one enrichment run. Skipped chunks were already
// enriched before the run started; Failed chunks remain unenriched and
// will be picked up by the next run.
type Report struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	Attempted int
	Enriched  int
	Skipped   int
	Failed    int

	Failures []Failure

	Elapsed time.Duration
}

func newReport() *Report {
	return &Report{RunID: uuid.NewString()}
}

// Complete returns true if every selected chunk ended up enriched.
func (r *Report) Complete() bool {
	return r.Failed == 0
}
