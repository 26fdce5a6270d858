package publish_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lectio/core"
	"github.com/poiesic/lectio/publish"
	"github.com/poiesic/lectio/publish/mock"
	"github.com/poiesic/lectio/storage"
	badgerstore "github.com/poiesic/lectio/storage/badger"
)

// testClock is a manually stepped time source.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) AdvanceDays(n int) {
	c.now = c.now.AddDate(0, 0, n)
}

func seedEnriched(t *testing.T, repo storage.ChunkRepository, n int) {
	t.Helper()
	ctx := context.Background()
	offset := 0
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("passage %d. ", i)
		chunk := &core.Chunk{
			Index:     i,
			Span:      core.SourceSpan{Start: offset, End: offset + len(text)},
			Location:  core.StructuralLocation{Book: 1, Chapter: i + 1},
			Text:      text,
			WordCount: core.CountWords(text),
		}
		offset += len(text)
		require.NoError(t, repo.PutChunks(ctx, chunk))
		require.NoError(t, repo.SetEnrichment(ctx, i, &core.Enrichment{
			Rendering:         fmt.Sprintf("rendering %d", i),
			Context:           "context",
			Annotations:       []core.Annotation{{Topic: "t", Explanation: "e"}},
			DiscussionPrompts: []string{"q"},
			Themes:            []string{"theme"},
			Model:             "test-model",
		}))
	}
}

func newTestScheduler(t *testing.T) (*publish.Scheduler, storage.ChunkRepository, storage.PublicationRepository, *mock.MockPublisher, *testClock, func()) {
	t.Helper()
	chunks, log, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)

	pub := mock.NewMockPublisher()
	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	sched := publish.NewScheduler(chunks, log, pub, &publish.Formatter{}, publish.Schedule{
		StartDate: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}, publish.WithClock(clock.Now))
	return sched, chunks, log, pub, clock, func() { backend.Close() }
}

func TestScheduler_PublishesInSequence(t *testing.T) {
	sched, chunks, _, pub, clock, done := newTestScheduler(t)
	defer done()

	seedEnriched(t, chunks, 3)
	ctx := context.Background()

	for day := 0; day < 3; day++ {
		entry, err := sched.PublishNext(ctx)
		require.NoError(t, err)
		assert.Equal(t, day, entry.ChunkIndex)
		clock.AdvanceDays(1)
	}
	assert.Equal(t, 3, pub.CallCount())

	titles := []string{}
	for _, p := range pub.Posts() {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{
		"Day 1: Book 1, Chapter 1",
		"Day 2: Book 1, Chapter 2",
		"Day 3: Book 1, Chapter 3",
	}, titles)
}

func TestScheduler_DuplicateDailyTriggerPublishesOnce(t *testing.T) {
	sched, chunks, log, pub, _, done := newTestScheduler(t)
	defer done()

	seedEnriched(t, chunks, 5)
	ctx := context.Background()

	first, err := sched.PublishNext(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, first.ChunkIndex)

	// The daily trigger fires a second time the same day, as a retried
	// cron job would.
	second, err := sched.PublishNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pub.CallCount(), "duplicate trigger must contact the destination once")
	assert.Equal(t, first.ChunkIndex, second.ChunkIndex)
	assert.Equal(t, first.DestinationID, second.DestinationID)

	count, err := log.PublishedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "exactly one log entry for the day")
}

func TestScheduler_DuplicateTriggerPublishesOnce(t *testing.T) {
	sched, chunks, log, pub, _, done := newTestScheduler(t)
	defer done()

	seedEnriched(t, chunks, 2)
	ctx := context.Background()

	first, err := sched.Publish(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 1, pub.CallCount())

	// The same chunk is triggered again.
	second, err := sched.Publish(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pub.CallCount(), "duplicate trigger must not contact the destination")
	assert.Equal(t, first.DestinationID, second.DestinationID)

	count, err := log.PublishedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "exactly one log entry")
}

func TestScheduler_FailureLeavesLogUntouched(t *testing.T) {
	sched, chunks, log, pub, _, done := newTestScheduler(t)
	defer done()

	seedEnriched(t, chunks, 2)
	ctx := context.Background()

	pub.PublishFunc = func(ctx context.Context, post *publish.Post) (*publish.Receipt, error) {
		return nil, errors.New("destination unavailable")
	}

	_, err := sched.PublishNext(ctx)
	require.Error(t, err)

	count, err := log.PublishedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "a failed delivery must not be logged")

	// Nothing was logged, so the same day is still open and the next
	// trigger retries the same chunk.
	next, err := sched.NextToPublish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	pub.PublishFunc = nil
	entry, err := sched.PublishNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.ChunkIndex)
}

func TestScheduler_NotReadyChunkBlocksPublish(t *testing.T) {
	sched, chunks, log, pub, _, done := newTestScheduler(t)
	defer done()

	// Chunk exists but has no enrichment.
	text := "unenriched passage"
	require.NoError(t, chunks.PutChunks(context.Background(), &core.Chunk{
		Index: 0,
		Span:  core.SourceSpan{Start: 0, End: len(text)},
		Text:  text,
	}))

	_, err := sched.PublishNext(context.Background())
	assert.ErrorIs(t, err, publish.ErrNotReady)
	assert.Equal(t, 0, pub.CallCount())

	count, err := log.PublishedCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestScheduler_Exhausted(t *testing.T) {
	sched, chunks, _, _, clock, done := newTestScheduler(t)
	defer done()

	seedEnriched(t, chunks, 2)
	ctx := context.Background()

	_, err := sched.PublishNext(ctx)
	require.NoError(t, err)
	clock.AdvanceDays(1)
	_, err = sched.PublishNext(ctx)
	require.NoError(t, err)
	clock.AdvanceDays(1)

	_, err = sched.PublishNext(ctx)
	assert.ErrorIs(t, err, publish.ErrExhausted)
}

func TestScheduler_NoChunks(t *testing.T) {
	sched, _, _, _, _, done := newTestScheduler(t)
	defer done()

	_, err := sched.NextToPublish(context.Background())
	assert.ErrorIs(t, err, publish.ErrNoChunks)
}

func TestScheduler_FillsGapsFirst(t *testing.T) {
	sched, chunks, _, _, _, done := newTestScheduler(t)
	defer done()

	seedEnriched(t, chunks, 3)
	ctx := context.Background()

	// Chunk 1 was published manually out of order.
	_, err := sched.Publish(ctx, 1)
	require.NoError(t, err)

	next, err := sched.NextToPublish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, next, "the gap publishes before moving on")
}

func TestScheduler_PostCarriesScheduledDate(t *testing.T) {
	sched, chunks, _, pub, _, done := newTestScheduler(t)
	defer done()

	seedEnriched(t, chunks, 3)
	ctx := context.Background()

	_, err := sched.Publish(ctx, 2)
	require.NoError(t, err)

	require.Len(t, pub.Posts(), 1)
	want := time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, want, pub.Posts()[0].Date, "chunk 2 posts two days after the start date")
}

func TestScheduler_Preview(t *testing.T) {
	sched, chunks, log, pub, _, done := newTestScheduler(t)
	defer done()

	seedEnriched(t, chunks, 1)
	ctx := context.Background()

	post, err := sched.Preview(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Book 1, Chapter 1", post.Title)
	assert.Contains(t, post.Body, "rendering 0")
	assert.Equal(t, 0, pub.CallCount(), "preview must not publish")

	count, err := log.PublishedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
