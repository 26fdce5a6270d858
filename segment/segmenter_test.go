package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentences returns n copies of a 20-byte sentence, giving boundary
// positions at exact multiples of 20.
func sentences(n int) string {
	return strings.Repeat("This is a sentence. ", n)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero min", Config{TargetSize: 10, MinSize: 0, MaxSize: 20}},
		{"negative min", Config{TargetSize: 10, MinSize: -5, MaxSize: 20}},
		{"min above max", Config{TargetSize: 10, MinSize: 30, MaxSize: 20}},
		{"target below min", Config{TargetSize: 5, MinSize: 10, MaxSize: 20}},
		{"target above max", Config{TargetSize: 25, MinSize: 10, MaxSize: 20}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.cfg.Validate(), ErrInvalidBounds)
		})
	}
}

func TestSegment_EmptyText(t *testing.T) {
	_, err := Segment("", DefaultConfig())
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestSegment_SingleChunkBelowMin(t *testing.T) {
	text := "A short passage well under the minimum."

	chunks, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Span.Start)
	assert.Equal(t, len(text), chunks[0].Span.End)
}

func TestSegment_EvenSentenceBreaks(t *testing.T) {
	// 10,000 bytes with sentence boundaries at every multiple of 20.
	// The boundary at each pos+2500 is exact, so four equal chunks result.
	text := sentences(500)
	require.Len(t, text, 10000)

	chunks, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, i*2500, c.Span.Start)
		assert.Equal(t, (i+1)*2500, c.Span.End)
		assert.Len(t, c.Text, 2500)
	}
}

func TestSegment_ReconstructsSource(t *testing.T) {
	text := "BOOK I\n" + sentences(200) + "\n\n" + sentences(150) + "\nBOOK II\n" + sentences(180)

	chunks, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var sb strings.Builder
	prevEnd := 0
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, prevEnd, c.Span.Start, "chunks must be gapless")
		assert.Equal(t, len(c.Text), c.Span.Len())
		prevEnd = c.Span.End
		sb.WriteString(c.Text)
	}
	assert.Equal(t, len(text), prevEnd)
	assert.Equal(t, text, sb.String(), "concatenated chunks must reproduce the source")
}

func TestSegment_Deterministic(t *testing.T) {
	text := sentences(300) + "\n\n" + sentences(300)

	first, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	second, err := Segment(text, DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Span, second[i].Span)
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.Equal(t, first[i].Location, second[i].Location)
	}
}

func TestSegment_PrefersStructuralBoundary(t *testing.T) {
	// A book header sits at 2400, inside the window but further from the
	// 2500 target than several sentence boundaries. The header still wins.
	head := sentences(119) + "This is a sentence.\n"
	require.Len(t, head, 2400)
	text := head + "BOOK II\n" + sentences(130)

	chunks, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, 2400, chunks[0].Span.End)
	assert.True(t, strings.HasPrefix(chunks[1].Text, "BOOK II"))
	assert.Equal(t, 2, chunks[1].Location.Book)
	assert.Equal(t, 0, chunks[1].Location.Chapter)
}

func TestSegment_PrefersParagraphOverSentence(t *testing.T) {
	// The paragraph break at 2201 beats sentence boundaries that land
	// nearer the target.
	para := strings.TrimRight(sentences(110), " ")
	require.Len(t, para, 2199)
	text := para + "\n\n" + sentences(130)

	chunks, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, 2201, chunks[0].Span.End)
}

func TestSegment_ForcedBreakAtMax(t *testing.T) {
	// No sentence, paragraph, or structural boundaries anywhere.
	text := strings.Repeat("abcdefghij", 400)

	chunks, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 3000, chunks[0].Span.End)
	assert.Equal(t, 4000, chunks[1].Span.End)
}

func TestSegment_FinalChunkMayBeShort(t *testing.T) {
	text := sentences(155)
	require.Len(t, text, 3100)

	chunks, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 2500, chunks[0].Span.Len())
	assert.Equal(t, 600, chunks[1].Span.Len(), "final chunk may fall below the minimum")
}

func TestSegment_WordCounts(t *testing.T) {
	text := sentences(500)

	chunks, err := Segment(text, DefaultConfig())
	require.NoError(t, err)
	for _, c := range chunks {
		assert.Equal(t, 500, c.WordCount, "125 four-word sentences per chunk")
	}
}
