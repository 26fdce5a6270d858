package segment

import (
	"regexp"
	"sort"

	"github.com/poiesic/lectio/core"
)

// structureMarker records the cumulative book/chapter state established by a
// BOOK or CHAPTER header at a byte offset.
type structureMarker struct {
	pos     int
	book    int
	chapter int
}

var (
	bookRe    = regexp.MustCompile(`(?m)^BOOK\s+([IVXLCDM]+)\b`)
	chapterRe = regexp.MustCompile(`(?m)^CHAPTER\s+([IVXLCDM]+)\b`)
)

// scanStructure collects all BOOK and CHAPTER headers and resolves each to
// the book/chapter state in effect from that header onward, sorted by
// position. Chapter numbering restarts at each book.
func scanStructure(text string) []structureMarker {
	type rawMarker struct {
		pos    int
		isBook bool
		value  int
	}

	var raw []rawMarker
	for _, m := range bookRe.FindAllStringSubmatchIndex(text, -1) {
		raw = append(raw, rawMarker{pos: m[0], isBook: true, value: romanToInt(text[m[2]:m[3]])})
	}
	for _, m := range chapterRe.FindAllStringSubmatchIndex(text, -1) {
		raw = append(raw, rawMarker{pos: m[0], isBook: false, value: romanToInt(text[m[2]:m[3]])})
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i].pos < raw[j].pos })

	var markers []structureMarker
	book, chapter := 0, 0
	for _, r := range raw {
		if r.isBook {
			book = r.value
			chapter = 0
		} else {
			chapter = r.value
		}
		markers = append(markers, structureMarker{pos: r.pos, book: book, chapter: chapter})
	}
	return markers
}

// locationAt returns the structural location in effect at byte offset pos,
// which is the state of the last marker at or before pos. Text before the
// first marker has no location.
func locationAt(markers []structureMarker, pos int) core.StructuralLocation {
	i := sort.Search(len(markers), func(i int) bool { return markers[i].pos > pos })
	if i == 0 {
		return core.StructuralLocation{}
	}
	m := markers[i-1]
	return core.StructuralLocation{Book: m.book, Chapter: m.chapter}
}

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// romanToInt parses an uppercase roman numeral. Malformed input degrades to
// a best-effort value rather than an error, matching how loosely printed
// editions number their divisions.
func romanToInt(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		v := romanValues[s[i]]
		if i+1 < len(s) && v < romanValues[s[i+1]] {
			total -= v
		} else {
			total += v
		}
	}
	return total
}
