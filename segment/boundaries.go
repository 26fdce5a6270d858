package segment

import "regexp"

// boundaries holds candidate break positions by class, each sorted ascending.
// A position is a byte offset in the source text at which a new chunk may
// begin.
type boundaries struct {
	structural []int
	paragraph  []int
	sentence   []int
}

var (
	// A structural break lands at the start of the header line, so the
	// header opens the next chunk.
	structuralRe = regexp.MustCompile(`(?m)^(?:BOOK|CHAPTER)\s+[IVXLCDM]+\b`)

	// A paragraph break lands after the blank line separating paragraphs.
	paragraphRe = regexp.MustCompile(`\n[ \t]*\n`)

	// A sentence break lands after the terminal punctuation and the
	// whitespace that follows it. Closing quotes and brackets stay with
	// the sentence they end.
	sentenceRe = regexp.MustCompile(`[.!?]["')\]]*\s+`)
)

func scanBoundaries(text string) boundaries {
	var b boundaries

	for _, m := range structuralRe.FindAllStringIndex(text, -1) {
		if m[0] > 0 {
			b.structural = append(b.structural, m[0])
		}
	}
	for _, m := range paragraphRe.FindAllStringIndex(text, -1) {
		b.paragraph = append(b.paragraph, m[1])
	}
	for _, m := range sentenceRe.FindAllStringIndex(text, -1) {
		b.sentence = append(b.sentence, m[1])
	}

	return b
}
