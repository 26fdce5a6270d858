package segment

import (
	"fmt"
	"strings"
)

// DefaultStartMarker and DefaultEndMarker are the Project Gutenberg
// boilerplate delimiters that bracket the licensed text.
const (
	DefaultStartMarker = "*** START OF THE PROJECT GUTENBERG EBOOK"
	DefaultEndMarker   = "*** END OF THE PROJECT GUTENBERG EBOOK"
)

// ExtractMainText strips Project Gutenberg boilerplate and front matter from
// raw, returning only the literary text. The start and end markers bracket
// the licensed text; within that window, translator prefaces and tables of
// contents are skipped by seeking the first "BOOK I" header near the
// beginning. ErrMainTextNotFound is returned when the markers or the header
// cannot be located.
func ExtractMainText(raw, startMarker, endMarker string) (string, error) {
	if startMarker == "" {
		startMarker = DefaultStartMarker
	}
	if endMarker == "" {
		endMarker = DefaultEndMarker
	}

	start := strings.Index(raw, startMarker)
	if start < 0 {
		return "", fmt.Errorf("%w: start marker %q", ErrMainTextNotFound, startMarker)
	}
	// The marker line ends with its own newline; the text proper begins
	// after the blank line that follows it.
	start += len(startMarker)
	if i := strings.Index(raw[start:], "\n\n"); i >= 0 {
		start += i + 2
	}

	end := strings.Index(raw[start:], endMarker)
	if end < 0 {
		return "", fmt.Errorf("%w: end marker %q", ErrMainTextNotFound, endMarker)
	}
	body := raw[start : start+end]

	// Front matter (title page, translator's preface, contents) precedes
	// the first book header. Only search the opening stretch so a "BOOK I"
	// mention deep in the text cannot truncate it.
	window := len(body) / 4
	if window == 0 {
		window = len(body)
	}
	headerStart := -1
	for _, header := range []string{"\nBOOK I\n", "\nBOOK I.\n", "\nBOOK I\r\n", "BOOK I\n"} {
		if i := strings.Index(body[:window], header); i >= 0 {
			if header[0] == '\n' {
				i++
			}
			headerStart = i
			break
		}
	}
	if headerStart < 0 {
		return "", fmt.Errorf("%w: no opening book header", ErrMainTextNotFound)
	}

	text := strings.TrimRight(body[headerStart:], " \t\r\n")
	if text == "" {
		return "", fmt.Errorf("%w: empty body between markers", ErrMainTextNotFound)
	}
	return text + "\n", nil
}
