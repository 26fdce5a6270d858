// Package segment divides a long literary text into an ordered, gapless
// sequence of bounded-size chunks suitable for daily reading.
//
// Segmentation is a pure function: the same text and bounds always produce
// byte-identical chunk boundaries, so re-running it never invalidates
// existing chunk indices or in-flight enrichment. Break points prefer, in
// order: structural boundaries (BOOK/CHAPTER headers), paragraph boundaries,
// sentence boundaries, and finally a forced break at the maximum size.
package segment
