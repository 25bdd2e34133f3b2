// Package chunk splits document text into model-sized windows.
//
// Local models degrade sharply on long contexts, so the extractor sends many
// small chunks instead of the whole document. Chunks carry their character
// interval in the source text so extractions can be mapped back to pages.
package chunk

import (
	"strings"
	"unicode/utf8"

	"github.com/rvrstfn/extractor/internal/pdf"
)

// Chunk is a window of document text.
type Chunk struct {
	Index     int    // position in the chunk sequence
	Text      string // the window's text
	Start     int    // byte offset in the document text
	End       int    // byte offset one past the window
	StartPage int    // first page the window touches
	EndPage   int    // last page the window touches
}

// DefaultMaxChars is the default chunk buffer size.
const DefaultMaxChars = 1200

// Split cuts the document text into chunks of at most maxChars bytes,
// preferring to break at paragraph, line, and word boundaries in that order.
// Page markers stay with the text that follows them.
func Split(doc *pdf.Document, maxChars int) []Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	text := doc.Text
	var chunks []Chunk
	pos := 0

	for pos < len(text) {
		end := pos + maxChars
		if end >= len(text) {
			end = len(text)
		} else {
			end = breakPoint(text, pos, end)
		}

		segment := text[pos:end]
		if strings.TrimSpace(segment) != "" {
			chunks = append(chunks, Chunk{
				Index:     len(chunks),
				Text:      segment,
				Start:     pos,
				End:       end,
				StartPage: pageFor(doc, pos, end),
				EndPage:   pageFor(doc, end-1, end),
			})
		}
		pos = end
	}

	return chunks
}

// breakPoint finds the best cut position in (lo, hi], scanning backwards for
// a paragraph break, then a newline, then a space. Falls back to a hard cut
// on a rune boundary.
func breakPoint(text string, lo, hi int) int {
	window := text[lo:hi]

	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return lo + i + 2
	}
	if i := strings.LastIndex(window, "\n"); i > 0 {
		return lo + i + 1
	}
	if i := strings.LastIndex(window, " "); i > 0 {
		return lo + i + 1
	}

	// Hard cut. Back up so we never split a multi-byte rune.
	for hi > lo && !utf8.RuneStart(text[hi]) {
		hi--
	}
	if hi == lo {
		// The buffer is smaller than the rune at lo. Take the whole rune so
		// the split always makes progress.
		_, size := utf8.DecodeRuneInString(text[lo:])
		return lo + size
	}
	return hi
}

func pageFor(doc *pdf.Document, off, end int) int {
	if p := doc.PageForOffset(off); p > 0 {
		return p
	}
	// Offsets inside trailing whitespace fall back to the last page.
	if len(doc.Pages) > 0 && end >= len(doc.Text) {
		return doc.Pages[len(doc.Pages)-1].Number
	}
	return 0
}
