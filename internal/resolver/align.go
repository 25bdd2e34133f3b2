package resolver

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rvrstfn/extractor/internal/pdf"
)

// Align locates each extraction's text inside the chunk it came from and
// records absolute character positions and page numbers. chunkStart is the
// chunk's offset in doc.Text. Extractions whose text cannot be found keep
// CharStart == -1; any page hint the model emitted stays in the attributes.
func Align(exts []Extraction, chunkText string, chunkStart int, doc *pdf.Document) {
	for i := range exts {
		start, end := locate(chunkText, exts[i].ExtractionText)
		if start < 0 {
			continue
		}
		exts[i].CharStart = chunkStart + start
		exts[i].CharEnd = chunkStart + end
		exts[i].Page = doc.PageForOffset(exts[i].CharStart)
	}
}

// locate finds needle in haystack, trying exact match, then case-insensitive,
// then whitespace-normalized. Returns [start, end) or (-1, -1).
func locate(haystack, needle string) (int, int) {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return -1, -1
	}

	if idx := strings.Index(haystack, needle); idx >= 0 {
		return idx, idx + len(needle)
	}

	if start, end := locateMapped(haystack, needle, false); start >= 0 {
		return start, end
	}
	return locateMapped(haystack, needle, true)
}

// locateMapped searches a lowercased view of haystack, optionally collapsing
// whitespace runs to single spaces, and maps the match back to offsets in the
// original bytes. Lowercasing can change byte lengths, so indexes into the
// view are never used on the original string directly.
func locateMapped(haystack, needle string, collapseSpace bool) (int, int) {
	normHay, starts, ends := normalize(haystack, collapseSpace)
	normNeedle, _, _ := normalize(needle, collapseSpace)
	if normNeedle == "" {
		return -1, -1
	}

	idx := strings.Index(normHay, normNeedle)
	if idx < 0 {
		return -1, -1
	}
	return starts[idx], ends[idx+len(normNeedle)-1]
}

// normalize lowercases s and, when collapseSpace is set, collapses whitespace
// runs to single spaces and trims the edges. starts[i] and ends[i] bound the
// original bytes that produced normalized byte i.
func normalize(s string, collapseSpace bool) (string, []int, []int) {
	var sb strings.Builder
	starts := make([]int, 0, len(s))
	ends := make([]int, 0, len(s))
	inSpace := collapseSpace // Leading whitespace is dropped when collapsing

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if collapseSpace && unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
				starts = append(starts, i)
				ends = append(ends, i+size)
				inSpace = true
			}
			i += size
			continue
		}
		inSpace = false
		n := sb.Len()
		sb.WriteRune(unicode.ToLower(r))
		for ; n < sb.Len(); n++ {
			starts = append(starts, i)
			ends = append(ends, i+size)
		}
		i += size
	}

	norm := sb.String()
	if collapseSpace && strings.HasSuffix(norm, " ") {
		norm = norm[:len(norm)-1]
		starts = starts[:len(starts)-1]
		ends = ends[:len(ends)-1]
	}
	return norm, starts, ends
}
