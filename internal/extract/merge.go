package extract

import (
	"sort"

	"github.com/rvrstfn/extractor/internal/resolver"
)

// mergePasses combines extractions from sequential passes. The first pass
// wins: a later-pass extraction is dropped when its aligned interval overlaps
// an already-kept extraction of the same class, or when it is an unaligned
// exact duplicate. Later passes exist to pick up facts earlier passes missed,
// not to re-litigate ones they found.
func mergePasses(passes [][]resolver.Extraction) []resolver.Extraction {
	var merged []resolver.Extraction

	for _, exts := range passes {
		for _, ext := range exts {
			if conflicts(merged, ext) {
				continue
			}
			merged = append(merged, ext)
		}
	}

	// Document order, unaligned extractions last.
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		switch {
		case a.CharStart < 0 && b.CharStart < 0:
			return false
		case a.CharStart < 0:
			return false
		case b.CharStart < 0:
			return true
		default:
			return a.CharStart < b.CharStart
		}
	})

	return merged
}

func conflicts(kept []resolver.Extraction, ext resolver.Extraction) bool {
	for _, k := range kept {
		if k.ExtractionClass != ext.ExtractionClass {
			continue
		}
		if ext.CharStart >= 0 && k.CharStart >= 0 {
			if overlaps(k.CharStart, k.CharEnd, ext.CharStart, ext.CharEnd) {
				return true
			}
			continue
		}
		if ext.CharStart < 0 && k.ExtractionText == ext.ExtractionText {
			return true
		}
	}
	return false
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
