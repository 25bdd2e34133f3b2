package chunk

import (
	"strings"
	"testing"

	"github.com/rvrstfn/extractor/internal/pdf"
)

func TestSplit(t *testing.T) {
	t.Run("short document is a single chunk", func(t *testing.T) {
		doc := pdf.NewDocument("x.pdf", []string{"MSDS available.\nCAS: 56-81-5"})
		chunks := Split(doc, 1200)
		if len(chunks) != 1 {
			t.Fatalf("len(chunks) = %d, want 1", len(chunks))
		}
		if chunks[0].Text != doc.Text {
			t.Error("single chunk should cover the whole document")
		}
		if chunks[0].StartPage != 1 || chunks[0].EndPage != 1 {
			t.Errorf("pages = %d..%d, want 1..1", chunks[0].StartPage, chunks[0].EndPage)
		}
	})

	t.Run("chunks are contiguous and bounded", func(t *testing.T) {
		lines := make([]string, 80)
		for i := range lines {
			lines[i] = "Heavy metals: lead below 10 ppm, cadmium below 5 ppm."
		}
		doc := pdf.NewDocument("x.pdf", []string{strings.Join(lines, "\n")})

		chunks := Split(doc, 300)
		if len(chunks) < 2 {
			t.Fatalf("expected multiple chunks, got %d", len(chunks))
		}
		for i, c := range chunks {
			if len(c.Text) > 300 {
				t.Errorf("chunk %d length = %d, exceeds buffer", i, len(c.Text))
			}
			if c.Text != doc.Text[c.Start:c.End] {
				t.Errorf("chunk %d interval does not match its text", i)
			}
			if i > 0 && c.Start != chunks[i-1].End {
				t.Errorf("chunk %d not contiguous with previous", i)
			}
		}
		if chunks[len(chunks)-1].End != len(doc.Text) {
			t.Error("final chunk should end at document end")
		}
	})

	t.Run("prefers line breaks", func(t *testing.T) {
		doc := pdf.NewDocument("x.pdf", []string{
			"first line about MSDS status\nsecond line about REACH numbers\nthird line about heavy metals",
		})
		chunks := Split(doc, 60)
		for i, c := range chunks[:len(chunks)-1] {
			if !strings.HasSuffix(c.Text, "\n") && !strings.HasSuffix(c.Text, " ") {
				t.Errorf("chunk %d ends mid-word: %q", i, c.Text)
			}
		}
	})

	t.Run("page spans across pages", func(t *testing.T) {
		doc := pdf.NewDocument("x.pdf", []string{"page one content", "page two content"})
		chunks := Split(doc, len(doc.Text)+10)
		if len(chunks) != 1 {
			t.Fatalf("len(chunks) = %d, want 1", len(chunks))
		}
		if chunks[0].StartPage != 1 || chunks[0].EndPage != 2 {
			t.Errorf("pages = %d..%d, want 1..2", chunks[0].StartPage, chunks[0].EndPage)
		}
	})

	t.Run("buffer smaller than a rune still terminates", func(t *testing.T) {
		doc := pdf.NewDocument("x.pdf", []string{"配合禁止物質"})
		chunks := Split(doc, 1)
		if len(chunks) == 0 {
			t.Fatal("expected chunks")
		}
		var joined strings.Builder
		for i, c := range chunks {
			if c.End <= c.Start {
				t.Fatalf("chunk %d made no progress", i)
			}
			joined.WriteString(c.Text)
		}
		squash := func(s string) string { return strings.Join(strings.Fields(s), "") }
		if squash(joined.String()) != squash(doc.Text) {
			t.Error("chunks do not cover the document text")
		}
	})

	t.Run("never splits runes", func(t *testing.T) {
		doc := pdf.NewDocument("x.pdf", []string{strings.Repeat("配合禁止物質", 200)})
		chunks := Split(doc, 100)
		for i, c := range chunks {
			if !strings.Contains(c.Text, "PAGE") && !strings.HasPrefix(c.Text, "配") && !strings.HasPrefix(c.Text, "合") &&
				!strings.HasPrefix(c.Text, "禁") && !strings.HasPrefix(c.Text, "止") && !strings.HasPrefix(c.Text, "物") && !strings.HasPrefix(c.Text, "質") {
				t.Errorf("chunk %d starts mid-rune: %q", i, c.Text[:4])
			}
		}
	})
}
