// Package testpdf generates small compliance-document PDFs for trying out
// schemas without real supplier paperwork.
package testpdf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Kind names a sample document.
type Kind string

const (
	KindMaterial      Kind = "material"
	KindCosmetics     Kind = "cosmetics"
	KindFoodGrade     Kind = "food_grade"
	KindComprehensive Kind = "comprehensive"
)

// samples maps each kind to its page contents, one string slice per page.
var samples = map[Kind][][]string{
	KindMaterial: {{
		"Material Safety Data Sheet",
		"Product Name: Glycerin USP",
		"CAS Number: 56-81-5",
		"REACH Registration: 01-2119471987-18-0000",
		"Heavy Metals: <10ppm lead",
		"Country of Origin: USA",
		"GMO Status: GMO-free certified",
	}},
	KindCosmetics: {{
		"COSMETIC INGREDIENT COMPLIANCE DOCUMENT",
		"Product: Hyaluronic Acid Serum Base",
		"",
		"SAFETY INFORMATION:",
		"Material Safety Data Sheet: Available",
		"Allergen Status: No known allergens present",
		"Preservative System: Phenoxyethanol 0.5%",
		"",
		"REGULATORY COMPLIANCE:",
		"EU Cosmetics Regulation 1223/2009: Compliant",
		"FDA Cosmetics: GRAS status confirmed",
		"Notification: CPNP-123456789",
	}},
	KindFoodGrade: {{
		"FOOD GRADE MATERIAL CERTIFICATION",
		"Product: Food Grade Silicone Additive",
		"",
		"FOOD SAFETY COMPLIANCE:",
		"FDA Food Contact: Approved under 21 CFR 175.300",
		"EU Food Contact: Complies with Regulation 10/2011/EU",
		"Migration Test: <10ppb overall migration",
		"Heavy Metals Analysis:",
		"  Lead: <0.1 ppm",
		"  Cadmium: <0.05 ppm",
		"",
		"CERTIFICATIONS:",
		"Kosher: Certified by OK Kosher (expires 2025-12-31)",
		"Halal: Certified by Islamic Society",
	}},
	KindComprehensive: {
		{
			"COMPREHENSIVE MATERIAL DOCUMENTATION",
			"Product: Multi-functional Cosmetic Emulsifier",
			"CAS Number: 61789-40-0",
			"INCI Name: Cetearyl Alcohol (and) Cetearyl Glucoside",
			"",
			"REGULATORY STATUS:",
			"REACH Registration: 01-2119484862-27-0000",
			"EU Cosmetics Regulation 1223/2009: Approved",
			"China CSAR: Compliant with Annex 14",
			"FDA Status: GRAS for cosmetic use",
			"",
			"SAFETY DATA:",
			"MSDS: Available in English and local languages",
			"CMR Status: CMR-free certified",
			"Heavy Metals: All <10ppm",
		},
		{
			"CERTIFICATIONS AND ORIGIN:",
			"Country of Origin: Germany",
			"Vegan Status: Vegan certified",
			"Halal Status: Halal certified (expires 2025-06-30)",
			"Organic Status: Not organic",
			"GMO Status: GMO-free certified",
			"",
			"TECHNICAL DATA:",
			"Composition: 70% Cetearyl Alcohol, 30% Cetearyl Glucoside",
			"Certificate of Analysis: Batch COA-2024-001",
			"Manufacturing Date: 2024-01-15",
			"Shelf Life: 36 months",
			"Storage: Store in cool, dry place",
		},
	},
}

// Kinds returns the available sample kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(samples))
	for k := range samples {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

// Create writes the sample PDF for the given kind to outPath.
func Create(kind Kind, outPath string) error {
	pages, ok := samples[kind]
	if !ok {
		return fmt.Errorf("unknown sample kind %q (available: %v)", kind, Kinds())
	}

	doc := buildCreateDoc(pages)
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to build page description: %w", err)
	}

	tmp, err := os.CreateTemp("", "testpdf-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := api.CreateFile("", tmpName, outPath, nil); err != nil {
		return fmt.Errorf("failed to create PDF: %w", err)
	}
	return nil
}

// pdfcpu create-from-JSON primitives

type fontSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type textPrimitive struct {
	Value    string     `json:"value"`
	Position [2]float64 `json:"position"`
	Font     fontSpec   `json:"font"`
}

type pageContent struct {
	Text []textPrimitive `json:"text"`
}

type pageSpec struct {
	Content pageContent `json:"content"`
}

type createDoc struct {
	Pages map[string]pageSpec `json:"pages"`
}

func buildCreateDoc(pages [][]string) createDoc {
	doc := createDoc{Pages: make(map[string]pageSpec, len(pages))}

	for i, lines := range pages {
		var texts []textPrimitive
		y := 750.0
		for _, line := range lines {
			if line != "" {
				texts = append(texts, textPrimitive{
					Value:    line,
					Position: [2]float64{100, y},
					Font:     fontSpec{Name: "Helvetica", Size: 12},
				})
			}
			y -= 20
		}
		doc.Pages[fmt.Sprintf("%d", i+1)] = pageSpec{Content: pageContent{Text: texts}}
	}

	return doc
}
