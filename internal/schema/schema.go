// Package schema loads and validates user-authored extraction schemas.
//
// A schema is a JSON configuration enumerating the compliance facts the model
// should look for: categories of requirements, optional few-shot examples,
// and an output format hint. It is configuration, not a data model.
package schema

import "sort"

// Requirement is a single item the model should locate in a document.
type Requirement struct {
	Description string   `json:"description"`
	Required    bool     `json:"required,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Category maps requirement names to their definitions.
type Category map[string]Requirement

// ExampleExtraction is one expected extraction inside a few-shot example.
type ExampleExtraction struct {
	ExtractionClass string         `json:"extraction_class"`
	ExtractionText  string         `json:"extraction_text"`
	Attributes      map[string]any `json:"attributes,omitempty"`
}

// Example is a few-shot example steering the model toward the expected
// output structure.
type Example struct {
	Text        string              `json:"text"`
	Extractions []ExampleExtraction `json:"extractions"`
}

// OutputFormat describes the extraction class and attribute shape the model
// should emit.
type OutputFormat struct {
	ExtractionClass  string            `json:"extraction_class,omitempty"`
	AttributesSchema map[string]string `json:"attributes_schema,omitempty"`
}

// Schema is a complete extraction configuration.
type Schema struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Categories   map[string]Category `json:"categories"`
	Examples     []Example           `json:"examples,omitempty"`
	OutputFormat *OutputFormat       `json:"output_format,omitempty"`
}

// DefaultExtractionClass is used when a schema does not specify one.
const DefaultExtractionClass = "requirement"

// ExtractionClass returns the extraction class the model should use.
func (s *Schema) ExtractionClass() string {
	if s.OutputFormat != nil && s.OutputFormat.ExtractionClass != "" {
		return s.OutputFormat.ExtractionClass
	}
	return DefaultExtractionClass
}

// TotalRequirements counts requirements across all categories.
func (s *Schema) TotalRequirements() int {
	total := 0
	for _, items := range s.Categories {
		total += len(items)
	}
	return total
}

// CategoryNames returns category names in sorted order.
func (s *Schema) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info is a summary of a schema for listing and display.
type Info struct {
	Name              string   `json:"name" yaml:"name"`
	Description       string   `json:"description" yaml:"description"`
	Categories        []string `json:"categories" yaml:"categories"`
	TotalRequirements int      `json:"total_requirements" yaml:"total_requirements"`
}

// Info returns schema metadata.
func (s *Schema) Info() Info {
	return Info{
		Name:              s.Name,
		Description:       s.Description,
		Categories:        s.CategoryNames(),
		TotalRequirements: s.TotalRequirements(),
	}
}
