package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rvrstfn/extractor/internal/api"
	"github.com/rvrstfn/extractor/internal/schema"
)

var schemasDir string

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List and inspect extraction schemas",
}

var schemasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available schemas",
	Long: `List schemas in the schemas directory.

The directory defaults to ./schemas, falling back to ~/.extractor/schemas.
Invalid schema files are listed with their load error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveSchemasDir()
		if err != nil {
			return err
		}

		entries, err := schema.ListDir(dir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No schemas found in %s\n", dir)
			return nil
		}

		type row struct {
			Schema      string `json:"schema" yaml:"schema"`
			Name        string `json:"name,omitempty" yaml:"name,omitempty"`
			Description string `json:"description,omitempty" yaml:"description,omitempty"`
			Error       string `json:"error,omitempty" yaml:"error,omitempty"`
		}

		rows := make([]row, 0, len(entries))
		for _, e := range entries {
			r := row{Schema: e.Stem}
			if e.Error != "" {
				r.Error = e.Error
			} else if e.Info != nil {
				r.Name = e.Info.Name
				r.Description = e.Info.Description
			}
			rows = append(rows, r)
		}
		return api.Output(rows)
	},
}

var schemasInfoCmd = &cobra.Command{
	Use:   "info <schema.json>",
	Short: "Show schema details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schema.Load(args[0])
		if err != nil {
			return err
		}

		type requirementRow struct {
			Name        string   `json:"name" yaml:"name"`
			Description string   `json:"description" yaml:"description"`
			Required    bool     `json:"required" yaml:"required"`
			Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
		}
		type categoryRow struct {
			Category     string           `json:"category" yaml:"category"`
			Requirements []requirementRow `json:"requirements" yaml:"requirements"`
		}
		type infoOut struct {
			Name              string        `json:"name" yaml:"name"`
			Description       string        `json:"description" yaml:"description"`
			ExtractionClass   string        `json:"extraction_class" yaml:"extraction_class"`
			TotalRequirements int           `json:"total_requirements" yaml:"total_requirements"`
			Examples          int           `json:"examples" yaml:"examples"`
			Categories        []categoryRow `json:"categories" yaml:"categories"`
		}

		out := infoOut{
			Name:              s.Name,
			Description:       s.Description,
			ExtractionClass:   s.ExtractionClass(),
			TotalRequirements: s.TotalRequirements(),
			Examples:          len(s.Examples),
		}

		for _, catName := range s.CategoryNames() {
			cat := s.Categories[catName]
			cr := categoryRow{Category: catName}
			for _, reqName := range sortedKeys(cat) {
				req := cat[reqName]
				cr.Requirements = append(cr.Requirements, requirementRow{
					Name:        reqName,
					Description: req.Description,
					Required:    req.Required,
					Keywords:    req.Keywords,
				})
			}
			out.Categories = append(out.Categories, cr)
		}

		return api.Output(out)
	},
}

// resolveSchemasDir picks the schemas directory: the --dir flag, then
// ./schemas, then the home directory.
func resolveSchemasDir() (string, error) {
	if schemasDir != "" {
		return schemasDir, nil
	}
	if info, err := os.Stat("schemas"); err == nil && info.IsDir() {
		return "schemas", nil
	}
	h, err := getHome()
	if err != nil {
		return "", err
	}
	return h.SchemasPath(), nil
}

func sortedKeys(cat schema.Category) []string {
	names := make([]string, 0, len(cat))
	for name := range cat {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	schemasListCmd.Flags().StringVar(&schemasDir, "dir", "", "schemas directory (default: ./schemas or ~/.extractor/schemas)")
	schemasCmd.AddCommand(schemasListCmd, schemasInfoCmd)
}
