package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvrstfn/extractor/internal/testpdf"
)

var genTestdataCmd = &cobra.Command{
	Use:   "gen-testdata <kind> [output.pdf]",
	Short: "Generate a sample compliance PDF",
	Long: fmt.Sprintf(`Generate a small sample PDF for trying out schemas.

Available kinds: %s

The comprehensive sample spans two pages and exercises page attribution.

Examples:
  extractor gen-testdata material
  extractor gen-testdata comprehensive test_comprehensive.pdf`,
		strings.Join(testpdf.Kinds(), ", ")),
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := testpdf.Kind(args[0])

		out := fmt.Sprintf("test_%s.pdf", args[0])
		if len(args) == 2 {
			out = args[1]
		}

		if err := testpdf.Create(kind, out); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", out)
		return nil
	},
}
