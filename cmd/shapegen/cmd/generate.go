package cmd

import (
	"fmt"

	"github.com/corey/shapegen/internal/app"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	generateNoSave bool
	generateJSON   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run every corpus and report the tallies",
	Long: "Builds the exhaustive interface and class corpora plus both enumerations\n" +
		"of every catalog shape, classifies each hierarchy and prints per-corpus\n" +
		"counts. The run is saved as the latest unless --no-save is given.",
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateNoSave, "no-save", false, "Do not persist the run")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the full run as JSON")
	addGeneratorFlags(generateCmd)
}

// addGeneratorFlags registers the flags that override generator config keys.
func addGeneratorFlags(c *cobra.Command) {
	c.Flags().String("provenance", "most-specific", "Provenance filter: most-specific or literal")
	c.Flags().Int("depth", 2, "Exhaustive interface lattice depth")
	c.Flags().String("catalog", "", "Catalog directory (default: embedded catalog)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateNoSave {
		cfg.Persist = false
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Generate(cmd.Context())
	if err != nil {
		return err
	}
	return printReport(cmd, rep, generateJSON)
}

func printReport(cmd *cobra.Command, rep *app.Report, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, rep.Run)
	}
	fmt.Fprintln(out, runHeader(rep.Run))
	if err := renderTable(out, tallyRows(rep.Run)); err != nil {
		return err
	}
	if rep.Saved {
		fmt.Fprintln(out, pterm.Success.Sprintf("saved run %s", rep.Run.ID))
	}
	return nil
}
