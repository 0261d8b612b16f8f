package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the shape catalog",
	Long: "Lists every catalog shape with the number of valid hierarchies it\n" +
		"enumerates to, without and with classes.",
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().String("catalog", "", "Catalog directory (default: embedded catalog)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.Catalog()
	if err != nil {
		return err
	}

	rows := [][]string{{"name", "shape", "file", "interfaces", "classes", "note"}}
	for _, e := range entries {
		tpl, err := e.Template()
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			e.Name,
			e.Shape,
			e.File,
			strconv.Itoa(len(tpl.Cases(false))),
			strconv.Itoa(len(tpl.Cases(true))),
			e.Note,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "catalog: %s\n", a.CatalogSource())
	return renderTable(out, rows)
}
