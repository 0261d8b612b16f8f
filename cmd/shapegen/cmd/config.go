package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/corey/shapegen/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: "Shows the resolved configuration (defaults < shapegen.toml < SHAPEGEN_*\n" +
		"environment < flags) and the project paths. Opens nothing.",
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	printConfig(cmd.OutOrStdout(), root, cfg)
	return nil
}

func printConfig(w io.Writer, root string, c *app.Config) {
	p := app.NewPaths(root)
	file := c.File
	if file == "" {
		file = "(none)"
	}
	catalog := c.CatalogDir
	if catalog == "" {
		catalog = "(embedded)"
	} else {
		catalog = p.Resolve(catalog)
	}

	fmt.Fprintln(w, "shapegen config")
	fmt.Fprintf(w, "  Root:        %s\n", root)
	fmt.Fprintf(w, "  File:        %s\n", file)
	fmt.Fprintf(w, "  DB:          %s\n", p.Resolve(c.DBPath))
	fmt.Fprintf(w, "  Catalog:     %s\n", catalog)
	fmt.Fprintf(w, "  Provenance:  %s\n", c.Provenance)
	fmt.Fprintf(w, "  Depth:       %d\n", c.InterfaceDepth)
	fmt.Fprintf(w, "  Persist:     %s\n", strconv.FormatBool(c.Persist))
	fmt.Fprintf(w, "  Log:         %s (json=%t)\n", c.Log.Level, c.Log.JSON)
	fmt.Fprintf(w, "  Emit dir:    %s\n", p.EmitDir)
}
