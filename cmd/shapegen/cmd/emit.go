package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	emitClasses bool
	emitWrite   bool
)

var emitCmd = &cobra.Command{
	Use:   "emit SHAPE",
	Short: "Print the declarations of every hierarchy of one shape as YAML",
	Long: "Classifies every hierarchy of SHAPE and prints one YAML document with\n" +
		"the declarations a source emitter needs: names, supertypes, method\n" +
		"presence, resolution and defenders. --write stores it under .shapegen/emit/.",
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().BoolVar(&emitClasses, "classes", false, "Let uppercase letters become classes")
	emitCmd.Flags().BoolVar(&emitWrite, "write", false, "Write to .shapegen/emit/ instead of stdout")
	emitCmd.Flags().String("provenance", "most-specific", "Provenance filter: most-specific or literal")
}

func runEmit(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if emitWrite {
		path, err := a.WriteEmit(args[0], emitClasses)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, pterm.Success.Sprintf("wrote %s", path))
		return nil
	}

	doc, err := a.EmitDoc(args[0], emitClasses)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
