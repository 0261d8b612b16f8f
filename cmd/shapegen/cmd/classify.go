package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var classifyClasses bool

var classifyCmd = &cobra.Command{
	Use:   "classify SHAPE",
	Short: "Classify every hierarchy of one shape",
	Long: "Enumerates every valid kind assignment of SHAPE and prints, per\n" +
		"hierarchy, its name, kinds, verdict, the declaration the root resolves\n" +
		"to and the classes that need a synthesized forwarding method.\n\n" +
		"Example:  shapegen classify 'A(B(d)c(d))' --classes",
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyClasses, "classes", false, "Let uppercase letters become classes")
	classifyCmd.Flags().String("provenance", "most-specific", "Provenance filter: most-specific or literal")
}

func runClassify(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	hs, err := a.Classify(args[0], classifyClasses)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := renderTable(out, classifyRows(hs)); err != nil {
		return err
	}

	legal, conflicts := 0, 0
	for _, h := range hs {
		switch verdict(h) {
		case "ok":
			legal++
		case "error":
			conflicts++
		}
	}
	fmt.Fprintf(out, "%d hierarchies │ %d ok │ %d error\n", len(hs), legal, conflicts)
	return nil
}
