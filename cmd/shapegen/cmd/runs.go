package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/ports"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var runsJSON bool

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect persisted runs",
	Long:  "Lists saved generator runs, oldest first. See the show and rm subcommands.",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [ID|latest]",
	Short: "Show the tallies of a saved run (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunsShow,
}

var runsRmCmd = &cobra.Command{
	Use:   "rm ID...",
	Short: "Delete saved runs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRunsRm,
}

func init() {
	runsCmd.PersistentFlags().BoolVar(&runsJSON, "json", false, "Print as JSON")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsRmCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.Store.ListRuns()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if runsJSON {
		return writeJSON(out, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, pterm.Info.Sprint("no saved runs; try `shapegen generate`"))
		return nil
	}
	return renderTable(out, summaryRows(runs))
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id := "latest"
	if len(args) == 1 {
		id = args[0]
	}
	var run *ports.Run
	if id == "latest" {
		run, err = a.Store.LatestRun()
	} else {
		run, err = a.Store.LoadRun(id)
	}
	if err != nil {
		return err
	}
	if run == nil {
		return errors.WithHint(errors.Newf("no run %q", id), "list saved runs with `shapegen runs`")
	}

	out := cmd.OutOrStdout()
	if runsJSON {
		return writeJSON(out, run)
	}
	fmt.Fprintln(out, runHeader(run))
	return renderTable(out, tallyRows(run))
}

func runRunsRm(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	for _, id := range args {
		if err := a.Store.DeleteRun(id); err != nil {
			return errors.Wrapf(err, "delete run %s", id)
		}
		fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("removed %s", id))
	}
	return nil
}
