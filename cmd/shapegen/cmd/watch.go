package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/shapegen/internal/app"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run generate whenever the catalog directory changes",
	Long: "Runs every corpus once, then again after each save to a YAML file in\n" +
		"the catalog directory. Malformed shapes are reported and watching goes\n" +
		"on. Stops on Ctrl-C.",
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addGeneratorFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, pterm.Info.Sprintf("watching %s", a.CatalogSource()))
	return a.Watch(ctx, func(rep *app.Report, err error) {
		if err != nil {
			fmt.Fprintln(out, pterm.Error.Sprint(formatError(err)))
			return
		}
		if err := printReport(cmd, rep, false); err != nil {
			fmt.Fprintln(out, pterm.Error.Sprint(err))
		}
	})
}
