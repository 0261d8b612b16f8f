package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/app"
	"github.com/corey/shapegen/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	flagRoot     string
	flagLogLevel string
	flagLogJSON  bool

	// cfg is resolved by the root PersistentPreRunE for the running command.
	cfg *app.Config
)

var rootCmd = &cobra.Command{
	Use:   "shapegen",
	Short: "Default-method conflict resolution simulator",
	Long: "Enumerates class/interface hierarchies, resolves which declaration of a\n" +
		"single method every class inherits, and reports the hierarchies whose\n" +
		"defaults conflict.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// flagKeys maps configuration keys to the command flags that override them.
// Commands that lack a flag simply do not override the key.
var flagKeys = map[string]string{
	"log.level":       "log-level",
	"log.json":        "log-json",
	"provenance":      "provenance",
	"interface_depth": "depth",
	"catalog_dir":     "catalog",
}

// projectRoot returns --root, or the working directory.
func projectRoot() (string, error) {
	if flagRoot != "" {
		return flagRoot, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "working directory")
	}
	return dir, nil
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	v, err := app.NewViper(root)
	if err != nil {
		return err
	}
	if err := bindChangedFlags(v, cmd.Flags()); err != nil {
		return err
	}
	c, err := app.LoadConfig(v)
	if err != nil {
		return err
	}
	if err := logger.Initialize(c.Log.JSON, c.Log.Level); err != nil {
		return err
	}
	cfg = c
	logger.Logger.Debugw("config loaded", "file", c.File, logger.FieldPath, root)
	return nil
}

// bindChangedFlags lets explicitly set flags win over file and environment.
func bindChangedFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind --%s", name)
		}
	}
	return nil
}

// openApp creates the App for the project root with the resolved config.
func openApp() (*app.App, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	a, err := app.New(root, cfg)
	if err != nil {
		if isDBLockError(err) {
			return nil, errors.WithHint(err, diagnoseDBLock())
		}
		return nil, err
	}
	return a, nil
}

// Execute runs the root command and prints any error with its hints.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Project root (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Log as JSON to stderr")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}
