package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/presentation"
)

var flagJSON bool

var flagListCmd = &cobra.Command{
	Use:   "flag:list",
	Short: "Show feature flags and their current values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		all := flags.New(cfg.Flags).All()
		for _, name := range flags.Known() {
			if _, ok := all[name]; !ok {
				all[name] = false
			}
		}
		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		if flagJSON {
			return formatter.FormatFlagsJSON(presentation.FromFlags(all))
		}
		return formatter.FormatFlags(presentation.FromFlags(all))
	},
}

var flagSetCmd = &cobra.Command{
	Use:   "flag:set <name> <true|false>",
	Short: "Enable or disable a feature flag in the config file",
	Long: `Write a feature flag to the config file in use, keeping its comments.

Known flags:
  history-dedupe  re-opening a visible panel moves its history entry to the top
  log-overlay     enable the ctrl+x debug log overlay`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !slices.Contains(flags.Known(), name) {
			msg := fmt.Sprintf("unknown flag %q", name)
			if s := catalog.Suggest(name, flags.Known(), 1); len(s) > 0 {
				msg += fmt.Sprintf(" (did you mean %q?)", s[0])
			}
			return errors.New(msg)
		}
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("flag value must be true or false, got %q", args[1])
		}

		if err := config.SaveFlag(configPath, name, enabled); err != nil {
			return fmt.Errorf("saving flag: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s=%t written to %s\n", name, enabled, configPath)
		return err
	},
}

func init() {
	flagListCmd.Flags().BoolVar(&flagJSON, "json", false, "print JSON")
	rootCmd.AddCommand(flagListCmd)
	rootCmd.AddCommand(flagSetCmd)
}
