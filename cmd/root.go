package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/strata/internal/app"
	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/log"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin so the OSC 11
	// reply cannot leak into the input loop.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version    = "dev"
	cfgFile    string
	debugMode  bool
	cfg        config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "A layered terminal panel manager",
	Long: `strata loads panels from a catalog asynchronously, caches them and shows
them on stacked layers (bot, mid, top, system) with a back-navigation history.

Keys: q opens the attribute panel, w closes it, esc goes back, ? shows help.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .strata/config.yaml, then ~/.config/strata/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false,
		"write debug logs to .strata/debug.log and enable the log overlay")
}

// loadConfig reads configuration for every command. When no file exists a
// commented default is written to .strata/config.yaml.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if debugMode || os.Getenv("STRATA_DEBUG") != "" {
		debugMode = true
		if err := os.MkdirAll(filepath.Dir(debugLogPath), 0o750); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		if _, err := log.InitWithTeaLog(debugLogPath, "strata"); err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
	}

	var err error
	cfg, configPath, err = config.Load(viper.New(), cfgFile)
	if err != nil {
		return err
	}
	if configPath == "" {
		configPath = config.LocalConfigPath
		if err := config.WriteDefaultConfig(configPath); err != nil {
			log.Warn(log.CatConfig, "could not write default config", "error", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return nil
}

const debugLogPath = ".strata/debug.log"

func runApp(cmd *cobra.Command, _ []string) (err error) {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := newRuntime(ctx, cfg, runtimeOptions{watch: cfg.Catalog.Watch})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancelShutdown()
		if closeErr := rt.Close(shutdownCtx); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	model := app.New(app.Options{
		Manager:   rt.manager,
		Events:    rt.events,
		Catalog:   rt.store,
		Reload:    rt.Reload,
		Watch:     rt.watch,
		Flags:     rt.flags,
		FrameRate: cfg.FrameRate,
		Debug:     debugMode,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
