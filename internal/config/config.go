// Package config provides configuration types, defaults, loading and
// persistence for strata.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/layer"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/tracing"
)

// LocalConfigPath is checked before the user config directory.
const LocalConfigPath = ".strata/config.yaml"

// Catalog backends.
const (
	BackendManifest = "manifest"
	BackendSQLite   = "sqlite"
)

// Config holds all configuration options for strata.
type Config struct {
	Layers    []layer.Spec    `mapstructure:"layers"`
	Preload   []string        `mapstructure:"preload"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Loader    LoaderConfig    `mapstructure:"loader"`
	FrameRate int             `mapstructure:"frame_rate"` // host frames per second, drives Tick
	Strict    bool            `mapstructure:"strict"`     // panic on invariant violations
	Tracing   tracing.Config  `mapstructure:"tracing"`
	Flags     map[string]bool `mapstructure:"flags"`
}

// CatalogConfig selects where panel definitions come from.
type CatalogConfig struct {
	Backend     string `mapstructure:"backend"`      // "manifest" (default) or "sqlite"
	ManifestDir string `mapstructure:"manifest_dir"` // user manifests, merged over the built-ins
	SQLitePath  string `mapstructure:"sqlite_path"`  // required when backend=sqlite
	Watch       bool   `mapstructure:"watch"`        // reload manifests when they change
}

// LoaderConfig tunes asset loading.
type LoaderConfig struct {
	Latency       time.Duration `mapstructure:"latency"`        // simulated load delay
	DefinitionTTL time.Duration `mapstructure:"definition_ttl"` // how long definitions stay cached, 0 disables
	SlidingTTL    bool          `mapstructure:"sliding_ttl"`    // each cache hit restarts the ttl
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = ".strata/traces.jsonl"
	return Config{
		Layers:  layer.DefaultSpecs(),
		Preload: []string{"Panel_Attribute"},
		Catalog: CatalogConfig{
			Backend:     BackendManifest,
			ManifestDir: ".strata/panels",
			SQLitePath:  ".strata/catalog.db",
			Watch:       true,
		},
		Loader: LoaderConfig{
			Latency:       150 * time.Millisecond,
			DefinitionTTL: 10 * time.Minute,
			SlidingTTL:    true,
		},
		FrameRate: 30,
		Strict:    false,
		Tracing:   tr,
		Flags: map[string]bool{
			flags.FlagHistoryDedupe: false,
			flags.FlagLogOverlay:    false,
		},
	}
}

// SetDefaults registers every default with v so env overrides apply to all keys.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("layers", d.Layers)
	v.SetDefault("preload", d.Preload)
	v.SetDefault("catalog.backend", d.Catalog.Backend)
	v.SetDefault("catalog.manifest_dir", d.Catalog.ManifestDir)
	v.SetDefault("catalog.sqlite_path", d.Catalog.SQLitePath)
	v.SetDefault("catalog.watch", d.Catalog.Watch)
	v.SetDefault("loader.latency", d.Loader.Latency)
	v.SetDefault("loader.definition_ttl", d.Loader.DefinitionTTL)
	v.SetDefault("loader.sliding_ttl", d.Loader.SlidingTTL)
	v.SetDefault("frame_rate", d.FrameRate)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("flags", d.Flags)
}

// Load reads configuration into a Config.
//
// Lookup order: cfgFile when set, then .strata/config.yaml, then
// ~/.config/strata/config.yaml. A missing file is not an error. Environment
// variables prefixed STRATA_ override file values (STRATA_FRAME_RATE,
// STRATA_CATALOG_BACKEND, ...). Returns the file used, "" when none.
func Load(v *viper.Viper, cfgFile string) (Config, string, error) {
	SetDefaults(v)
	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
	case fileExists(LocalConfigPath):
		v.SetConfigFile(LocalConfigPath)
	default:
		if dir := UserConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Defaults(), "", fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Defaults(), "", fmt.Errorf("decoding config: %w", err)
	}
	log.Debug(log.CatConfig, "config loaded", "file", v.ConfigFileUsed())
	return cfg, v.ConfigFileUsed(), nil
}

// UserConfigDir returns ~/.config/strata, or "" if home is unknown.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "strata")
}

// Validate checks every section and returns the first problem.
func Validate(c Config) error {
	if err := layer.Validate(c.Layers); err != nil {
		return fmt.Errorf("layers: %w", err)
	}
	if err := ValidatePreload(c.Preload); err != nil {
		return err
	}
	if err := ValidateCatalog(c.Catalog); err != nil {
		return err
	}
	if err := ValidateLoader(c.Loader); err != nil {
		return err
	}
	if c.FrameRate < 1 || c.FrameRate > 240 {
		return fmt.Errorf("frame_rate must be between 1 and 240, got %d", c.FrameRate)
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	return nil
}

// ValidatePreload rejects blank addresses.
func ValidatePreload(addresses []string) error {
	for i, a := range addresses {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("preload[%d] is empty", i)
		}
	}
	return nil
}

// ValidateCatalog checks backend-specific requirements.
func ValidateCatalog(c CatalogConfig) error {
	switch c.Backend {
	case BackendManifest, "":
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("catalog.sqlite_path is required when backend is %q", BackendSQLite)
		}
	default:
		return fmt.Errorf("catalog.backend must be %q or %q, got %q", BackendManifest, BackendSQLite, c.Backend)
	}
	if c.Watch && c.Backend == BackendSQLite {
		log.Warn(log.CatConfig, "catalog.watch only applies to the manifest backend")
	}
	return nil
}

// ValidateLoader rejects negative durations.
func ValidateLoader(l LoaderConfig) error {
	if l.Latency < 0 {
		return fmt.Errorf("loader.latency must not be negative, got %s", l.Latency)
	}
	if l.DefinitionTTL < 0 {
		return fmt.Errorf("loader.definition_ttl must not be negative, got %s", l.DefinitionTTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as YAML with comments.
// Loading it yields Defaults().
func DefaultConfigTemplate() string {
	return `# Strata Configuration

# Layers, bottom to top. Panels on higher layers render above lower ones.
# placement: where the layer's panels sit (bottom, center, top)
layers:
  - name: bot
    placement: bottom
  - name: mid
    placement: center
  - name: top
    placement: top
  - name: system
    placement: center

# Panels loaded in the background at startup
preload:
  - Panel_Attribute

# Where panel definitions come from
catalog:
  backend: manifest              # manifest (default) or sqlite
  manifest_dir: .strata/panels   # *.yaml files merged over the built-in panels
  sqlite_path: .strata/catalog.db
  watch: true                    # reload manifests when they change

# Asset loading
loader:
  latency: 150ms                 # simulated load delay
  definition_ttl: 10m            # how long definitions stay cached (0 disables)
  sliding_ttl: true              # each cache hit restarts the ttl

# Host frames per second; each frame resumes finished loads and updates panels
frame_rate: 30

# Panic on invariant violations instead of logging them
strict: false

# Distributed tracing
tracing:
  enabled: false                 # Enable/disable tracing (default: false)
  exporter: file                 # none, file, stdout, otlp
  file_path: .strata/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: strata

# Feature flags
flags:
  history-dedupe: false          # re-opening a panel moves it to the top of the history
  log-overlay: false             # ctrl+x toggles the debug log overlay
`
}

// WriteDefaultConfig creates a config file at configPath with default settings
// and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
