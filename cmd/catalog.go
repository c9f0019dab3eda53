package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/catalog"
	"github.com/zjrosen/strata/internal/catalog/sqlite"
	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/presentation"
)

var catalogJSON bool

var catalogListCmd = &cobra.Command{
	Use:   "catalog:list",
	Short: "List the panels in the configured catalog",
	Long: `List every panel definition the configured catalog backend provides.

Examples:
  # Table of builtin and user manifests
  strata catalog:list

  # JSON for scripting
  strata catalog:list --json | jq '.[].address'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		defs, closeStore, err := listCatalog(cmd, cfg.Catalog)
		if err != nil {
			return err
		}
		defer closeStore()

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		dtos := presentation.FromDefinitions(defs)
		if catalogJSON {
			return formatter.FormatDefinitionsJSON(dtos)
		}
		return formatter.FormatDefinitions(dtos)
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "catalog:import [dir]",
	Short: "Import manifests into the sqlite catalog",
	Long: `Copy the builtin panels plus every manifest in dir (default: the
configured manifest_dir) into the sqlite catalog at catalog.sqlite_path.
Existing addresses are overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Catalog.ManifestDir
		if len(args) == 1 {
			dir = args[0]
		}
		defs, err := loadManifests(dir)
		if err != nil {
			return err
		}

		db, err := sqlite.Open(cfg.Catalog.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening catalog database: %w", err)
		}
		defer func() { _ = db.Close() }()

		if err := db.Put(cmd.Context(), defs...); err != nil {
			return fmt.Errorf("importing manifests: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d panels into %s\n", len(defs), cfg.Catalog.SQLitePath)
		return err
	},
}

func init() {
	catalogListCmd.Flags().BoolVar(&catalogJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(catalogListCmd)
	rootCmd.AddCommand(catalogImportCmd)
}

// listCatalog reads definitions from the configured backend without starting
// a manager.
func listCatalog(cmd *cobra.Command, c config.CatalogConfig) ([]catalog.Definition, func(), error) {
	if c.Backend == config.BackendSQLite {
		db, err := sqlite.Open(c.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening catalog database: %w", err)
		}
		defs, err := db.List(cmd.Context())
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return defs, func() { _ = db.Close() }, nil
	}

	defs, err := loadManifests(c.ManifestDir)
	if err != nil {
		return nil, nil, err
	}
	defs, err = catalog.NewMemory(defs...).List(cmd.Context())
	return defs, func() {}, err
}
