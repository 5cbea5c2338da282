package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/epirename/epirename/internal/audit"
	"github.com/epirename/epirename/internal/config"
	"github.com/epirename/epirename/internal/scan"
)

var version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "epirename",
	Short: "Atomic batch renamer for episode files",
	Long: `epirename - atomic batch renamer for episode files

Scans directories for episodes, extracts numbering from filenames,
and renames whole batches in one all-or-nothing transaction with
automatic rollback on failure.

Run 'epirename plan <dir>' to preview before renaming.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("epirename {{.Version}}\n")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("epirename %s\n", version)
		},
	})
}

// loadConfig resolves the configuration: the --config flag, then the
// discovery search order, then built-in defaults when no file exists.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			cfg := config.Default()
			applyLogOverride(cfg)
			return cfg, nil
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: path, Errors: errs}
	}
	applyLogOverride(cfg)
	return cfg, nil
}

func applyLogOverride(cfg *config.Config) {
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
}

func newScanner(cfg *config.Config, log *slog.Logger) (*scan.Scanner, error) {
	return scan.New(scan.Options{
		Preset:        cfg.Scan.Preset,
		Extensions:    cfg.Scan.Extensions,
		Recursive:     cfg.Scan.Recursive,
		MaxDepth:      cfg.Scan.MaxDepth,
		IncludeHidden: cfg.Scan.IncludeHidden,
	}, log)
}

// openAudit opens the history database, creating it on first use.
// The caller owns the returned handle.
func openAudit(cfg *config.Config) (*sql.DB, *audit.Store, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	store := audit.NewStore(db)
	if err := store.Init(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, store, nil
}
