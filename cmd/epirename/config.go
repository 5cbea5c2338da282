package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epirename/epirename/internal/config"
	"github.com/epirename/epirename/internal/rename"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate a configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented example configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Printf("Validating %s...\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	errs := cfg.Validate()

	// The template deserves a real syntax check, not just non-emptiness.
	var f rename.Formatter
	if err := f.Validate(cfg.Rename.Template); err != nil {
		errs = append(errs, fmt.Sprintf("rename.template: %v", err))
	}

	if len(errs) > 0 {
		return &config.ConfigError{Path: path, Errors: errs}
	}

	fmt.Println("Configuration Summary:")
	fmt.Printf("  Template:  %q (padding %d)\n", cfg.Rename.Template, cfg.Rename.Padding)
	if len(cfg.Scan.Extensions) > 0 {
		fmt.Printf("  Scan:      extensions %s\n", strings.Join(cfg.Scan.Extensions, ", "))
	} else {
		fmt.Printf("  Scan:      preset %s\n", cfg.Scan.Preset)
	}
	fmt.Printf("  Database:  %s\n", cfg.Database.Path)
	fmt.Printf("  Log level: %s\n", cfg.Log.Level)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "./epirename.toml"
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
