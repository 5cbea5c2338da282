package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/epirename/epirename/internal/config"
	"github.com/epirename/epirename/internal/episode"
	"github.com/epirename/epirename/internal/export"
)

var (
	scanCSV       string
	scanRecursive bool
	scanPreset    string
	scanExts      []string
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir> [dir...]",
	Short: "Scan directories and show extracted numbering",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanCSV, "csv", "", "Export results to a CSV file")
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "Scan subdirectories")
	scanCmd.Flags().StringVar(&scanPreset, "preset", "", "Extension preset (video, audio, docs, all)")
	scanCmd.Flags().StringSliceVar(&scanExts, "ext", nil, "Explicit extensions (overrides preset)")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyScanFlags(cmd, cfg)
	log := newLogger(cfg)

	scanner, err := newScanner(cfg, log)
	if err != nil {
		return err
	}

	results, err := scanner.ScanAll(cmd.Context(), args)
	if err != nil {
		return err
	}

	var all []episode.Metadata
	for _, r := range results {
		fmt.Printf("%s: %d matched, %d skipped (%d staging leftovers)\n",
			r.Root, r.Stats.Matched,
			r.Stats.Files-r.Stats.Matched, r.Stats.SkippedStaging)
		for _, m := range r.Metas {
			fmt.Printf("  %4s  %.2f  %-18s %s\n",
				optNum(m.Number), m.Confidence, orNone(m.Method), m.OriginalName)
		}
		all = append(all, r.Metas...)
	}

	if scanCSV != "" {
		f, err := os.Create(scanCSV)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		if err := export.WritePreview(f, all); err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", len(all), scanCSV)
	}
	return nil
}

// applyScanFlags lets command flags override the configured scan options.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("recursive") {
		cfg.Scan.Recursive = scanRecursive
	}
	if cmd.Flags().Changed("preset") {
		cfg.Scan.Preset = scanPreset
		cfg.Scan.Extensions = nil
	}
	if cmd.Flags().Changed("ext") {
		cfg.Scan.Extensions = scanExts
	}
}

func optNum(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func orNone(s string) string {
	if s == "" {
		return "(no match)"
	}
	return s
}
