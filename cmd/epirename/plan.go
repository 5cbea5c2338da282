package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epirename/epirename/internal/config"
	"github.com/epirename/epirename/internal/episode"
	"github.com/epirename/epirename/internal/export"
	"github.com/epirename/epirename/internal/rename"
	"github.com/epirename/epirename/pkg/epname"
)

var (
	planCSV       string
	planTemplate  string
	planPadding   int
	planRenumber  int
	planRecursive bool
)

var planCmd = &cobra.Command{
	Use:   "plan <dir> [dir...]",
	Short: "Build a rename plan and report conflicts without touching files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planCSV, "csv", "", "Export the plan to a CSV file")
	planCmd.Flags().StringVar(&planTemplate, "template", "", "Target name template (overrides config)")
	planCmd.Flags().IntVar(&planPadding, "padding", -1, "Number padding width (overrides config)")
	planCmd.Flags().IntVar(&planRenumber, "renumber", 0, "Renumber sequentially starting at N")
	planCmd.Flags().BoolVarP(&planRecursive, "recursive", "r", false, "Scan subdirectories")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyPlanFlags(cmd, cfg)
	log := newLogger(cfg)

	tx, _, report, err := buildPlan(cmd.Context(), cfg, log, args, planRenumber)
	if err != nil {
		return err
	}

	printPlan(tx)
	printConflicts(report)

	if planCSV != "" {
		f, err := os.Create(planCSV)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		if err := export.WritePlan(f, tx); err != nil {
			return err
		}
		fmt.Printf("Exported plan to %s\n", planCSV)
	}

	if report.Blocking() {
		return fmt.Errorf("plan has blocking conflicts")
	}
	return nil
}

func applyPlanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("template") {
		cfg.Rename.Template = planTemplate
	}
	if cmd.Flags().Changed("padding") {
		cfg.Rename.Padding = planPadding
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Scan.Recursive = planRecursive
	}
}

// buildPlan scans the roots, sorts and optionally renumbers the metadata,
// builds the transaction, and runs conflict detection against it.
func buildPlan(ctx context.Context, cfg *config.Config, log *slog.Logger, roots []string, renumberFrom int) (*rename.Transaction, []episode.Metadata, *rename.Report, error) {
	scanner, err := newScanner(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	results, err := scanner.ScanAll(ctx, roots)
	if err != nil {
		return nil, nil, nil, err
	}

	var metas []episode.Metadata
	for _, r := range results {
		metas = append(metas, r.Metas...)
	}
	if len(metas) == 0 {
		return nil, nil, nil, fmt.Errorf("no matching files found")
	}

	metas = episode.Sort(metas)
	if renumberFrom > 0 {
		metas = episode.Renumber(metas, renumberFrom)
	}

	builder := rename.NewBuilder(cfg.Rename.Template, cfg.Rename.Padding, rename.SanitizerFunc(epname.CleanTitle))
	tx, err := builder.Build(metas)
	if err != nil {
		return nil, nil, nil, err
	}

	for i, op := range tx.Ops {
		v := epname.ValidateFilename(op.TargetName, filepath.Dir(op.TargetPath))
		if !v.OK {
			return nil, nil, nil, fmt.Errorf("entry %d: invalid target name %q: %s", i, op.TargetName, v.Problem)
		}
		for _, w := range v.Warnings {
			log.Warn("target name", "name", op.TargetName, "warning", w)
		}
	}

	return tx, metas, rename.Detect(tx, metas), nil
}

func printPlan(tx *rename.Transaction) {
	fmt.Printf("Plan (%d files):\n", len(tx.Ops))
	for _, op := range tx.Ops {
		if filepath.Base(op.SourcePath()) == op.TargetName {
			fmt.Printf("  = %s (unchanged)\n", op.TargetName)
			continue
		}
		fmt.Printf("  %s\n    -> %s\n", op.SourcePath(), op.TargetName)
	}
}

func printConflicts(r *rename.Report) {
	if r.Empty() {
		fmt.Println("No conflicts.")
		return
	}

	for _, g := range r.DuplicateTargets {
		fmt.Printf("CONFLICT: %d files map to %q\n", len(g.OpIndex), g.Name)
	}
	for _, c := range r.TargetCollisions {
		fmt.Printf("CONFLICT: target already exists: %s\n", c.ExistingPath)
	}
	for _, cycle := range r.CircularChains {
		fmt.Printf("note: circular rename chain over %d files (resolved by staging)\n", len(cycle))
	}
	if len(r.CaseOnlyChanges) > 0 {
		fmt.Printf("note: %d case-only renames (handled via intermediate names)\n", len(r.CaseOnlyChanges))
	}
	if len(r.NumberGaps) > 0 {
		gaps := make([]string, len(r.NumberGaps))
		for i, n := range r.NumberGaps {
			gaps[i] = fmt.Sprintf("%d", n)
		}
		fmt.Printf("warning: missing numbers: %s\n", strings.Join(gaps, ", "))
	}
	for _, g := range r.DuplicateNumbers {
		fmt.Printf("warning: %d files share number %d\n", len(g.MetaIndex), g.Number)
	}
	for _, o := range r.TitleOutliers {
		fmt.Printf("warning: title outlier at entry %d (best similarity %.2f)\n", o.MetaIndex, o.BestScore)
	}
}
