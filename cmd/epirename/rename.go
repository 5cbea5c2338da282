package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epirename/epirename/internal/audit"
	"github.com/epirename/epirename/internal/export"
	"github.com/epirename/epirename/internal/rename"
)

var (
	renameForce     bool
	renameYes       bool
	renameReportCSV string
	renameRenumber  int
	renameTemplate  string
	renamePadding   int
	renameRecursive bool
)

var renameCmd = &cobra.Command{
	Use:   "rename <dir> [dir...]",
	Short: "Rename a batch atomically, rolling back on any failure",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRename,
}

func init() {
	renameCmd.Flags().BoolVar(&renameForce, "force", false, "Proceed despite blocking conflicts")
	renameCmd.Flags().BoolVarP(&renameYes, "yes", "y", false, "Skip the confirmation prompt")
	renameCmd.Flags().StringVar(&renameReportCSV, "report", "", "Write a post-run CSV report")
	renameCmd.Flags().IntVar(&renameRenumber, "renumber", 0, "Renumber sequentially starting at N")
	renameCmd.Flags().StringVar(&renameTemplate, "template", "", "Target name template (overrides config)")
	renameCmd.Flags().IntVar(&renamePadding, "padding", -1, "Number padding width (overrides config)")
	renameCmd.Flags().BoolVarP(&renameRecursive, "recursive", "r", false, "Scan subdirectories")

	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("template") {
		cfg.Rename.Template = renameTemplate
	}
	if cmd.Flags().Changed("padding") {
		cfg.Rename.Padding = renamePadding
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Scan.Recursive = renameRecursive
	}
	log := newLogger(cfg)

	tx, _, report, err := buildPlan(cmd.Context(), cfg, log, args, renameRenumber)
	if err != nil {
		return err
	}

	printPlan(tx)
	printConflicts(report)

	if report.Blocking() && !renameForce {
		return fmt.Errorf("blocking conflicts found, rerun with --force to attempt anyway")
	}
	if !renameYes && !confirm(fmt.Sprintf("Rename %d files?", len(tx.Ops))) {
		fmt.Println("Aborted.")
		return nil
	}

	// History is best effort: a broken database must not stop a rename.
	var auditLogger rename.AuditLogger
	db, store, err := openAudit(cfg)
	if err != nil {
		log.Warn("history disabled", "error", err)
	} else {
		defer func() { _ = db.Close() }()
		auditLogger = audit.NewRecorder(store, log)
	}

	m := rename.NewManager(rename.ManagerConfig{
		Progress: printProgress,
		Audit:    auditLogger,
	}, log)

	execErr := m.Execute(cmd.Context(), tx)

	if renameReportCSV != "" {
		if f, cerr := os.Create(renameReportCSV); cerr == nil {
			if werr := export.WriteReport(f, tx); werr != nil {
				log.Warn("report export failed", "error", werr)
			}
			_ = f.Close()
		} else {
			log.Warn("report export failed", "error", cerr)
		}
	}

	if execErr != nil {
		var rbErr *rename.RollbackError
		if errors.As(execErr, &rbErr) {
			fmt.Fprintln(os.Stderr, "UNRECOVERABLE: rollback could not restore these files:")
			for _, path := range rbErr.Unrestored {
				fmt.Fprintf(os.Stderr, "  %s\n", path)
			}
		}
		return execErr
	}

	fmt.Printf("Renamed %d files (transaction %s).\n", len(tx.Ops), tx.ID)
	return nil
}

func printProgress(current, total int, message string) {
	fmt.Printf("  [%d/%d] %s\n", current, total, message)
}

// confirm asks a y/N question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
