package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/epirename/epirename/internal/audit"
	"github.com/epirename/epirename/internal/episode"
	"github.com/epirename/epirename/internal/rename"
)

var undoYes bool

var undoCmd = &cobra.Command{
	Use:   "undo [transaction-id]",
	Short: "Reverse a committed transaction (the most recent by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUndo,
}

func init() {
	undoCmd.Flags().BoolVarP(&undoYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	db, store, err := openAudit(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	id := ""
	if len(args) == 1 {
		id = args[0]
	} else {
		record, err := store.LastCommitted()
		if err != nil {
			return err
		}
		id = record.ID
	}

	steps, err := store.UndoPlan(id)
	if err != nil {
		return err
	}

	tx, err := undoTransaction(steps)
	if err != nil {
		return err
	}

	fmt.Printf("Undo of transaction %s (%d files):\n", id, len(tx.Ops))
	printPlan(tx)
	if !undoYes && !confirm("Proceed?") {
		fmt.Println("Aborted.")
		return nil
	}

	m := rename.NewManager(rename.ManagerConfig{
		Progress: printProgress,
		Audit:    audit.NewRecorder(store, log),
	}, log)
	if err := m.Execute(cmd.Context(), tx); err != nil {
		return err
	}

	fmt.Printf("Restored %d files (transaction %s).\n", len(tx.Ops), tx.ID)
	return nil
}

// undoTransaction turns reverse-rename steps into an executable transaction.
// The undo runs under the same two-phase protocol as a forward rename.
func undoTransaction(steps []audit.UndoStep) (*rename.Transaction, error) {
	tx := rename.NewTransaction()
	for _, step := range steps {
		name := filepath.Base(step.From)
		m, err := episode.New(name, step.From, 0)
		if err != nil {
			return nil, err
		}
		m.Extension = filepath.Ext(name)

		tx.Add(&rename.Operation{
			Meta:       m,
			TargetName: filepath.Base(step.To),
			TargetPath: step.To,
		})
	}
	return tx, nil
}
