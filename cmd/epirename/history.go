package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epirename/epirename/internal/audit"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [transaction-id]",
	Short: "Show past rename transactions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of transactions to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, store, err := openAudit(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if len(args) == 1 {
		return showTransaction(store, args[0])
	}

	records, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No rename history.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %-11s  %3d files  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.OpCount, r.ID)
		if r.Error != "" {
			fmt.Printf("    error: %s\n", r.Error)
		}
	}
	return nil
}

func showTransaction(store *audit.Store, id string) error {
	record, err := store.Get(id)
	if err != nil {
		return err
	}
	fmt.Printf("Transaction %s (%s, %d files)\n", record.ID, record.Status, record.OpCount)
	if record.Error != "" {
		fmt.Printf("Error: %s\n", record.Error)
	}

	ops, err := store.Operations(id)
	if err != nil {
		return err
	}
	for _, op := range ops {
		fmt.Printf("  [%d] %-11s %s\n        -> %s\n", op.OpIndex, op.Status, op.SourcePath, op.TargetPath)
		var d map[string]any
		if json.Unmarshal([]byte(op.Detail), &d) == nil {
			if method, ok := d["method"].(string); ok && method != "" {
				fmt.Printf("        (number via %s, confidence %v)\n", method, d["confidence"])
			}
		}
		if op.Error != "" {
			fmt.Printf("        error: %s\n", op.Error)
		}
	}
	return nil
}
