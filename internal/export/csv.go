// Package export writes scan previews, rename plans, and post-run reports
// as CSV for inspection in spreadsheets or diff tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/epirename/epirename/internal/episode"
	"github.com/epirename/epirename/internal/rename"
)

// WritePreview exports scanned metadata: one row per file with everything
// the parser extracted.
func WritePreview(w io.Writer, metas []episode.Metadata) error {
	cw := csv.NewWriter(w)
	header := []string{"original_name", "number", "season", "episode", "confidence", "method", "cleaned_title", "source_path"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, m := range metas {
		row := []string{
			m.OriginalName,
			optInt(m.Number),
			optInt(m.Season),
			optInt(m.Episode),
			strconv.FormatFloat(m.Confidence, 'f', 2, 64),
			m.Method,
			m.CleanedTitle,
			m.SourcePath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePlan exports a built transaction as before/after pairs.
func WritePlan(w io.Writer, tx *rename.Transaction) error {
	cw := csv.NewWriter(w)
	header := []string{"index", "source_path", "target_name", "target_path"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, op := range tx.Ops {
		row := []string{
			strconv.Itoa(i),
			op.SourcePath(),
			op.TargetName,
			op.TargetPath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteReport exports the final state of an executed transaction, one row
// per operation with its terminal status and any failure detail.
func WriteReport(w io.Writer, tx *rename.Transaction) error {
	cw := csv.NewWriter(w)
	header := []string{"transaction_id", "index", "source_path", "target_path", "status", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, op := range tx.Ops {
		row := []string{
			tx.ID,
			strconv.Itoa(i),
			op.SourcePath(),
			op.TargetPath,
			string(op.Status),
			op.Err,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
