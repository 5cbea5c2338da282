// Package audit persists transaction history to SQLite: what was renamed,
// when, how each episode number was derived, and how each run ended. The
// history backs the `history` listing and undo-plan reconstruction.
package audit

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/epirename/epirename/internal/rename"
)

//go:embed schema.sql
var Schema string

// Transaction terminal states as stored.
const (
	StateRunning    = "running"
	StateCommitted  = "committed"
	StateRolledBack = "rolled_back"
	StateFailed     = "failed"
)

var ErrNotFound = errors.New("audit: not found")

// Store provides access to the audit tables.
type Store struct {
	db *sql.DB
}

// NewStore creates a new audit store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the audit tables if they do not exist.
func (s *Store) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("apply audit schema: %w", err)
	}
	return nil
}

// detail is the JSON payload stored per operation.
type detail struct {
	OriginalName string  `json:"original_name"`
	Number       *int    `json:"number,omitempty"`
	Season       *int    `json:"season,omitempty"`
	Episode      *int    `json:"episode,omitempty"`
	Confidence   float64 `json:"confidence"`
	Method       string  `json:"method,omitempty"`
}

// Begin records a transaction and its operations in the running state.
func (s *Store) Begin(tx *rename.Transaction) error {
	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	_, err = dbTx.Exec(`
		INSERT INTO transactions (id, started_at, status, op_count)
		VALUES (?, ?, ?, ?)`,
		tx.ID, time.Now().UTC(), StateRunning, len(tx.Ops),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	for i, op := range tx.Ops {
		payload, err := json.Marshal(detail{
			OriginalName: op.Meta.OriginalName,
			Number:       op.Meta.Number,
			Season:       op.Meta.Season,
			Episode:      op.Meta.Episode,
			Confidence:   op.Meta.Confidence,
			Method:       op.Meta.Method,
		})
		if err != nil {
			return fmt.Errorf("marshal operation detail: %w", err)
		}

		_, err = dbTx.Exec(`
			INSERT INTO operations (transaction_id, op_index, source_path, target_path, status, detail)
			VALUES (?, ?, ?, ?, ?, ?)`,
			tx.ID, i, op.SourcePath(), op.TargetPath, string(op.Status), string(payload),
		)
		if err != nil {
			return fmt.Errorf("insert operation %d: %w", i, err)
		}
	}

	return dbTx.Commit()
}

// Finish records the terminal state of a transaction and every operation.
// result nil means committed; a rollback that could not restore every file
// is recorded as failed, any other rolled-back run as rolled_back.
func (s *Store) Finish(tx *rename.Transaction, result error) error {
	state := StateCommitted
	errText := ""
	if result != nil {
		errText = result.Error()
		var rbErr *rename.RollbackError
		if errors.As(result, &rbErr) {
			state = StateFailed
		} else {
			state = StateRolledBack
		}
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	_, err = dbTx.Exec(`
		UPDATE transactions SET finished_at = ?, status = ?, error = ?
		WHERE id = ?`,
		time.Now().UTC(), state, errText, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	for i, op := range tx.Ops {
		_, err = dbTx.Exec(`
			UPDATE operations SET status = ?, error = ?
			WHERE transaction_id = ? AND op_index = ?`,
			string(op.Status), op.Err, tx.ID, i,
		)
		if err != nil {
			return fmt.Errorf("update operation %d: %w", i, err)
		}
	}

	return dbTx.Commit()
}

// Record is one persisted transaction.
type Record struct {
	ID         string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string
	OpCount    int
	Error      string
}

// OpRecord is one persisted operation.
type OpRecord struct {
	TransactionID string
	OpIndex       int
	SourcePath    string
	TargetPath    string
	Status        string
	Error         string
	Detail        string
}

// Recent returns the most recent transactions, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, status, op_count, error
		FROM transactions
		ORDER BY started_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.OpCount, &r.Error); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns one transaction by ID.
func (s *Store) Get(id string) (Record, error) {
	var r Record
	err := s.db.QueryRow(`
		SELECT id, started_at, finished_at, status, op_count, error
		FROM transactions WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.OpCount, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: transaction %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("query transaction: %w", err)
	}
	return r, nil
}

// Operations returns the operations of a transaction in commit order.
func (s *Store) Operations(id string) ([]OpRecord, error) {
	rows, err := s.db.Query(`
		SELECT transaction_id, op_index, source_path, target_path, status, error, detail
		FROM operations
		WHERE transaction_id = ?
		ORDER BY op_index ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var ops []OpRecord
	for rows.Next() {
		var o OpRecord
		if err := rows.Scan(&o.TransactionID, &o.OpIndex, &o.SourcePath, &o.TargetPath, &o.Status, &o.Error, &o.Detail); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		ops = append(ops, o)
	}
	return ops, rows.Err()
}

// LastCommitted returns the most recent committed transaction.
func (s *Store) LastCommitted() (Record, error) {
	var r Record
	err := s.db.QueryRow(`
		SELECT id, started_at, finished_at, status, op_count, error
		FROM transactions
		WHERE status = ?
		ORDER BY started_at DESC, id DESC
		LIMIT 1`,
		StateCommitted,
	).Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.OpCount, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: no committed transaction", ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("query last committed: %w", err)
	}
	return r, nil
}

// UndoStep is one rename that reverses a committed operation.
type UndoStep struct {
	From string // current path (the committed target)
	To   string // path to restore (the original source)
}

// UndoPlan reconstructs the reverse renames for a committed transaction,
// in reverse commit order. Only transactions that committed can be undone;
// anything else was already rolled back or never mutated the filesystem.
func (s *Store) UndoPlan(id string) ([]UndoStep, error) {
	record, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if record.Status != StateCommitted {
		return nil, fmt.Errorf("transaction %s is %s, only committed transactions can be undone", id, record.Status)
	}

	ops, err := s.Operations(id)
	if err != nil {
		return nil, err
	}

	steps := make([]UndoStep, 0, len(ops))
	for i := len(ops) - 1; i >= 0; i-- {
		steps = append(steps, UndoStep{From: ops[i].TargetPath, To: ops[i].SourcePath})
	}
	return steps, nil
}
