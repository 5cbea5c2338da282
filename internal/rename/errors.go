package rename

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTargetExists indicates a rename would overwrite an existing file.
	ErrTargetExists = errors.New("target already exists")

	// ErrSourceMissing indicates a source file disappeared before execution.
	ErrSourceMissing = errors.New("source file not found")

	// ErrSourceNotFile indicates the source path is not a regular file.
	ErrSourceNotFile = errors.New("source is not a regular file")

	// ErrSourceNotReadable indicates the source file cannot be read.
	ErrSourceNotReadable = errors.New("source file not readable")

	// ErrTargetDirNotWritable indicates the target directory refuses writes.
	ErrTargetDirNotWritable = errors.New("target directory not writable")

	// ErrTemplateInvalid indicates a naming template failed validation.
	ErrTemplateInvalid = errors.New("invalid naming template")
)

// Phase identifies where in the protocol a transaction failure occurred.
type Phase string

const (
	PhasePreflight  Phase = "preflight"
	PhaseStage      Phase = "stage"
	PhaseCheckpoint Phase = "checkpoint"
	PhaseFinalize   Phase = "finalize"
	PhaseCommit     Phase = "commit"
)

// TransactionError reports a failed transaction that was fully rolled
// back. OpIndex is -1 when the failure is not attributable to a single
// operation.
type TransactionError struct {
	TransactionID string
	Phase         Phase
	OpIndex       int
	Err           error
}

func (e *TransactionError) Error() string {
	if e.OpIndex < 0 {
		return fmt.Sprintf("transaction %s: %s: %v", e.TransactionID, e.Phase, e.Err)
	}
	return fmt.Sprintf("transaction %s: %s: operation %d: %v", e.TransactionID, e.Phase, e.OpIndex, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// ConsistencyError marks a checkpoint or commit invariant violation.
// These indicate engine misbehavior rather than environmental failure.
type ConsistencyError struct {
	Detail string
}

func (e *ConsistencyError) Error() string {
	return "consistency violation: " + e.Detail
}

// RollbackError is the one unrecoverable failure mode: rollback could not
// restore every mutated file. Unrestored lists the paths whose on-disk
// state is now unknown.
type RollbackError struct {
	TransactionID string
	Cause         error // the failure that triggered the rollback
	Unrestored    []string
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf(
		"transaction %s: rollback incomplete after %v; files in unknown state: %s",
		e.TransactionID, e.Cause, strings.Join(e.Unrestored, ", "),
	)
}

func (e *RollbackError) Unwrap() error { return e.Cause }
