package rename

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// outcome tags the result of one protocol phase. Rollback is driven by
// the orchestrator switching on these, not by unwinding through errors.
type outcome int

const (
	outcomeOK outcome = iota
	outcomeValidationFailed
	outcomeMutationFailed
	outcomeConsistencyViolation
)

// phaseResult carries a phase's outcome plus the operation it is
// attributable to (-1 when it is not attributable to one operation).
type phaseResult struct {
	outcome outcome
	opIndex int
	err     error
}

func phaseOK() phaseResult {
	return phaseResult{outcome: outcomeOK, opIndex: -1}
}

// ManagerConfig carries the optional collaborators of a Manager.
type ManagerConfig struct {
	Progress ProgressFunc // advisory telemetry sink, may be nil
	Audit    AuditLogger  // observational transaction log, may be nil
}

// Manager executes a built transaction against the real filesystem with
// all-or-nothing semantics. It is synchronous and single-use-at-a-time:
// the caller must not run two executions concurrently over overlapping
// files, and nothing else may touch operation state during Execute.
type Manager struct {
	log      *slog.Logger
	progress ProgressFunc
	audit    AuditLogger
	rename   renameFunc
}

// NewManager creates a manager. A nil logger falls back to slog.Default.
func NewManager(cfg ManagerConfig, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		log:      log,
		progress: cfg.Progress,
		audit:    cfg.Audit,
		rename:   renameFile,
	}
}

// Execute runs the two-phase-commit protocol over tx:
//
//	preflight -> stage -> checkpoint -> finalize -> commit
//
// Preflight failures abort before any mutation and need no rollback.
// Any later failure rolls back everything done so far. The returned error
// is nil on commit, a *TransactionError when the batch was fully rolled
// back, and a *RollbackError when rollback itself could not restore every
// file — the one unrecoverable case.
//
// ctx is checked at per-operation granularity during both mutation
// phases; cancellation mid-phase rolls back exactly like an error.
func (m *Manager) Execute(ctx context.Context, tx *Transaction) error {
	total := len(tx.Ops)
	m.log.Info("transaction started", "transaction_id", tx.ID, "operations", total)
	if m.audit != nil {
		m.audit.TransactionStarted(tx)
	}

	err := m.execute(ctx, tx)

	if m.audit != nil {
		m.audit.TransactionFinished(tx, err)
	}
	if err != nil {
		m.log.Error("transaction failed", "transaction_id", tx.ID, "error", err)
		return err
	}
	m.log.Info("transaction committed", "transaction_id", tx.ID, "operations", total)
	return nil
}

func (m *Manager) execute(ctx context.Context, tx *Transaction) error {
	total := len(tx.Ops)

	m.report(0, total, "Validating...")
	if res := m.preflight(tx); res.outcome != outcomeOK {
		// Nothing mutated yet; state is unchanged from pending.
		return &TransactionError{TransactionID: tx.ID, Phase: PhasePreflight, OpIndex: res.opIndex, Err: res.err}
	}

	m.report(0, total, "Phase 1: Staging...")
	if res := m.stage(ctx, tx); res.outcome != outcomeOK {
		return m.fail(tx, PhaseStage, res)
	}

	m.report(total, total, "Checkpoint...")
	if res := m.checkpoint(tx); res.outcome != outcomeOK {
		return m.fail(tx, PhaseCheckpoint, res)
	}

	m.report(0, total, "Phase 2: Finalizing...")
	if res := m.finalize(ctx, tx); res.outcome != outcomeOK {
		return m.fail(tx, PhaseFinalize, res)
	}

	if !tx.AllCompleted() {
		// Unreachable given per-operation handling above; treated as an
		// engine defect, not an environmental failure.
		res := phaseResult{
			outcome: outcomeConsistencyViolation,
			opIndex: -1,
			err:     &ConsistencyError{Detail: "commit reached with incomplete operations"},
		}
		return m.fail(tx, PhaseCommit, res)
	}

	m.report(total, total, "Complete!")
	return nil
}

// fail rolls the transaction back and wraps the phase failure. A rollback
// that cannot restore every file escalates to *RollbackError.
func (m *Manager) fail(tx *Transaction, phase Phase, res phaseResult) error {
	txErr := &TransactionError{TransactionID: tx.ID, Phase: phase, OpIndex: res.opIndex, Err: res.err}

	m.report(0, len(tx.Ops), fmt.Sprintf("Rolling back: %v", res.err))
	m.log.Warn("rolling back", "transaction_id", tx.ID, "phase", string(phase), "error", res.err)

	if unrestored := m.rollback(tx); len(unrestored) > 0 {
		return &RollbackError{TransactionID: tx.ID, Cause: txErr, Unrestored: unrestored}
	}
	return txErr
}

// preflight verifies every operation can proceed and assigns staging
// paths. It performs no mutation; any violation aborts the transaction
// with all operations still pending.
func (m *Manager) preflight(tx *Transaction) phaseResult {
	checkedDirs := make(map[string]bool)

	for i, op := range tx.Ops {
		src := op.SourcePath()

		info, err := os.Stat(src)
		if os.IsNotExist(err) {
			return phaseResult{outcome: outcomeValidationFailed, opIndex: i, err: fmt.Errorf("%w: %s", ErrSourceMissing, src)}
		}
		if err != nil {
			return phaseResult{outcome: outcomeValidationFailed, opIndex: i, err: fmt.Errorf("stat %s: %w", src, err)}
		}
		if !info.Mode().IsRegular() {
			return phaseResult{outcome: outcomeValidationFailed, opIndex: i, err: fmt.Errorf("%w: %s", ErrSourceNotFile, src)}
		}

		f, err := os.Open(src)
		if err != nil {
			return phaseResult{outcome: outcomeValidationFailed, opIndex: i, err: fmt.Errorf("%w: %s", ErrSourceNotReadable, src)}
		}
		_ = f.Close()

		targetDir := filepath.Dir(op.TargetPath)
		if !checkedDirs[targetDir] {
			if !isWritableDir(targetDir) {
				return phaseResult{outcome: outcomeValidationFailed, opIndex: i, err: fmt.Errorf("%w: %s", ErrTargetDirNotWritable, targetDir)}
			}
			checkedDirs[targetDir] = true
		}

		op.StagingPath = filepath.Join(targetDir, op.StagingName())
	}
	return phaseOK()
}

// stage renames every source to its staging path in transaction order.
// The first failure aborts the phase; operations after it stay pending.
func (m *Manager) stage(ctx context.Context, tx *Transaction) phaseResult {
	total := len(tx.Ops)
	for i, op := range tx.Ops {
		if err := ctx.Err(); err != nil {
			return phaseResult{outcome: outcomeMutationFailed, opIndex: i, err: err}
		}

		m.report(i, total, fmt.Sprintf("Staging %s...", op.Meta.OriginalName))
		if err := m.rename(op.SourcePath(), op.StagingPath); err != nil {
			op.Status = StatusFailed
			op.Err = err.Error()
			return phaseResult{outcome: outcomeMutationFailed, opIndex: i, err: err}
		}
		op.Status = StatusStaged
		m.log.Debug("staged", "transaction_id", tx.ID, "source", op.SourcePath(), "staging", op.StagingPath)
	}
	return phaseOK()
}

// checkpoint asserts that phase one left every operation staged with its
// staging file present. This is a correctness assertion, not a retry
// point; any violation is an engine defect that forces rollback.
func (m *Manager) checkpoint(tx *Transaction) phaseResult {
	for i, op := range tx.Ops {
		if op.Status != StatusStaged {
			return phaseResult{
				outcome: outcomeConsistencyViolation,
				opIndex: i,
				err:     &ConsistencyError{Detail: fmt.Sprintf("operation %d not staged after phase one (status %s)", i, op.Status)},
			}
		}
		if _, err := os.Lstat(op.StagingPath); err != nil {
			return phaseResult{
				outcome: outcomeConsistencyViolation,
				opIndex: i,
				err:     &ConsistencyError{Detail: fmt.Sprintf("staging file missing: %s", op.StagingPath)},
			}
		}
	}
	return phaseOK()
}

// finalize renames every staged file to its final target in transaction
// order. Every rename here is collision-free by construction: no real
// file in the batch occupies a staging name.
func (m *Manager) finalize(ctx context.Context, tx *Transaction) phaseResult {
	total := len(tx.Ops)
	for i, op := range tx.Ops {
		if err := ctx.Err(); err != nil {
			return phaseResult{outcome: outcomeMutationFailed, opIndex: i, err: err}
		}

		m.report(i, total, fmt.Sprintf("Finalizing %s...", op.TargetName))
		if err := m.rename(op.StagingPath, op.TargetPath); err != nil {
			op.Status = StatusFailed
			op.Err = err.Error()
			return phaseResult{outcome: outcomeMutationFailed, opIndex: i, err: err}
		}
		op.Status = StatusCompleted
		m.log.Debug("finalized", "transaction_id", tx.ID, "staging", op.StagingPath, "target", op.TargetPath)
	}
	return phaseOK()
}

// rollback restores prior state best-effort: completed operations move
// target back to staging, staged operations move staging back to source,
// and surviving staging files are deleted. Individual restore failures
// are logged and do not stop the rest of the rollback; the returned slice
// lists files that could not be restored, which the caller escalates as
// unrecoverable.
func (m *Manager) rollback(tx *Transaction) []string {
	var unrestored []string

	// Reverse phase two: target -> staging.
	for i, op := range tx.Ops {
		if op.Status != StatusCompleted {
			continue
		}
		if _, err := os.Lstat(op.TargetPath); err != nil {
			continue
		}
		if err := m.rename(op.TargetPath, op.StagingPath); err != nil {
			m.log.Warn("rollback: restore to staging failed", "transaction_id", tx.ID, "op", i, "target", op.TargetPath, "error", err)
			unrestored = append(unrestored, op.TargetPath)
			continue
		}
		op.Status = StatusStaged
	}

	// Reverse phase one: staging -> source, then delete any staging file
	// that still survives. An operation that failed mid-finalize still has
	// its data under the staging name, so failed operations are restored
	// too. A staging file we failed to move back is the only copy of the
	// user's data, so it is reported, never deleted.
	for i, op := range tx.Ops {
		restoreFailed := false
		if (op.Status == StatusStaged || op.Status == StatusFailed) && op.StagingPath != "" {
			if _, err := os.Lstat(op.StagingPath); err == nil {
				if err := m.rename(op.StagingPath, op.SourcePath()); err != nil {
					m.log.Warn("rollback: restore to source failed", "transaction_id", tx.ID, "op", i, "staging", op.StagingPath, "error", err)
					unrestored = append(unrestored, op.StagingPath)
					restoreFailed = true
				} else if op.Status == StatusStaged {
					op.Status = StatusRolledBack
				}
			}
		}

		if op.StagingPath != "" && !restoreFailed {
			if _, err := os.Lstat(op.StagingPath); err == nil {
				if err := os.Remove(op.StagingPath); err != nil {
					m.log.Warn("rollback: orphaned staging file not removed", "transaction_id", tx.ID, "path", op.StagingPath, "error", err)
				}
			}
		}
	}

	return unrestored
}

func (m *Manager) report(current, total int, message string) {
	if m.progress != nil {
		m.progress(current, total, message)
	}
}
