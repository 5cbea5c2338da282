package rename

//go:generate mockgen -source=progress.go -destination=mocks/mock_audit.go -package=mocks

// ProgressFunc receives advisory telemetry after each discrete step of a
// transaction: validation start, each staged file, each finalized file,
// completion, rollback start. Implementations must not block for long and
// must not panic; progress is not part of transaction correctness.
type ProgressFunc func(current, total int, message string)

// AuditLogger receives a structured record of transaction execution for
// external persistence. Implementations are purely observational: the
// engine does not depend on them for correctness, and errors they
// encounter must be handled internally.
type AuditLogger interface {
	// TransactionStarted is called once at the start of execution,
	// before preflight and before any filesystem mutation.
	TransactionStarted(tx *Transaction)

	// TransactionFinished is called exactly once per execution with the
	// final state of every operation. result is nil on commit, otherwise
	// the transaction-level error.
	TransactionFinished(tx *Transaction, result error)
}
