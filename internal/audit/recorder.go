package audit

import (
	"log/slog"

	"github.com/epirename/epirename/internal/rename"
)

// Recorder adapts Store to the transaction manager's audit hook. Storage
// failures are logged and swallowed: losing a history row must never stop
// a rename that is already in flight.
type Recorder struct {
	store *Store
	log   *slog.Logger
}

// NewRecorder creates a recorder. A nil logger falls back to slog.Default.
func NewRecorder(store *Store, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{store: store, log: log}
}

var _ rename.AuditLogger = (*Recorder)(nil)

func (r *Recorder) TransactionStarted(tx *rename.Transaction) {
	if err := r.store.Begin(tx); err != nil {
		r.log.Warn("audit: record transaction start failed", "transaction_id", tx.ID, "error", err)
	}
}

func (r *Recorder) TransactionFinished(tx *rename.Transaction, result error) {
	if err := r.store.Finish(tx, result); err != nil {
		r.log.Warn("audit: record transaction finish failed", "transaction_id", tx.ID, "error", err)
	}
}
