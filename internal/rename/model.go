// Package rename implements the atomic batch-rename engine: the
// operation/transaction model, conflict detection, transaction building,
// and two-phase-commit execution with rollback.
package rename

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/epirename/epirename/internal/episode"
)

// Status tracks where an operation is in the two-phase protocol.
type Status string

const (
	StatusPending    Status = "pending"
	StatusStaged     Status = "staged"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRolledBack Status = "rolled_back"
)

// validTransitions defines allowed state transitions.
// Any state may additionally transition to failed.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusStaged},
	StatusStaged:     {StatusCompleted, StatusRolledBack},
	StatusCompleted:  {StatusStaged}, // phase-two reversal during rollback
	StatusFailed:     {},
	StatusRolledBack: {},
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusFailed {
		return true
	}
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// stagingPrefix is the reserved filename pattern for in-flight renames.
// The scanner skips these, and rollback deletes any that survive.
const stagingPrefix = ".rename_staging_"

// IsStagingName reports whether a base filename is a reserved staging name
// left behind by an in-flight or crashed transaction.
func IsStagingName(name string) bool {
	return strings.HasPrefix(name, stagingPrefix)
}

// Operation is one file rename inside a transaction. The transaction
// manager is the only component that mutates Status, StagingPath, and
// Err after the transaction is built.
type Operation struct {
	Meta episode.Metadata

	TargetName string // final base name including extension
	TargetPath string // sibling of the source path

	StagingID   string // process-unique, assigned at build time
	StagingPath string // empty until preflight assigns it

	Status Status
	Err    string // failure detail, empty unless Status is failed
}

// SourcePath returns the path the operation renames from.
func (o *Operation) SourcePath() string { return o.Meta.SourcePath }

// StagingName returns the reserved staging filename for this operation,
// preserving the original extension so media tooling that sniffs
// extensions keeps working mid-flight.
func (o *Operation) StagingName() string {
	return stagingPrefix + o.StagingID + o.Meta.Extension
}

// IsCaseOnlyChange reports whether source and target names differ only in
// letter case. These need an intermediate rename on case-insensitive
// filesystems.
func (o *Operation) IsCaseOnlyChange() bool {
	src := filepath.Base(o.Meta.SourcePath)
	return src != o.TargetName && strings.EqualFold(src, o.TargetName)
}

// Transaction is an ordered batch of rename operations. Slice order is
// the commit order for both phases; it is fixed once the builder returns.
type Transaction struct {
	ID  string
	Ops []*Operation
}

// NewTransaction creates an empty transaction with a fresh ID.
func NewTransaction() *Transaction {
	return &Transaction{ID: uuid.NewString()}
}

// Add appends an operation, assigning its staging ID.
func (t *Transaction) Add(op *Operation) {
	if op.StagingID == "" {
		op.StagingID = uuid.NewString()
	}
	if op.Status == "" {
		op.Status = StatusPending
	}
	t.Ops = append(t.Ops, op)
}

// AllCompleted reports whether every operation finished phase two.
func (t *Transaction) AllCompleted() bool {
	for _, op := range t.Ops {
		if op.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// AnyFailed reports whether any operation recorded a failure.
func (t *Transaction) AnyFailed() bool {
	for _, op := range t.Ops {
		if op.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Pending returns the indexes of operations still pending.
func (t *Transaction) Pending() []int {
	return t.withStatus(StatusPending)
}

// Staged returns the indexes of operations in the staged state.
func (t *Transaction) Staged() []int {
	return t.withStatus(StatusStaged)
}

func (t *Transaction) withStatus(s Status) []int {
	var idx []int
	for i, op := range t.Ops {
		if op.Status == s {
			idx = append(idx, i)
		}
	}
	return idx
}
