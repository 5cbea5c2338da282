package rename

import (
	"testing"

	"github.com/epirename/epirename/internal/episode"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusStaged, true},
		{StatusPending, StatusCompleted, false},
		{StatusStaged, StatusCompleted, true},
		{StatusStaged, StatusRolledBack, true},
		{StatusCompleted, StatusStaged, true},
		{StatusCompleted, StatusPending, false},
		{StatusRolledBack, StatusStaged, false},
		{StatusPending, StatusFailed, true},
		{StatusStaged, StatusFailed, true},
		{StatusCompleted, StatusFailed, true},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOperation_StagingName(t *testing.T) {
	m, err := episode.New("show.mp4", "/d/show.mp4", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	m.Extension = ".mp4"

	op := &Operation{Meta: m, StagingID: "abc123"}
	if got := op.StagingName(); got != ".rename_staging_abc123.mp4" {
		t.Errorf("StagingName = %q", got)
	}
}

func TestOperation_IsCaseOnlyChange(t *testing.T) {
	tests := []struct {
		src, target string
		want        bool
	}{
		{"file.MP4", "file.mp4", true},
		{"FILE.mp4", "file.mp4", true},
		{"file.mp4", "file.mp4", false},
		{"file.mp4", "other.mp4", false},
	}
	for _, tt := range tests {
		m, err := episode.New(tt.src, "/d/"+tt.src, 0.5)
		if err != nil {
			t.Fatal(err)
		}
		op := &Operation{Meta: m, TargetName: tt.target}
		if got := op.IsCaseOnlyChange(); got != tt.want {
			t.Errorf("%q -> %q: IsCaseOnlyChange = %v, want %v", tt.src, tt.target, got, tt.want)
		}
	}
}

func TestTransaction_Add(t *testing.T) {
	m, err := episode.New("a.mp4", "/d/a.mp4", 0.5)
	if err != nil {
		t.Fatal(err)
	}

	tx := NewTransaction()
	if tx.ID == "" {
		t.Fatal("new transaction has no ID")
	}

	tx.Add(&Operation{Meta: m, TargetName: "b.mp4", TargetPath: "/d/b.mp4"})
	op := tx.Ops[0]
	if op.StagingID == "" {
		t.Error("Add did not assign staging ID")
	}
	if op.Status != StatusPending {
		t.Errorf("status = %q, want pending", op.Status)
	}
}

func TestTransaction_StatusQueries(t *testing.T) {
	tx := newTx(
		newOp(t, "/d", "a.mp4", "1.mp4"),
		newOp(t, "/d", "b.mp4", "2.mp4"),
		newOp(t, "/d", "c.mp4", "3.mp4"),
	)
	tx.Ops[0].Status = StatusCompleted
	tx.Ops[1].Status = StatusStaged
	tx.Ops[2].Status = StatusFailed

	if tx.AllCompleted() {
		t.Error("AllCompleted true with mixed statuses")
	}
	if !tx.AnyFailed() {
		t.Error("AnyFailed false with a failed operation")
	}
	if got := tx.Staged(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Staged = %v, want [1]", got)
	}
	if got := tx.Pending(); len(got) != 0 {
		t.Errorf("Pending = %v, want empty", got)
	}

	for _, op := range tx.Ops {
		op.Status = StatusCompleted
	}
	if !tx.AllCompleted() {
		t.Error("AllCompleted false with all completed")
	}
}
