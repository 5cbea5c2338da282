package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/epirename/epirename/internal/episode"
)

func newOp(t *testing.T, dir, srcName, targetName string) *Operation {
	t.Helper()
	m, err := episode.New(srcName, filepath.Join(dir, srcName), 0.5)
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	m.Extension = filepath.Ext(srcName)
	return &Operation{
		Meta:       m,
		TargetName: targetName,
		TargetPath: filepath.Join(dir, targetName),
	}
}

func newTx(ops ...*Operation) *Transaction {
	tx := NewTransaction()
	for _, op := range ops {
		tx.Add(op)
	}
	return tx
}

func numberedMeta(t *testing.T, name, title string, number int) episode.Metadata {
	t.Helper()
	m, err := episode.New(name, "/media/"+name, 0.5)
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	return m.WithNumber(number, "test").WithTitle(title)
}

func TestDuplicateTargets(t *testing.T) {
	tx := newTx(
		newOp(t, "/d", "a.mp4", "Episode 01.mp4"),
		newOp(t, "/d", "b.mp4", "episode 01.mp4"),
		newOp(t, "/d", "c.mp4", "Episode 02.mp4"),
	)

	groups := DuplicateTargets(tx)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1: %+v", len(groups), groups)
	}
	if groups[0].Name != "episode 01.mp4" {
		t.Errorf("group name = %q, want %q", groups[0].Name, "episode 01.mp4")
	}
	if len(groups[0].OpIndex) != 2 {
		t.Errorf("group members = %v, want indexes 0 and 1", groups[0].OpIndex)
	}
}

func TestDuplicateTargets_None(t *testing.T) {
	tx := newTx(
		newOp(t, "/d", "a.mp4", "1. A.mp4"),
		newOp(t, "/d", "b.mp4", "2. B.mp4"),
	)
	if groups := DuplicateTargets(tx); groups != nil {
		t.Errorf("got %+v, want none", groups)
	}
}

func TestTargetCollisions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.mp4", "existing.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// a -> b collides with a real file, but b is itself a batch source, so
	// staging clears it. c -> existing collides with a file outside the
	// batch and must be reported.
	tx := newTx(
		newOp(t, dir, "a.mp4", "b.mp4"),
		newOp(t, dir, "b.mp4", "fresh.mp4"),
		newOp(t, dir, "c.mp4", "existing.mp4"),
	)

	collisions := TargetCollisions(tx)
	if len(collisions) != 1 {
		t.Fatalf("got %d collisions, want 1: %+v", len(collisions), collisions)
	}
	if collisions[0].OpIndex != 2 {
		t.Errorf("collision at op %d, want 2", collisions[0].OpIndex)
	}
	if collisions[0].ExistingPath != filepath.Join(dir, "existing.mp4") {
		t.Errorf("collision path = %q", collisions[0].ExistingPath)
	}
}

func TestCaseOnlyChanges(t *testing.T) {
	tx := newTx(
		newOp(t, "/d", "FILE.mp4", "file.mp4"),
		newOp(t, "/d", "other.mp4", "renamed.mp4"),
		newOp(t, "/d", "same.mp4", "same.mp4"),
	)

	idx := CaseOnlyChanges(tx)
	if len(idx) != 1 || idx[0] != 0 {
		t.Errorf("case-only changes = %v, want [0]", idx)
	}
}

func TestCircularChains(t *testing.T) {
	t.Run("two-cycle", func(t *testing.T) {
		tx := newTx(
			newOp(t, "/d", "a.mp4", "b.mp4"),
			newOp(t, "/d", "b.mp4", "a.mp4"),
		)
		cycles := CircularChains(tx)
		if len(cycles) != 1 {
			t.Fatalf("got %d cycles, want 1: %v", len(cycles), cycles)
		}
		if len(cycles[0]) != 2 {
			t.Errorf("cycle = %v, want length 2", cycles[0])
		}
	})

	t.Run("three-cycle", func(t *testing.T) {
		tx := newTx(
			newOp(t, "/d", "a.mp4", "b.mp4"),
			newOp(t, "/d", "b.mp4", "c.mp4"),
			newOp(t, "/d", "c.mp4", "a.mp4"),
		)
		cycles := CircularChains(tx)
		if len(cycles) != 1 || len(cycles[0]) != 3 {
			t.Errorf("cycles = %v, want one cycle of length 3", cycles)
		}
	})

	t.Run("chain without cycle", func(t *testing.T) {
		tx := newTx(
			newOp(t, "/d", "a.mp4", "b.mp4"),
			newOp(t, "/d", "b.mp4", "c.mp4"),
		)
		if cycles := CircularChains(tx); cycles != nil {
			t.Errorf("cycles = %v, want none", cycles)
		}
	})
}

func TestNumberGaps(t *testing.T) {
	metas := []episode.Metadata{
		numberedMeta(t, "1.mp4", "A", 1),
		numberedMeta(t, "2.mp4", "B", 2),
		numberedMeta(t, "4.mp4", "C", 4),
		numberedMeta(t, "5.mp4", "D", 5),
	}
	gaps := NumberGaps(metas)
	if len(gaps) != 1 || gaps[0] != 3 {
		t.Errorf("gaps = %v, want [3]", gaps)
	}
}

func TestNumberGaps_NoNumbers(t *testing.T) {
	m, err := episode.New("x.mp4", "/d/x.mp4", 0)
	if err != nil {
		t.Fatal(err)
	}
	if gaps := NumberGaps([]episode.Metadata{m}); gaps != nil {
		t.Errorf("gaps = %v, want none", gaps)
	}
}

func TestDuplicateNumbers(t *testing.T) {
	metas := []episode.Metadata{
		numberedMeta(t, "a.mp4", "A", 5),
		numberedMeta(t, "b.mp4", "B", 5),
		numberedMeta(t, "c.mp4", "C", 6),
	}
	groups := DuplicateNumbers(metas)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1: %+v", len(groups), groups)
	}
	if groups[0].Number != 5 || len(groups[0].MetaIndex) != 2 {
		t.Errorf("group = %+v, want number 5 with two members", groups[0])
	}
}

func TestTitleOutliers(t *testing.T) {
	metas := []episode.Metadata{
		numberedMeta(t, "a.mp4", "Breaking Point", 1),
		numberedMeta(t, "b.mp4", "Breaking Dawn", 2),
		numberedMeta(t, "c.mp4", "zzzz", 3),
	}
	outliers := TitleOutliers(metas)
	if len(outliers) != 1 {
		t.Fatalf("got %d outliers, want 1: %+v", len(outliers), outliers)
	}
	if outliers[0].MetaIndex != 2 {
		t.Errorf("outlier at %d, want 2", outliers[0].MetaIndex)
	}
}

func TestTitleOutliers_SmallBatch(t *testing.T) {
	metas := []episode.Metadata{
		numberedMeta(t, "a.mp4", "Something", 1),
		numberedMeta(t, "b.mp4", "Unrelated", 2),
	}
	if outliers := TitleOutliers(metas); outliers != nil {
		t.Errorf("outliers = %v, want none for batch of two", outliers)
	}
}

func TestDetect(t *testing.T) {
	metas := []episode.Metadata{
		numberedMeta(t, "1 - One.mp4", "Episode One", 1),
		numberedMeta(t, "2 - Two.mp4", "Episode Two", 2),
		numberedMeta(t, "3 - Three.mp4", "Episode Three", 3),
	}

	t.Run("clean batch", func(t *testing.T) {
		tx := newTx(
			newOp(t, "/media/show", "1 - One.mp4", "1. Episode One.mp4"),
			newOp(t, "/media/show", "2 - Two.mp4", "2. Episode Two.mp4"),
			newOp(t, "/media/show", "3 - Three.mp4", "3. Episode Three.mp4"),
		)
		report := Detect(tx, metas)
		if !report.Empty() {
			t.Errorf("report not empty: %+v", report)
		}
		if report.Blocking() {
			t.Error("clean batch reported as blocking")
		}
	})

	t.Run("duplicate targets block", func(t *testing.T) {
		tx := newTx(
			newOp(t, "/media/show", "1 - One.mp4", "1. Same.mp4"),
			newOp(t, "/media/show", "2 - Two.mp4", "1. Same.mp4"),
			newOp(t, "/media/show", "3 - Three.mp4", "3. Episode Three.mp4"),
		)
		report := Detect(tx, metas)
		if !report.Blocking() {
			t.Error("duplicate targets should block")
		}
		if report.Empty() {
			t.Error("report should not be empty")
		}
	})
}
