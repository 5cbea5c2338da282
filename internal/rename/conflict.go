package rename

import (
	"os"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/epirename/epirename/internal/episode"
)

// Conflict detection is a read-only analysis pass over a built (not yet
// executed) transaction and its source metadata. Every check returns owned
// index slices into the transaction's operation list; nothing here mutates
// or aliases operation state, and nothing here blocks execution — callers
// decide what to do with the findings.

// TargetGroup is a set of operations producing the same target filename
// under case-insensitive comparison.
type TargetGroup struct {
	Name    string // lowercased target name
	OpIndex []int
}

// DuplicateTargets groups operations by case-insensitive target filename
// and reports every group with two or more members.
func DuplicateTargets(tx *Transaction) []TargetGroup {
	byName := make(map[string][]int)
	for i, op := range tx.Ops {
		key := strings.ToLower(op.TargetName)
		byName[key] = append(byName[key], i)
	}

	var groups []TargetGroup
	for name, idx := range byName {
		if len(idx) >= 2 {
			groups = append(groups, TargetGroup{Name: name, OpIndex: idx})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// Collision is an operation whose target path already exists on disk and
// is not a source path of the same batch.
type Collision struct {
	OpIndex      int
	ExistingPath string
}

// TargetCollisions reports operations whose target already exists on disk,
// excluding targets that are themselves batch sources (those are just
// being renamed by another operation and the staging phase clears them).
func TargetCollisions(tx *Transaction) []Collision {
	sources := make(map[string]bool, len(tx.Ops))
	for _, op := range tx.Ops {
		sources[op.SourcePath()] = true
	}

	var collisions []Collision
	for i, op := range tx.Ops {
		if sources[op.TargetPath] {
			continue
		}
		if _, err := os.Stat(op.TargetPath); err == nil {
			collisions = append(collisions, Collision{OpIndex: i, ExistingPath: op.TargetPath})
		}
	}
	return collisions
}

// CaseOnlyChanges reports operations whose source and target names are
// equal case-insensitively but differ exactly.
func CaseOnlyChanges(tx *Transaction) []int {
	var idx []int
	for i, op := range tx.Ops {
		if op.IsCaseOnlyChange() {
			idx = append(idx, i)
		}
	}
	return idx
}

// CircularChains detects rename cycles of length >= 2: each operation is a
// directed edge source -> target, and a cycle means a set of files swap
// names among themselves. Implemented as an iterative walk over an
// adjacency map built once from the operation list.
func CircularChains(tx *Transaction) [][]int {
	next := make(map[string]int, len(tx.Ops)) // source path -> op index
	for i, op := range tx.Ops {
		next[op.SourcePath()] = i
	}

	var cycles [][]int
	visited := make(map[int]bool, len(tx.Ops))

	for start := range tx.Ops {
		if visited[start] {
			continue
		}

		// Walk the chain from this operation, recording the path until it
		// dead-ends, hits an already-visited node, or loops back.
		var path []int
		onPath := make(map[int]int) // op index -> position in path
		cur := start
		for {
			if pos, ok := onPath[cur]; ok {
				cycle := append([]int(nil), path[pos:]...)
				if len(cycle) >= 2 {
					cycles = append(cycles, cycle)
				}
				break
			}
			if visited[cur] {
				break
			}
			visited[cur] = true
			onPath[cur] = len(path)
			path = append(path, cur)

			nxt, ok := next[tx.Ops[cur].TargetPath]
			if !ok {
				break
			}
			cur = nxt
		}
	}

	return cycles
}

// NumberGaps reports every integer missing from [min, max] over the
// extracted primary numbers. Metadata without numbers is ignored.
func NumberGaps(metas []episode.Metadata) []int {
	present := make(map[int]bool)
	first := true
	var lo, hi int
	for _, m := range metas {
		if !m.HasNumber() {
			continue
		}
		n := *m.Number
		present[n] = true
		if first || n < lo {
			lo = n
		}
		if first || n > hi {
			hi = n
		}
		first = false
	}
	if first {
		return nil
	}

	var gaps []int
	for n := lo; n <= hi; n++ {
		if !present[n] {
			gaps = append(gaps, n)
		}
	}
	return gaps
}

// NumberGroup is a set of metadata entries sharing one extracted number.
type NumberGroup struct {
	Number    int
	MetaIndex []int
}

// DuplicateNumbers groups metadata by primary number and reports groups
// with two or more members.
func DuplicateNumbers(metas []episode.Metadata) []NumberGroup {
	byNumber := make(map[int][]int)
	for i, m := range metas {
		if m.HasNumber() {
			byNumber[*m.Number] = append(byNumber[*m.Number], i)
		}
	}

	var groups []NumberGroup
	for n, idx := range byNumber {
		if len(idx) >= 2 {
			groups = append(groups, NumberGroup{Number: n, MetaIndex: idx})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Number < groups[j].Number })
	return groups
}

// titleOutlierThreshold is the Jaro-Winkler similarity below which a title
// is considered foreign to the batch.
const titleOutlierThreshold = 0.5

// Outlier is a metadata entry whose cleaned title is dissimilar to every
// other title in the batch, suggesting a file that does not belong.
type Outlier struct {
	MetaIndex int
	BestScore float64
}

// TitleOutliers compares each cleaned title against the rest of the batch
// with Jaro-Winkler similarity and reports entries whose best score falls
// below the threshold. Batches smaller than three entries report nothing:
// with so few titles there is no majority to be an outlier from.
func TitleOutliers(metas []episode.Metadata) []Outlier {
	if len(metas) < 3 {
		return nil
	}

	var outliers []Outlier
	for i, m := range metas {
		best := 0.0
		for j, other := range metas {
			if i == j {
				continue
			}
			score := float64(edlib.JaroWinklerSimilarity(
				strings.ToLower(m.CleanedTitle),
				strings.ToLower(other.CleanedTitle),
			))
			if score > best {
				best = score
			}
		}
		if best < titleOutlierThreshold {
			outliers = append(outliers, Outlier{MetaIndex: i, BestScore: best})
		}
	}
	return outliers
}

// Report aggregates every advisory check over one candidate transaction.
type Report struct {
	DuplicateTargets []TargetGroup
	TargetCollisions []Collision
	CaseOnlyChanges  []int
	CircularChains   [][]int
	NumberGaps       []int
	DuplicateNumbers []NumberGroup
	TitleOutliers    []Outlier
}

// Blocking reports whether the findings include conditions that would make
// execution fail or destroy data: duplicate targets or on-disk collisions.
// Everything else is advisory.
func (r *Report) Blocking() bool {
	return len(r.DuplicateTargets) > 0 || len(r.TargetCollisions) > 0
}

// Empty reports whether no check found anything.
func (r *Report) Empty() bool {
	return len(r.DuplicateTargets) == 0 &&
		len(r.TargetCollisions) == 0 &&
		len(r.CaseOnlyChanges) == 0 &&
		len(r.CircularChains) == 0 &&
		len(r.NumberGaps) == 0 &&
		len(r.DuplicateNumbers) == 0 &&
		len(r.TitleOutliers) == 0
}

// Detect runs every check against a built transaction and its metadata.
func Detect(tx *Transaction, metas []episode.Metadata) *Report {
	return &Report{
		DuplicateTargets: DuplicateTargets(tx),
		TargetCollisions: TargetCollisions(tx),
		CaseOnlyChanges:  CaseOnlyChanges(tx),
		CircularChains:   CircularChains(tx),
		NumberGaps:       NumberGaps(metas),
		DuplicateNumbers: DuplicateNumbers(metas),
		TitleOutliers:    TitleOutliers(metas),
	}
}
