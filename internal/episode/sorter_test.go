package episode

import (
	"testing"
)

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"digit runs as integers", "Episode 2", "Episode 10", -1},
		{"equal", "Episode 7", "Episode 7", 0},
		{"case insensitive", "EPISODE 3", "episode 3", 0},
		{"leading zeros equal", "ep 007", "ep 7", 0},
		{"prefix shorter first", "ep 1", "ep 1b", -1},
		{"text before later text", "alpha", "beta", -1},
		{"long digit runs", "x99999999999999999999", "x100000000000000000000", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NaturalCompare(tt.a, tt.b); got != tt.want {
				t.Errorf("NaturalCompare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if tt.want != 0 {
				if got := NaturalCompare(tt.b, tt.a); got != -tt.want {
					t.Errorf("NaturalCompare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
				}
			}
		})
	}
}

func meta(t *testing.T, name string, number *int) Metadata {
	t.Helper()
	m, err := New(name, "/d/"+name, 0.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Number = number
	return m
}

func ptr(n int) *int { return &n }

func TestSort_NumbersFirstThenNatural(t *testing.T) {
	metas := []Metadata{
		meta(t, "Episode 10.mp4", ptr(10)),
		meta(t, "extras.mp4", nil),
		meta(t, "Episode 1.mp4", ptr(1)),
		meta(t, "behind the scenes.mp4", nil),
		meta(t, "Episode 2.mp4", ptr(2)),
	}

	got := Sort(metas)
	want := []string{
		"Episode 1.mp4",
		"Episode 2.mp4",
		"Episode 10.mp4",
		"behind the scenes.mp4",
		"extras.mp4",
	}
	for i, name := range want {
		if got[i].OriginalName != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].OriginalName, name)
		}
	}

	// Input order untouched.
	if metas[0].OriginalName != "Episode 10.mp4" {
		t.Error("Sort mutated its input")
	}
}

func TestSort_NaturalOrderExample(t *testing.T) {
	var metas []Metadata
	for _, name := range []string{"Episode 2", "Episode 10", "Episode 1"} {
		metas = append(metas, meta(t, name, nil))
	}

	got := Sort(metas)
	want := []string{"Episode 1", "Episode 2", "Episode 10"}
	for i, name := range want {
		if got[i].OriginalName != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].OriginalName, name)
		}
	}
}

func TestSort_Deterministic(t *testing.T) {
	metas := []Metadata{
		meta(t, "same.mp4", ptr(1)),
		meta(t, "SAME.mp4", ptr(1)),
		meta(t, "other.mp4", ptr(1)),
	}

	first := Sort(metas)
	for i := 0; i < 10; i++ {
		again := Sort(metas)
		for j := range first {
			if first[j].OriginalName != again[j].OriginalName {
				t.Fatalf("run %d: order differs at %d", i, j)
			}
		}
	}
}

func TestSortByConfidence(t *testing.T) {
	a := meta(t, "a.mp4", ptr(2))
	a.Confidence = 0.9
	b := meta(t, "b.mp4", ptr(1))
	b.Confidence = 0.3
	c := meta(t, "c.mp4", ptr(5))
	c.Confidence = 0.9

	got := SortByConfidence([]Metadata{b, c, a})
	want := []string{"a.mp4", "c.mp4", "b.mp4"}
	for i, name := range want {
		if got[i].OriginalName != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].OriginalName, name)
		}
	}
}
