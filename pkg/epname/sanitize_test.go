package epname

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "release junk and episode marker stripped",
			in:   "Show.Name.S01E02.1080p.WEB-DL.x264-GROUP",
			want: "Show.Name GROUP",
		},
		{
			name: "bracketed group and trailing number removed",
			in:   "[RARBG] Great Show - 05",
			want: "Great Show",
		},
		{
			name: "underscores become spaces",
			in:   "My_Show_Episode_3",
			want: "My Show Episode",
		},
		{
			name: "smart quotes and dashes folded",
			in:   "It’s Here – Part 2",
			want: "It's Here",
		},
		{
			name: "leading number marker stripped",
			in:   "1 - A",
			want: "A",
		},
		{
			name: "season episode marker stripped",
			in:   "Show S01E02 Pilot",
			want: "Show Pilot",
		},
		{
			name: "only the extracted number removed",
			in:   "Top 10 Scenes 03",
			want: "Top 10 Scenes",
		},
		{
			name: "mid-name fallback number removed",
			in:   "Oddities 12 final",
			want: "Oddities final",
		},
		{
			name: "illegal characters removed",
			in:   `What? The: "Movie"`,
			want: "What The Movie",
		},
		{
			name: "empty input falls back",
			in:   "",
			want: "untitled",
		},
		{
			name: "junk-only input falls back",
			in:   "1080p x264 AAC",
			want: "untitled",
		},
		{
			name: "audio and source tags removed",
			in:   "Concert BluRay DTS-HD Atmos",
			want: "Concert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.in); got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slashes", "a/b\\c", "a b c"},
		{"illegal chars", `x<y>z:q`, "x y z q"},
		{"trim dots and spaces", " name. ", "name"},
		{"collapse spaces", "a    b", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name   string
		fname  string
		wantOK bool
	}{
		{"normal", "Episode 01.mp4", true},
		{"empty", "", false},
		{"spaces only", "   ", false},
		{"illegal char", "a|b.mp4", false},
		{"reserved", "CON.mp4", false},
		{"reserved lowercase", "nul.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateFilename(tt.fname, "/tmp")
			if v.OK != tt.wantOK {
				t.Errorf("ValidateFilename(%q).OK = %v (problem %q), want %v", tt.fname, v.OK, v.Problem, tt.wantOK)
			}
		})
	}
}

func TestValidateFilename_LongPathWarning(t *testing.T) {
	dir := "/very"
	for len(dir) < 250 {
		dir += "/long"
	}
	v := ValidateFilename("Episode 01.mp4", dir)
	if !v.OK {
		t.Fatalf("unexpected problem: %s", v.Problem)
	}
	if len(v.Warnings) == 0 {
		t.Error("expected a long-path warning")
	}
}
