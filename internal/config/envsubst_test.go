package config

import (
	"testing"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("EPIRENAME_TEST_DB", "/tmp/test.db")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "set variable substituted",
			content: `path = "${EPIRENAME_TEST_DB}"`,
			want:    `path = "/tmp/test.db"`,
		},
		{
			name:    "unset variable left unchanged",
			content: `path = "${EPIRENAME_TEST_UNSET_VAR}"`,
			want:    `path = "${EPIRENAME_TEST_UNSET_VAR}"`,
		},
		{
			name:    "no variables",
			content: `level = "info"`,
			want:    `level = "info"`,
		},
		{
			name:    "multiple in one line",
			content: `path = "${EPIRENAME_TEST_DB}/${EPIRENAME_TEST_DB}"`,
			want:    `path = "/tmp/test.db//tmp/test.db"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substituteEnvVars(tt.content); got != tt.want {
				t.Errorf("substituteEnvVars(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("EPIRENAME_TEST_DB_DIR", "/srv/data")

	cfg, err := Load(writeConfig(t, `
[database]
path = "${EPIRENAME_TEST_DB_DIR}/history.db"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/srv/data/history.db" {
		t.Errorf("path = %q", cfg.Database.Path)
	}
}
