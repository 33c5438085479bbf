package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `
# comment
GEMINI_API_KEY=file-key
export EXPORTED_KEY=exported
QUOTED="with spaces"
SINGLE='single quoted'
ALREADY_SET=from-file
MALFORMED LINE
=no-key
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ALREADY_SET", "from-env")
	for _, key := range []string{"GEMINI_API_KEY", "EXPORTED_KEY", "QUOTED", "SINGLE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	if err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"GEMINI_API_KEY", "file-key"},
		{"EXPORTED_KEY", "exported"},
		{"QUOTED", "with spaces"},
		{"SINGLE", "single quoted"},
		{"ALREADY_SET", "from-env"},
	}
	for _, tt := range tests {
		if got := os.Getenv(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing file should be a no-op, got %v", err)
	}
}
