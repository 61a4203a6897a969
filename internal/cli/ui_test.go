package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

// captureOutput redirects status output for the duration of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name     string
		elements int
		views    int
		cached   bool
		want     []string
	}{
		{"solved", 3, 2, false, []string{"3 elements", "2 views", "solved"}},
		{"cached", 1, 1, true, []string{"1 elements", "1 views", "cached"}},
		{"empty", 0, 0, false, []string{"solved"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t)
			printStats(tt.elements, tt.views, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestLayoutCommand_Table(t *testing.T) {
	path := writeScene(t, t.TempDir())
	buf := captureOutput(t)

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"layout", path, "--no-cache", "--table"})
	if err := root.Execute(); err != nil {
		t.Fatalf("layout --table: %v", err)
	}
	for _, w := range []string{"avatar", "name", "Stage 200 × 64"} {
		if !strings.Contains(buf.String(), w) {
			t.Errorf("table missing %q:\n%s", w, buf.String())
		}
	}
}

func TestLayoutCommand_Stdout(t *testing.T) {
	dir := t.TempDir()
	path := writeScene(t, dir)
	buf := captureOutput(t)

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"layout", path, "--no-cache", "-o", "-"})
	if err := root.Execute(); err != nil {
		t.Fatalf("layout -o -: %v", err)
	}
	if !strings.Contains(buf.String(), `"blocks"`) {
		t.Errorf("stdout = %s", buf.String())
	}
	if m, _ := filepath.Glob(filepath.Join(dir, "*.layout.json")); len(m) != 0 {
		t.Errorf("unexpected layout files %v", m)
	}
}
