package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWriter("inventory", &buf, LevelInfo)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Errorf("failed %s", "x")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "[INFO] shown 2") {
		t.Fatalf("missing info line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] failed x") {
		t.Fatalf("missing error line: %q", out)
	}
	if !strings.HasPrefix(out, "inventory ") {
		t.Fatalf("missing prefix: %q", out)
	}
}

func TestLogger_NilIsSafe(t *testing.T) {
	t.Parallel()

	var l *Logger
	l.Infof("nothing")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNew_FileOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "inventory.log")
	l, err := New("", path, ParseLevel("debug"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debugf("attempt=%d", 1)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[DEBUG] attempt=1") {
		t.Fatalf("log=%q", data)
	}
}
