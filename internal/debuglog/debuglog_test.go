package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWritefTruncatesOnOpenAndAppendsLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debug.log")

	if err := os.WriteFile(path, []byte("stale content\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	sink, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sink.Writef("hello %s", "world")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "stale content") {
		t.Fatalf("expected truncation at startup, got: %q", content)
	}
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected written line, got: %q", content)
	}
}
