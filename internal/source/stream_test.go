package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenStreamReadsFileContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "puzzles.txt")
	want := "1.........5.........9.........5.........9.........4.........9.........4.........8\n"

	if err := os.WriteFile(path, []byte(want), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, err := OpenStream(path)
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != want {
		t.Fatalf("unexpected stream contents: %q", got)
	}
}

func TestOpenStreamMissingFile(t *testing.T) {
	if _, err := OpenStream(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected an error opening a nonexistent file")
	}
}

func TestOpenStreamDashIsStdin(t *testing.T) {
	r, err := OpenStream("-")
	if err != nil {
		t.Fatalf("OpenStream(\"-\"): %v", err)
	}
	if r == nil {
		t.Fatalf("expected a non-nil reader for stdin")
	}
}
