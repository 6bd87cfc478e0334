package monkey

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() failed: %+v", err)
		}
		return path
	}
	good := write("good.mk", "let x = 1; printl(x);")
	bad := write("bad.mk", "let = 1;")
	unfinished := write("unfinished.mk", "let f = fn(x) {")

	results, err := CheckFiles(context.Background(), good, bad, unfinished)
	if err != nil {
		t.Fatalf("CheckFiles() failed: %+v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Path != good || len(results[0].Diagnostics) != 0 {
		t.Errorf("good file: %+v", results[0])
	}
	if results[1].Path != bad || len(results[1].Diagnostics) == 0 {
		t.Errorf("bad file should have diagnostics: %+v", results[1])
	}
	if !IsIncomplete(results[2].Diagnostics) {
		t.Errorf("unfinished file should be incomplete: %+v", results[2])
	}
}

func TestCheckFilesMissing(t *testing.T) {
	_, err := CheckFiles(context.Background(), filepath.Join(t.TempDir(), "missing.mk"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
