package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindMatchesOneLevelDeep(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b", "composer.json"))
	touch(t, filepath.Join(root, "a", "composer.json"))
	touch(t, filepath.Join(root, "composer.json"))
	touch(t, filepath.Join(root, "a", "vendor", "x", "composer.json"))
	touch(t, filepath.Join(root, "c", "package.json"))
	if err := os.MkdirAll(filepath.Join(root, "d", "composer.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := NewFinder(root, "").Find()
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want := []string{
		filepath.Join(root, "a", "composer.json"),
		filepath.Join(root, "b", "composer.json"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("file %d: want %s got %s", i, want[i], files[i])
		}
	}
}

func TestFindMissingRoot(t *testing.T) {
	if _, err := NewFinder(filepath.Join(t.TempDir(), "nope"), "").Find(); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestFindRejectsEscapingPatterns(t *testing.T) {
	root := t.TempDir()
	for _, pattern := range []string{"../*/composer.json", "/etc/*.json", "[broken"} {
		if _, err := NewFinder(root, pattern).Find(); err == nil {
			t.Fatalf("expected error for pattern %q", pattern)
		}
	}
}

func TestFindCustomPattern(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "group", "pkg", "composer.json"))
	files, err := NewFinder(root, "**/composer.json").Find()
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one match, got %v", files)
	}
}
