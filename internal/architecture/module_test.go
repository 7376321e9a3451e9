package architecture_test

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/mod/modfile"
)

type module struct {
	root string
	path string
}

func loadModule(t *testing.T) module {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(dir)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	path := modfile.ModulePath(raw)
	if path == "" {
		t.Fatalf("go.mod at %s has no module line", root)
	}
	return module{root: root, path: path}
}

func findModuleRoot(start string) (string, error) {
	for dir := start; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", start)
		}
		dir = parent
	}
}

// walkSources visits non-test .go files under internal/, passing slash-separated paths relative to the root.
func (m module) walkSources(visit func(abs, rel string) error) error {
	return filepath.WalkDir(filepath.Join(m.root, "internal"), func(abs string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(abs, ".go") || strings.HasSuffix(abs, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(m.root, abs)
		if err != nil {
			return err
		}
		return visit(abs, filepath.ToSlash(rel))
	})
}
