package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// boundary forbids packages under dir from importing any of deny.
// More specific dirs must come first; the first match wins.
type boundary struct {
	dir  string
	deny []string
}

var boundaries = []boundary{
	{"internal/platform/", []string{"domain/", "data/", "etl", "jobs/", "http", "app", "clients/", "observability", "normalization"}},
	{"internal/pkg/", []string{"domain", "data/", "etl", "jobs/", "http", "app", "clients/", "observability", "normalization"}},
	{"internal/normalization/", []string{"domain", "data/", "etl", "jobs/", "http", "app", "clients/"}},
	{"internal/domain/", []string{"data/", "etl", "jobs/", "http", "app", "clients/", "observability"}},
	{"internal/clients/", []string{"domain", "data/", "etl", "jobs/", "http", "app"}},
	{"internal/observability/", []string{"domain", "data/", "etl", "jobs/", "http", "app"}},
	{"internal/etl/transform/", []string{"data/", "jobs/", "http", "app"}},
	{"internal/etl/", []string{"jobs/", "http", "app"}},
	{"internal/data/", []string{"etl", "jobs/", "http", "app", "clients/"}},
	{"internal/jobs/", []string{"http", "app"}},
	{"internal/http/", []string{"app", "data/db", "etl/writer", "etl/resolve"}},
}

type importRef struct {
	file string
	imp  string
}

// walkImports calls fn for every internal import of every non-test Go file
// under internal/, with imp relative to the module's internal/ directory.
func walkImports(t *testing.T, fn func(ref importRef, rel string)) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	internalPrefix := modulePath + "/internal/"
	fset := token.NewFileSet()

	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, is := range f.Imports {
			imp, err := strconv.Unquote(is.Path.Value)
			if err != nil || !strings.HasPrefix(imp, internalPrefix) {
				continue
			}
			fn(importRef{file: rel, imp: strings.TrimPrefix(imp, internalPrefix)}, rel)
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
}

func TestImportBoundaries(t *testing.T) {
	var violations []string
	walkImports(t, func(ref importRef, rel string) {
		for _, b := range boundaries {
			if !strings.HasPrefix(rel, b.dir) {
				continue
			}
			for _, bad := range b.deny {
				if strings.HasPrefix(ref.imp, bad) {
					violations = append(violations, fmt.Sprintf("- %s imports internal/%s (disallowed under %s)", ref.file, ref.imp, b.dir))
				}
			}
			return
		}
	})
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

func TestTestutilStaysInTests(t *testing.T) {
	var violations []string
	walkImports(t, func(ref importRef, _ string) {
		if strings.HasSuffix(ref.imp, "/testutil") {
			violations = append(violations, fmt.Sprintf("- %s imports internal/%s", ref.file, ref.imp))
		}
	})
	if len(violations) > 0 {
		t.Fatalf("test helpers imported from production code:\n%s", strings.Join(violations, "\n"))
	}
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module ")), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module directive not found in %s", goModPath)
}
