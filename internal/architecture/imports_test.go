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

// layerRule forbids packages under dir from importing any of the listed
// module-relative paths.
type layerRule struct {
	dir    string
	forbid []string
}

var layerRules = []layerRule{
	{dir: "internal/platform/", forbid: []string{"internal/domain", "internal/data/", "internal/services/", "internal/http", "internal/app"}},
	{dir: "internal/domain/", forbid: []string{"internal/data/", "internal/services/", "internal/http", "internal/observability", "internal/app"}},
	{dir: "internal/data/", forbid: []string{"internal/http", "internal/app"}},
	{dir: "internal/services/", forbid: []string{"internal/http", "internal/app"}},
	{dir: "internal/http/", forbid: []string{"internal/app"}},
}

func ruleFor(rel string) (layerRule, bool) {
	for _, r := range layerRules {
		if strings.HasPrefix(rel, r.dir) {
			return r, true
		}
	}
	return layerRule{}, false
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)
	fset := token.NewFileSet()

	var violations []string
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		rule, ok := ruleFor(rel)
		if !ok {
			return nil
		}

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range f.Imports {
			p, err := strconv.Unquote(imp.Path.Value)
			if err != nil || !strings.HasPrefix(p, modulePath+"/") {
				continue
			}
			local := strings.TrimPrefix(p, modulePath+"/")
			for _, bad := range rule.forbid {
				if local == strings.TrimSuffix(bad, "/") || strings.HasPrefix(local, bad) || strings.HasPrefix(local, bad+"/") {
					violations = append(violations, fmt.Sprintf("- %s imports %q (%s must not import %s)", rel, p, rule.dir, bad))
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

func TestRuleForLayers(t *testing.T) {
	cases := map[string]string{
		"internal/platform/logger/logger.go":         "internal/platform/",
		"internal/data/aggregates/multiform.go":      "internal/data/",
		"internal/http/handlers/product_form.go":     "internal/http/",
		"internal/observability/metrics.go":          "",
		"internal/app/app.go":                        "",
		"internal/domain/forms/payload.go":           "internal/domain/",
		"internal/services/drafts/drafts.go":         "internal/services/",
		"internal/architecture/imports_test.go":      "",
		"internal/data/repos/testutil/testutil.go":   "internal/data/",
		"internal/http/middleware/trace_context.go":  "internal/http/",
		"internal/platform/ctxutil/trace_test.go":    "internal/platform/",
		"internal/domain/aggregates/contracts.go":    "internal/domain/",
		"internal/data/aggregates/testutil/hooks.go": "internal/data/",
	}
	for rel, want := range cases {
		rule, ok := ruleFor(rel)
		got := ""
		if ok {
			got = rule.dir
		}
		if got != want {
			t.Fatalf("ruleFor(%q): want=%q got=%q", rel, want, got)
		}
	}
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found")
		}
		dir = parent
	}

	f, err := os.Open(filepath.Join(dir, "go.mod"))
	if err != nil {
		t.Fatalf("open go.mod: %v", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mp, ok := strings.CutPrefix(line, "module "); ok && strings.TrimSpace(mp) != "" {
			return dir, strings.TrimSpace(mp)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	t.Fatalf("module path not found in go.mod")
	return "", ""
}
