package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hargabyte/pyr/internal/config"
	"github.com/hargabyte/pyr/internal/extract"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunExtractsAllFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.py":      "def main(): pass\n",
		"pkg/util.py": "def helper(x: int) -> int:\n    return x\n",
	})

	result, err := Run(Options{Targets: []string{root}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(result.Modules))
	}
	if result.CacheHits != 0 {
		t.Errorf("expected no cache hits without .pyr, got %d", result.CacheHits)
	}

	total := 0
	for _, mod := range result.Modules {
		total += len(mod.Functions())
	}
	if total != 2 {
		t.Errorf("expected 2 functions across modules, got %d", total)
	}
}

func TestRunMultipleTargets(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeTree(t, first, map[string]string{"a.py": "def from_first(): pass\n"})
	writeTree(t, second, map[string]string{"b.py": "def from_second(): pass\n"})

	result, err := Run(Options{Targets: []string{first, second}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Modules) != 2 {
		t.Fatalf("expected modules from both targets, got %d", len(result.Modules))
	}
	var names []string
	for _, mod := range result.Modules {
		for _, fn := range mod.Functions() {
			names = append(names, fn.Name)
		}
	}
	if len(names) != 2 || names[0] != "from_first" || names[1] != "from_second" {
		t.Errorf("expected target order preserved, got %v", names)
	}
}

func TestRunOverlappingTargetsDeduplicated(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"app.py": "def main(): pass\n"})

	result, err := Run(Options{Targets: []string{root, root, filepath.Join(root, "app.py")}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Files) != 1 || len(result.Modules) != 1 {
		t.Errorf("expected one file despite overlapping targets, got %v", result.Files)
	}
}

func TestRunUsesCacheOnRepeat(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.py": "def main(): pass\n",
	})
	if err := os.MkdirAll(filepath.Join(root, config.DirName), 0o755); err != nil {
		t.Fatal(err)
	}

	first, err := Run(Options{Targets: []string{root}, UseCache: true})
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if first.CacheHits != 0 {
		t.Errorf("expected cold cache, got %d hits", first.CacheHits)
	}

	second, err := Run(Options{Targets: []string{root}, UseCache: true})
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if second.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", second.CacheHits)
	}
	if len(second.Modules) != 1 || len(second.Modules[0].Functions()) != 1 {
		t.Errorf("cached module differs: %+v", second.Modules)
	}
}

func TestRunInvalidatesCacheOnChange(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app.py")
	writeTree(t, root, map[string]string{"app.py": "def before(): pass\n"})
	if err := os.MkdirAll(filepath.Join(root, config.DirName), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Run(Options{Targets: []string{root}, UseCache: true}); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("def after(): pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Run(Options{Targets: []string{root}, UseCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheHits != 0 {
		t.Errorf("expected miss after edit, got %d hits", result.CacheHits)
	}
	if result.Modules[0].Functions()[0].Name != "after" {
		t.Errorf("stale extraction served: %+v", result.Modules[0].Decls)
	}
}

func TestRunRespectsExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.py":            "def main(): pass\n",
		"tests/test_app.py": "def test_main(): pass\n",
	})

	result, err := Run(Options{Targets: []string{root}, Excludes: []string{"tests/*"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 1 {
		t.Errorf("expected excluded tests, got %v", result.Files)
	}
}

func TestRunCustomEnumMarkers(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"m.py": "class S(Choices):\n    A = 1\n",
	})

	result, err := Run(Options{Targets: []string{root}, EnumMarkers: []string{"Choices"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Modules[0].Enums()) != 1 {
		t.Errorf("expected custom marker enum, got %+v", result.Modules[0].Decls)
	}
}

func sample(t *testing.T) []*extract.Module {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py": `
def get_user(): pass
def _get_secret(): pass

class Getter: pass
`,
		"b.py": `
def forget(): pass

class Mode(Enum):
    ON = 1
`,
	})
	result, err := Run(Options{Targets: []string{root}})
	if err != nil {
		t.Fatal(err)
	}
	return result.Modules
}

func countDecls(mods []*extract.Module) int {
	n := 0
	for _, m := range mods {
		n += len(m.Decls)
	}
	return n
}

func TestSelectFunctionsByPattern(t *testing.T) {
	mods := sample(t)

	got := Select(mods, []string{"get"}, Functions, VisibilityAll)
	if countDecls(got) != 1 {
		t.Fatalf("expected only the prefix match, got %d decls", countDecls(got))
	}
	if got[0].Functions()[0].Name != "get_user" {
		t.Errorf("unexpected selection: %+v", got[0].Decls)
	}
}

func TestSelectVisibility(t *testing.T) {
	mods := sample(t)

	public := Select(mods, nil, Functions, VisibilityPublic)
	if countDecls(public) != 2 {
		t.Errorf("expected 2 public functions, got %d", countDecls(public))
	}

	private := Select(mods, nil, Functions, VisibilityPrivate)
	if countDecls(private) != 1 {
		t.Errorf("expected 1 private function, got %d", countDecls(private))
	}
}

func TestSelectKinds(t *testing.T) {
	mods := sample(t)

	if countDecls(Select(mods, nil, Classes, VisibilityAll)) != 1 {
		t.Error("expected 1 class")
	}
	if countDecls(Select(mods, nil, Enums, VisibilityAll)) != 1 {
		t.Error("expected 1 enum")
	}
	if countDecls(Select(mods, nil, AnyDecl, VisibilityAll)) != 5 {
		t.Errorf("expected all 5 decls, got %d", countDecls(Select(mods, nil, AnyDecl, VisibilityAll)))
	}
}

func TestVisibilityFromFlags(t *testing.T) {
	if VisibilityFromFlags(false, false) != VisibilityAll {
		t.Error("neither flag must mean all")
	}
	if VisibilityFromFlags(true, true) != VisibilityAll {
		t.Error("both flags must mean all")
	}
	if VisibilityFromFlags(true, false) != VisibilityPublic {
		t.Error("public flag")
	}
	if VisibilityFromFlags(false, true) != VisibilityPrivate {
		t.Error("private flag")
	}
}
