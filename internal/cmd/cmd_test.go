package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/hargabyte/pyr/internal/extract"
	"github.com/hargabyte/pyr/internal/output"
)

func resetFlags(t *testing.T) {
	t.Helper()
	oldTarget, oldFormat := targetPaths, formatFlag
	oldAlpha, oldNoCache, oldVerbose := alphabetical, noCache, verbose
	t.Cleanup(func() {
		targetPaths, formatFlag = oldTarget, oldFormat
		alphabetical, noCache, verbose = oldAlpha, oldNoCache, oldVerbose
	})
}

func TestNewRunContextDefaults(t *testing.T) {
	resetFlags(t)
	targetPaths = []string{t.TempDir()}
	formatFlag = ""

	r, err := newRunContext()
	if err != nil {
		t.Fatalf("newRunContext failed: %v", err)
	}
	if r.format != output.FormatYAML {
		t.Errorf("expected yaml default, got %v", r.format)
	}
	if r.alphabetical {
		t.Error("expected source order by default")
	}
}

func TestNewRunContextFormatFlagOverridesConfig(t *testing.T) {
	resetFlags(t)
	root := t.TempDir()
	dir := filepath.Join(root, ".pyr")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  format: yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	targetPaths = []string{root}
	formatFlag = "json"

	r, err := newRunContext()
	if err != nil {
		t.Fatalf("newRunContext failed: %v", err)
	}
	if r.format != output.FormatJSON {
		t.Errorf("expected flag to win, got %v", r.format)
	}
}

func TestNewRunContextRejectsBadFormat(t *testing.T) {
	resetFlags(t)
	targetPaths = []string{t.TempDir()}
	formatFlag = "xml"

	if _, err := newRunContext(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestRelativizeModules(t *testing.T) {
	base := filepath.Join("some", "proj")
	other := filepath.Join("other", "lib")
	mods := []*extract.Module{
		{Path: filepath.Join(base, "pkg", "app.py")},
		{Path: filepath.Join(other, "x.py")},
		{Path: filepath.Join("elsewhere", "y.py")},
	}

	relativizeModules(mods, []string{base, other})

	if mods[0].Path != "pkg/app.py" {
		t.Errorf("expected relative path, got %q", mods[0].Path)
	}
	if mods[1].Path != "x.py" {
		t.Errorf("expected second target to apply, got %q", mods[1].Path)
	}
	if mods[2].Path != filepath.Join("elsewhere", "y.py") {
		t.Errorf("path outside every target must stay, got %q", mods[2].Path)
	}
}

// runCommand executes the root command with args, capturing stdout.
func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	resetFlags(t)

	// Slice flags append across Execute calls in one process, so each
	// run starts with the target flag emptied.
	if f := rootCmd.PersistentFlags().Lookup("target"); f != nil {
		f.Value.(pflag.SliceValue).Replace(nil)
		f.Changed = false
	}

	old := os.Stdout
	rd, wr, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = wr

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	wr.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, rd)

	if execErr != nil {
		t.Fatalf("command %v failed: %v", args, execErr)
	}
	return buf.String()
}

func projectDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	source := `
def fetch(url: str) -> bytes: ...

def _retry(): pass

class Client:
    timeout: int = 30

    def close(self) -> None: ...

class Level(Enum):
    LOW = 1
    HIGH = 2
`
	if err := os.WriteFile(filepath.Join(root, "net.py"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestFunctionCommand(t *testing.T) {
	got := runCommand(t, "function", "-t", projectDir(t))

	for _, want := range []string{"net.py", "def fetch(url: str) -> bytes", "def _retry()"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "class Client") {
		t.Errorf("class leaked into function listing:\n%s", got)
	}
}

func TestFunctionCommandPublicFlag(t *testing.T) {
	got := runCommand(t, "function", "-t", projectDir(t), "--public")

	if strings.Contains(got, "_retry") {
		t.Errorf("private function leaked:\n%s", got)
	}
	if !strings.Contains(got, "fetch") {
		t.Errorf("public function missing:\n%s", got)
	}
}

func TestClassCommandJSON(t *testing.T) {
	got := runCommand(t, "class", "-t", projectDir(t), "--format", "json")

	for _, want := range []string{"class Client", "timeout: int", "def close(self) -> None"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Level") {
		t.Errorf("enum leaked into class listing:\n%s", got)
	}
}

func TestEnumCommand(t *testing.T) {
	got := runCommand(t, "enum", "-t", projectDir(t))

	for _, want := range []string{"class Level(Enum)", "LOW", "HIGH"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
}

func TestDumpCommandPattern(t *testing.T) {
	got := runCommand(t, "dump", "-t", projectDir(t), "Client")

	if !strings.Contains(got, "class Client") {
		t.Errorf("pattern match missing:\n%s", got)
	}
	if strings.Contains(got, "fetch") {
		t.Errorf("unmatched declaration leaked:\n%s", got)
	}
}

func TestModuleCommand(t *testing.T) {
	got := runCommand(t, "module", "-t", projectDir(t))

	for _, want := range []string{"modules", "net", "module"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
}

func TestModuleCommandPattern(t *testing.T) {
	root := t.TempDir()
	for rel, src := range map[string]string{
		"auth.py":       "def login(): pass\n",
		"pkg/db.py":     "def query(): pass\n",
		"pkg/routes.py": "def route(): pass\n",
	} {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := runCommand(t, "module", "-t", root, "auth")

	if !strings.Contains(got, "auth") {
		t.Errorf("matched module missing:\n%s", got)
	}
	for _, unwanted := range []string{"db", "routes"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("unmatched module %q leaked:\n%s", unwanted, got)
		}
	}
}

func TestFunctionCommandMultipleTargets(t *testing.T) {
	second := t.TempDir()
	if err := os.WriteFile(filepath.Join(second, "extra.py"), []byte("def extra(): pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := runCommand(t, "function", "-t", projectDir(t), "-t", second)

	for _, want := range []string{"def fetch(url: str) -> bytes", "def extra()", "extra.py"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
}
