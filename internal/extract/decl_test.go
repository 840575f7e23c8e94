package extract

import (
	"encoding/json"
	"testing"
)

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name string
		want Visibility
	}{
		{"open", Public},
		{"_cache", Private},
		{"__mangled", Private},
		{"__init__", Dunder},
		{"__a__", Dunder},
		{"____", Private},
		{"", Public},
	}

	for _, tt := range tests {
		if got := ClassifyName(tt.name); got != tt.want {
			t.Errorf("ClassifyName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFunctionSignatureRendering(t *testing.T) {
	mod := extractSource(t, `
def mix(a, b: int, c=1, d: str = "x", *args, e: bool = True, **kw) -> None:
    pass
`)

	want := `def mix(a, b: int, c=1, d: str = "x", *args, e: bool = True, **kw) -> None`
	if got := mod.Functions()[0].Signature(); got != want {
		t.Errorf("signature:\n got %q\nwant %q", got, want)
	}
}

func TestFunctionSignatureBareStar(t *testing.T) {
	mod := extractSource(t, `
def connect(host, *, port: int = 5432):
    pass
`)

	want := "def connect(host, *, port: int = 5432)"
	if got := mod.Functions()[0].Signature(); got != want {
		t.Errorf("signature: got %q, want %q", got, want)
	}
}

func TestClassSignatureWithoutBases(t *testing.T) {
	mod := extractSource(t, "class Plain:\n    pass\n")
	if got := mod.Classes()[0].Signature(); got != "class Plain" {
		t.Errorf("signature: got %q", got)
	}
}

func TestModuleJSONRoundTrip(t *testing.T) {
	mod := extractSource(t, `
GREETING: str = "hi"

def shout(text: str, *, times: int = 1) -> str:
    ...

class Animal(Base):
    legs: int = 4

    def speak(self) -> str: ...

class Mood(Enum):
    HAPPY = 1
    SAD = 2
`)
	mod.Path = "zoo.py"

	data, err := json.Marshal(mod)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back Module
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if back.Path != "zoo.py" {
		t.Errorf("path lost: %q", back.Path)
	}
	if len(back.Decls) != len(mod.Decls) {
		t.Fatalf("expected %d decls, got %d", len(mod.Decls), len(back.Decls))
	}
	for i := range mod.Decls {
		if back.Decls[i].DeclName() != mod.Decls[i].DeclName() {
			t.Errorf("decl %d: expected %q, got %q", i, mod.Decls[i].DeclName(), back.Decls[i].DeclName())
		}
	}

	fn := back.Functions()[0]
	if fn.Signature() != mod.Functions()[0].Signature() {
		t.Errorf("function signature lost: %q", fn.Signature())
	}

	enums := back.Enums()
	if len(enums) != 1 || len(enums[0].Members) != 2 {
		t.Fatalf("enum lost in round trip: %+v", enums)
	}
	if enums[0].Members[0].Name != "HAPPY" {
		t.Errorf("member order lost: %+v", enums[0].Members)
	}

	classes := back.Classes()
	if len(classes) != 1 || len(classes[0].Fields) != 1 || classes[0].Fields[0].Signature() != "legs: int" {
		t.Errorf("class fields lost: %+v", classes)
	}
}
