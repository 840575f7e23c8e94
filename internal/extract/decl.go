// Package extract turns parsed Python syntax trees into declaration records:
// functions, classes, enums, and annotated fields, with their signatures,
// parameters, decorators, and visibility.
package extract

import (
	"strings"

	"github.com/hargabyte/pyr/internal/typeref"
)

// Visibility classifies a declaration by its naming convention.
type Visibility string

const (
	// Public names carry no underscore prefix.
	Public Visibility = "public"
	// Private names start with a single underscore (or a non-dunder
	// double underscore, which Python name-mangles).
	Private Visibility = "private"
	// Dunder names are wrapped in double underscores, e.g. __init__.
	Dunder Visibility = "dunder"
)

// ClassifyName derives visibility from a Python identifier. Dunder and
// private are mutually exclusive; the dunder check runs first.
func ClassifyName(name string) Visibility {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4 {
		return Dunder
	}
	if strings.HasPrefix(name, "_") {
		return Private
	}
	return Public
}

// ParamKind classifies a function parameter by how it binds arguments.
type ParamKind string

const (
	Positional            ParamKind = "positional"
	PositionalWithDefault ParamKind = "positional_with_default"
	VarPositional         ParamKind = "var_positional"
	KeywordOnly           ParamKind = "keyword_only"
	VarKeyword            ParamKind = "var_keyword"
)

// MethodKind classifies a function declaration. Top-level functions are
// plain functions; methods are refined by their decorators.
type MethodKind string

const (
	PlainFunction  MethodKind = "function"
	InstanceMethod MethodKind = "instance"
	StaticMethod   MethodKind = "static"
	ClassMethod    MethodKind = "class"
	PropertyMethod MethodKind = "property"
)

// Parameter is one entry in a function's parameter list. Name never
// carries the * or ** prefix; Kind records it instead.
type Parameter struct {
	Name       string           `json:"name"`
	Kind       ParamKind        `json:"kind"`
	Annotation *typeref.TypeRef `json:"annotation,omitempty"`
	Default    string           `json:"default,omitempty"`
}

// FunctionDecl describes a function or method definition.
type FunctionDecl struct {
	Name       string           `json:"name"`
	Line       uint32           `json:"line"`
	Async      bool             `json:"async,omitempty"`
	Kind       MethodKind       `json:"method_kind"`
	Decorators []string         `json:"decorators,omitempty"`
	Params     []Parameter      `json:"params"`
	Returns    *typeref.TypeRef `json:"returns,omitempty"`
	Visibility Visibility       `json:"visibility"`
}

// Field describes an annotated (or bare class-level) assignment.
type Field struct {
	Name       string           `json:"name"`
	Line       uint32           `json:"line"`
	Annotation *typeref.TypeRef `json:"annotation,omitempty"`
	Default    string           `json:"default,omitempty"`
	Visibility Visibility       `json:"visibility"`
}

// EnumMember is one plain NAME = value assignment in an enum class body.
type EnumMember struct {
	Name  string `json:"name"`
	Line  uint32 `json:"line"`
	Value string `json:"value,omitempty"`
}

// ClassDecl describes a class definition with its methods and fields.
type ClassDecl struct {
	Name       string             `json:"name"`
	Line       uint32             `json:"line"`
	Bases      []*typeref.TypeRef `json:"bases,omitempty"`
	Decorators []string           `json:"decorators,omitempty"`
	Methods    []*FunctionDecl    `json:"methods,omitempty"`
	Fields     []*Field           `json:"fields,omitempty"`
	Visibility Visibility         `json:"visibility"`
}

// EnumDecl is a class recognized as an enum by its base classes, with
// the plain assignments of its body promoted to members.
type EnumDecl struct {
	ClassDecl
	Members []*EnumMember `json:"members,omitempty"`
}

// Decl is any top-level declaration in a module, in source order.
type Decl interface {
	DeclName() string
	DeclLine() uint32
}

func (f *FunctionDecl) DeclName() string { return f.Name }
func (f *FunctionDecl) DeclLine() uint32 { return f.Line }
func (c *ClassDecl) DeclName() string    { return c.Name }
func (c *ClassDecl) DeclLine() uint32    { return c.Line }
func (f *Field) DeclName() string        { return f.Name }
func (f *Field) DeclLine() uint32        { return f.Line }

// Module holds the declarations of one source file, in source order.
type Module struct {
	Path  string `json:"path"`
	Decls []Decl `json:"decls"`
}

// Functions returns the module's top-level function declarations.
func (m *Module) Functions() []*FunctionDecl {
	var out []*FunctionDecl
	for _, d := range m.Decls {
		if f, ok := d.(*FunctionDecl); ok {
			out = append(out, f)
		}
	}
	return out
}

// Classes returns the module's non-enum class declarations.
func (m *Module) Classes() []*ClassDecl {
	var out []*ClassDecl
	for _, d := range m.Decls {
		if c, ok := d.(*ClassDecl); ok {
			out = append(out, c)
		}
	}
	return out
}

// Enums returns the module's enum declarations.
func (m *Module) Enums() []*EnumDecl {
	var out []*EnumDecl
	for _, d := range m.Decls {
		if e, ok := d.(*EnumDecl); ok {
			out = append(out, e)
		}
	}
	return out
}

// Fields returns the module's top-level annotated assignments.
func (m *Module) Fields() []*Field {
	var out []*Field
	for _, d := range m.Decls {
		if f, ok := d.(*Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// Signature renders the declaration header on one line, e.g.
// "async def fetch(url: str, *, retries: int = 3) -> bytes".
func (f *FunctionDecl) Signature() string {
	var b strings.Builder
	if f.Async {
		b.WriteString("async ")
	}
	b.WriteString("def ")
	b.WriteString(f.Name)
	b.WriteByte('(')

	// A bare * separator is reproduced when keyword-only parameters
	// follow without a *args to introduce them.
	starNeeded := false
	for _, p := range f.Params {
		if p.Kind == KeywordOnly {
			starNeeded = true
		}
		if p.Kind == VarPositional {
			starNeeded = false
			break
		}
	}

	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if starNeeded && p.Kind == KeywordOnly {
			b.WriteString("*, ")
			starNeeded = false
		}
		b.WriteString(p.render())
	}
	b.WriteByte(')')

	if f.Returns != nil {
		b.WriteString(" -> ")
		b.WriteString(f.Returns.String())
	}
	return b.String()
}

func (p Parameter) render() string {
	var b strings.Builder
	switch p.Kind {
	case VarPositional:
		b.WriteByte('*')
	case VarKeyword:
		b.WriteString("**")
	}
	b.WriteString(p.Name)
	if p.Annotation != nil {
		b.WriteString(": ")
		b.WriteString(p.Annotation.String())
		if p.Default != "" {
			b.WriteString(" = ")
			b.WriteString(p.Default)
		}
	} else if p.Default != "" {
		b.WriteByte('=')
		b.WriteString(p.Default)
	}
	return b.String()
}

// Signature renders "class Name(Base, Mixin)", without parentheses when
// the class has no bases.
func (c *ClassDecl) Signature() string {
	if len(c.Bases) == 0 {
		return "class " + c.Name
	}
	parts := make([]string, len(c.Bases))
	for i, base := range c.Bases {
		parts[i] = base.String()
	}
	return "class " + c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Signature renders "name: type", or just the name when unannotated.
func (f *Field) Signature() string {
	if f.Annotation == nil {
		return f.Name
	}
	return f.Name + ": " + f.Annotation.String()
}
