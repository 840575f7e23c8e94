// Package typeref normalizes Python annotation expressions into a closed set
// of tagged type descriptions.
//
// Annotations in real code range from plain names to subscripted generics,
// unions, literals, and outright invalid expressions. Rather than model every
// expression kind, typeref covers the common shapes and routes everything else
// to an Unsupported variant carrying the original textual rendering, so
// normalization is total: it never fails, whatever the expression looks like.
package typeref

import "strings"

// Kind identifies the shape of a normalized type reference.
type Kind string

const (
	// Name is a simple identifier, e.g. "int".
	Name Kind = "name"
	// Qualified is an attribute chain, e.g. "typing.Optional".
	Qualified Kind = "qualified"
	// Subscript is a subscripted generic, e.g. "Dict[str, int]".
	Subscript Kind = "subscript"
	// Union is a PEP 604 union, e.g. "int | str", flattened.
	Union Kind = "union"
	// Tuple is a tuple literal used as an annotation, e.g. "(int, str)".
	Tuple Kind = "tuple"
	// List is a list literal used as an annotation, e.g. "[int, str]".
	List Kind = "list"
	// Call is a call expression, e.g. "auto()".
	Call Kind = "call"
	// Literal is a constant: None, True, False, strings, numbers, ellipsis.
	Literal Kind = "literal"
	// Unsupported is the fallback for any expression with no modeled shape.
	Unsupported Kind = "unsupported"
)

// LiteralKind identifies the constant family of a Literal reference.
type LiteralKind string

const (
	LiteralNone     LiteralKind = "none"
	LiteralBool     LiteralKind = "bool"
	LiteralString   LiteralKind = "string"
	LiteralInt      LiteralKind = "int"
	LiteralFloat    LiteralKind = "float"
	LiteralEllipsis LiteralKind = "ellipsis"
)

// TypeRef is the normalized representation of an annotation expression.
// Which fields are populated depends on Kind:
//
//	Name        -> Name
//	Qualified   -> Path (left to right)
//	Subscript   -> Base, Args
//	Union       -> Args (flattened members)
//	Tuple, List -> Args (elements)
//	Call        -> Base (callee), Args
//	Literal     -> Literal, Text (raw source text)
//	Unsupported -> Text (raw source rendering)
type TypeRef struct {
	Kind    Kind        `json:"kind"`
	Name    string      `json:"name,omitempty"`
	Path    []string    `json:"path,omitempty"`
	Base    *TypeRef    `json:"base,omitempty"`
	Args    []*TypeRef  `json:"args,omitempty"`
	Literal LiteralKind `json:"literal,omitempty"`
	Text    string      `json:"text,omitempty"`
}

// String renders the reference back to compact Python-like notation.
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}

	switch t.Kind {
	case Name:
		return t.Name
	case Qualified:
		return strings.Join(t.Path, ".")
	case Subscript:
		return t.Base.String() + "[" + joinArgs(t.Args, ", ") + "]"
	case Union:
		return joinArgs(t.Args, " | ")
	case Tuple:
		return "(" + joinArgs(t.Args, ", ") + ")"
	case List:
		return "[" + joinArgs(t.Args, ", ") + "]"
	case Call:
		return t.Base.String() + "(" + joinArgs(t.Args, ", ") + ")"
	case Literal, Unsupported:
		return t.Text
	default:
		return t.Text
	}
}

// LeafName returns the rightmost simple name of the reference, used for
// classification by base-class name. A subscripted base keeps its leaf
// (Enum in "Enum[int]"); shapes with no meaningful name return "".
func (t *TypeRef) LeafName() string {
	if t == nil {
		return ""
	}

	switch t.Kind {
	case Name:
		return t.Name
	case Qualified:
		if len(t.Path) == 0 {
			return ""
		}
		return t.Path[len(t.Path)-1]
	case Subscript:
		return t.Base.LeafName()
	default:
		return ""
	}
}

func joinArgs(args []*TypeRef, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, sep)
}
