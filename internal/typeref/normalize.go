package typeref

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Normalize converts an expression node into a TypeRef. It is total: any
// node shape it does not model (lambdas, non-union binary operators, ...)
// becomes an Unsupported reference carrying the raw source rendering, and a
// nil node becomes an empty Unsupported. It never fails.
func Normalize(node *sitter.Node, source []byte) *TypeRef {
	if node == nil {
		return &TypeRef{Kind: Unsupported}
	}

	switch node.Type() {
	case "type", "parenthesized_expression":
		// Wrapper nodes with a single interesting child.
		if inner := node.NamedChild(0); inner != nil {
			return Normalize(inner, source)
		}
		return unsupported(node, source)

	case "identifier":
		return &TypeRef{Kind: Name, Name: rawText(node, source)}

	case "attribute":
		if path := flattenAttribute(node, source); path != nil {
			return &TypeRef{Kind: Qualified, Path: path}
		}
		return unsupported(node, source)

	case "subscript":
		// Named children are the subscripted value followed by the
		// subscript arguments, in order.
		base := Normalize(node.NamedChild(0), source)
		var args []*TypeRef
		for i := 1; i < int(node.NamedChildCount()); i++ {
			args = append(args, Normalize(node.NamedChild(i), source))
		}
		return &TypeRef{Kind: Subscript, Base: base, Args: args}

	case "binary_operator":
		op := node.ChildByFieldName("operator")
		if op == nil || op.Type() != "|" {
			return unsupported(node, source)
		}
		left := Normalize(node.ChildByFieldName("left"), source)
		right := Normalize(node.ChildByFieldName("right"), source)
		members := append(flattenUnion(left), flattenUnion(right)...)
		return &TypeRef{Kind: Union, Args: members}

	case "tuple":
		return &TypeRef{Kind: Tuple, Args: normalizeChildren(node, source)}

	case "list":
		return &TypeRef{Kind: List, Args: normalizeChildren(node, source)}

	case "call":
		callee := Normalize(node.ChildByFieldName("function"), source)
		var args []*TypeRef
		if argList := node.ChildByFieldName("arguments"); argList != nil {
			args = normalizeChildren(argList, source)
		}
		return &TypeRef{Kind: Call, Base: callee, Args: args}

	case "none":
		return literal(node, source, LiteralNone)
	case "true", "false":
		return literal(node, source, LiteralBool)
	case "string", "concatenated_string":
		return literal(node, source, LiteralString)
	case "integer":
		return literal(node, source, LiteralInt)
	case "float":
		return literal(node, source, LiteralFloat)
	case "ellipsis":
		return literal(node, source, LiteralEllipsis)

	default:
		return unsupported(node, source)
	}
}

// Render is shorthand for the textual form of a normalized expression, used
// for default values, decorators, and enum member values.
func Render(node *sitter.Node, source []byte) string {
	return Normalize(node, source).String()
}

// flattenAttribute collapses an attribute chain into its path components.
// Returns nil when the chain is rooted in something other than a name
// (e.g. a call result), which has no meaningful qualified path.
func flattenAttribute(node *sitter.Node, source []byte) []string {
	obj := node.ChildByFieldName("object")
	attr := node.ChildByFieldName("attribute")
	if obj == nil || attr == nil {
		return nil
	}

	var prefix []string
	switch obj.Type() {
	case "identifier":
		prefix = []string{rawText(obj, source)}
	case "attribute":
		prefix = flattenAttribute(obj, source)
		if prefix == nil {
			return nil
		}
	default:
		return nil
	}

	return append(prefix, rawText(attr, source))
}

// flattenUnion merges nested unions so a | b | c yields one 3-member union.
func flattenUnion(t *TypeRef) []*TypeRef {
	if t.Kind == Union {
		return t.Args
	}
	return []*TypeRef{t}
}

func normalizeChildren(node *sitter.Node, source []byte) []*TypeRef {
	var refs []*TypeRef
	for i := 0; i < int(node.NamedChildCount()); i++ {
		refs = append(refs, Normalize(node.NamedChild(i), source))
	}
	return refs
}

func literal(node *sitter.Node, source []byte, kind LiteralKind) *TypeRef {
	return &TypeRef{Kind: Literal, Literal: kind, Text: rawText(node, source)}
}

func unsupported(node *sitter.Node, source []byte) *TypeRef {
	return &TypeRef{Kind: Unsupported, Text: rawText(node, source)}
}

// rawText returns the node's source text with runs of whitespace collapsed,
// so multi-line expressions render on one line.
func rawText(node *sitter.Node, source []byte) string {
	text := node.Content(source)
	if !strings.ContainsAny(text, "\n\t") {
		return text
	}
	return strings.Join(strings.Fields(text), " ")
}
