package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hargabyte/pyr/internal/typeref"
)

// extractFunction reads a function_definition node. isMethod refines the
// kind from the decorators; top-level functions stay PlainFunction.
func (e *Extractor) extractFunction(node *sitter.Node, source []byte, decorators []string, isMethod bool) (*FunctionDecl, error) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil, structural(node)
	}
	name := nameNode.Content(source)

	fn := &FunctionDecl{
		Name:       name,
		Line:       node.StartPoint().Row + 1,
		Async:      isAsync(node),
		Kind:       PlainFunction,
		Decorators: decorators,
		Visibility: ClassifyName(name),
	}
	if isMethod {
		fn.Kind = methodKind(decorators)
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = classifyParameters(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = typeref.Normalize(ret, source)
	}
	return fn, nil
}

// isAsync checks for the async keyword token preceding def.
func isAsync(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

// methodKind applies decorator-based refinement. When several markers
// stack, the last one wins.
func methodKind(decorators []string) MethodKind {
	kind := InstanceMethod
	for _, dec := range decorators {
		switch leaf := decoratorLeaf(dec); {
		case leaf == "staticmethod":
			kind = StaticMethod
		case leaf == "classmethod":
			kind = ClassMethod
		case leaf == "property", leaf == "cached_property":
			kind = PropertyMethod
		case strings.HasSuffix(dec, ".setter"), strings.HasSuffix(dec, ".getter"), strings.HasSuffix(dec, ".deleter"):
			kind = PropertyMethod
		}
	}
	return kind
}

// decoratorLeaf reduces a rendered decorator to its final name:
// "functools.cached_property" -> "cached_property", "route(...)" -> "route".
func decoratorLeaf(dec string) string {
	if i := strings.IndexByte(dec, '('); i >= 0 {
		dec = dec[:i]
	}
	if i := strings.LastIndexByte(dec, '.'); i >= 0 {
		dec = dec[i+1:]
	}
	return dec
}

// classifyParameters walks a parameters node and assigns each entry its
// binding kind. Parameters after a bare * separator or a *args are
// keyword-only; the / separator declares nothing itself.
func classifyParameters(params *sitter.Node, source []byte) []Parameter {
	var out []Parameter
	afterStar := false

	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)

		switch child.Type() {
		case "identifier":
			kind := Positional
			if afterStar {
				kind = KeywordOnly
			}
			out = append(out, Parameter{Name: child.Content(source), Kind: kind})

		case "typed_parameter":
			p := typedParameter(child, source, afterStar)
			if p.Kind == VarPositional {
				afterStar = true
			}
			out = append(out, p)

		case "default_parameter", "typed_default_parameter":
			p := defaultParameter(child, source, afterStar)
			out = append(out, p)

		case "list_splat_pattern":
			out = append(out, Parameter{Name: splatName(child, source), Kind: VarPositional})
			afterStar = true

		case "dictionary_splat_pattern":
			out = append(out, Parameter{Name: splatName(child, source), Kind: VarKeyword})

		case "keyword_separator":
			afterStar = true

		case "positional_separator":
			// The / marker ends positional-only parameters.
		}
	}
	return out
}

// typedParameter handles "x: T" and the splatted forms "*args: T" and
// "**kwargs: T", which nest the pattern inside the typed node.
func typedParameter(node *sitter.Node, source []byte, afterStar bool) Parameter {
	p := Parameter{Kind: Positional}
	if afterStar {
		p.Kind = KeywordOnly
	}

	inner := node.NamedChild(0)
	switch {
	case inner == nil:
		// Grammar guarantees a pattern child; fall through empty.
	case inner.Type() == "list_splat_pattern":
		p.Name = splatName(inner, source)
		p.Kind = VarPositional
	case inner.Type() == "dictionary_splat_pattern":
		p.Name = splatName(inner, source)
		p.Kind = VarKeyword
	default:
		p.Name = inner.Content(source)
	}

	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		p.Annotation = typeref.Normalize(typeNode, source)
	}
	return p
}

// defaultParameter handles "x=1" and "x: T = 1".
func defaultParameter(node *sitter.Node, source []byte, afterStar bool) Parameter {
	p := Parameter{Kind: PositionalWithDefault}
	if afterStar {
		p.Kind = KeywordOnly
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		p.Name = nameNode.Content(source)
	}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		p.Annotation = typeref.Normalize(typeNode, source)
	}
	if value := node.ChildByFieldName("value"); value != nil {
		p.Default = typeref.Render(value, source)
	}
	return p
}

// splatName strips the * or ** by reading the identifier inside the
// splat pattern.
func splatName(node *sitter.Node, source []byte) string {
	if id := node.NamedChild(0); id != nil {
		return id.Content(source)
	}
	return ""
}
