package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hargabyte/pyr/internal/parser"
	"github.com/hargabyte/pyr/internal/typeref"
)

// DefaultEnumMarkers are the base-class names that mark a class as an
// enum. Matching is by exact leaf name, so both Enum and enum.Enum hit,
// while EnumLike does not.
var DefaultEnumMarkers = []string{"Enum", "IntEnum", "StrEnum", "Flag", "IntFlag"}

// Extractor walks parsed modules and collects their declarations.
type Extractor struct {
	enumMarkers map[string]bool
}

// New creates an extractor. Passing no marker names keeps the defaults;
// an explicit list replaces them.
func New(enumMarkers ...string) *Extractor {
	if len(enumMarkers) == 0 {
		enumMarkers = DefaultEnumMarkers
	}
	set := make(map[string]bool, len(enumMarkers))
	for _, m := range enumMarkers {
		set[m] = true
	}
	return &Extractor{enumMarkers: set}
}

// Extract collects the top-level declarations of a parsed module, in
// source order. Nodes it cannot read are skipped; only a tree shape that
// breaks the grammar contract yields an error.
func (e *Extractor) Extract(result *parser.ParseResult) (*Module, error) {
	mod := &Module{Path: result.FilePath}
	if result.Root == nil {
		return mod, nil
	}

	for i := 0; i < int(result.Root.NamedChildCount()); i++ {
		node := result.Root.NamedChild(i)
		decl, err := e.extractStatement(node, result.Source)
		if err != nil {
			return nil, err
		}
		if decl != nil {
			mod.Decls = append(mod.Decls, decl)
		}
	}
	return mod, nil
}

// extractStatement dispatches one top-level statement. Statements that
// declare nothing (imports, calls, docstrings) return nil, nil.
func (e *Extractor) extractStatement(node *sitter.Node, source []byte) (Decl, error) {
	switch node.Type() {
	case "function_definition":
		return e.extractFunction(node, source, nil, false)

	case "class_definition":
		return e.extractClass(node, source, nil)

	case "decorated_definition":
		decorators := extractDecorators(node, source)
		def := node.ChildByFieldName("definition")
		if def == nil {
			return nil, structural(node)
		}
		switch def.Type() {
		case "function_definition":
			return e.extractFunction(def, source, decorators, false)
		case "class_definition":
			return e.extractClass(def, source, decorators)
		}
		return nil, nil

	case "expression_statement":
		// Only annotated assignments declare something at module level.
		assign := node.NamedChild(0)
		if assign == nil || assign.Type() != "assignment" {
			return nil, nil
		}
		if assign.ChildByFieldName("type") == nil {
			return nil, nil
		}
		// Attribute or subscript targets are not module fields.
		if field := extractField(assign, source); field != nil {
			return field, nil
		}
		return nil, nil
	}
	return nil, nil
}

// extractDecorators renders the decorator expressions of a decorated
// definition, in source order, without the leading @.
func extractDecorators(node *sitter.Node, source []byte) []string {
	var decorators []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		if expr := child.NamedChild(0); expr != nil {
			decorators = append(decorators, typeref.Render(expr, source))
		}
	}
	return decorators
}

// extractField reads an assignment node into a Field. The annotation is
// optional so class bodies can reuse it for bare assignments.
func extractField(assign *sitter.Node, source []byte) *Field {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}
	name := left.Content(source)

	field := &Field{
		Name:       name,
		Line:       assign.StartPoint().Row + 1,
		Visibility: ClassifyName(name),
	}
	if typeNode := assign.ChildByFieldName("type"); typeNode != nil {
		field.Annotation = typeref.Normalize(typeNode, source)
	}
	if right := assign.ChildByFieldName("right"); right != nil {
		field.Default = typeref.Render(right, source)
	}
	return field
}

func structural(node *sitter.Node) *StructuralError {
	return &StructuralError{
		NodeType: node.Type(),
		Line:     node.StartPoint().Row + 1,
		Column:   node.StartPoint().Column + 1,
	}
}
