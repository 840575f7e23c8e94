package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hargabyte/pyr/internal/typeref"
)

// extractClass reads a class_definition node. Classes whose base list
// names an enum marker come back as *EnumDecl, everything else as
// *ClassDecl.
func (e *Extractor) extractClass(node *sitter.Node, source []byte, decorators []string) (Decl, error) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil, structural(node)
	}
	name := nameNode.Content(source)

	class := ClassDecl{
		Name:       name,
		Line:       node.StartPoint().Row + 1,
		Decorators: decorators,
		Visibility: ClassifyName(name),
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			class.Bases = append(class.Bases, typeref.Normalize(supers.NamedChild(i), source))
		}
	}

	isEnum := false
	for _, base := range class.Bases {
		if e.enumMarkers[base.LeafName()] {
			isEnum = true
			break
		}
	}

	var members []*EnumMember
	if body := node.ChildByFieldName("body"); body != nil {
		members = e.extractClassBody(&class, body, source, isEnum)
	}

	if isEnum {
		return &EnumDecl{ClassDecl: class, Members: members}, nil
	}
	return &class, nil
}

// extractClassBody folds the statements of a class block into methods,
// fields, and (for enums) members. Nested classes are not descended into.
func (e *Extractor) extractClassBody(class *ClassDecl, body *sitter.Node, source []byte, isEnum bool) []*EnumMember {
	var members []*EnumMember

	addMethod := func(def *sitter.Node, decorators []string) {
		method, err := e.extractFunction(def, source, decorators, true)
		if err != nil {
			return
		}
		class.Methods = append(class.Methods, method)
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)

		switch stmt.Type() {
		case "function_definition":
			addMethod(stmt, nil)

		case "decorated_definition":
			decorators := extractDecorators(stmt, source)
			if def := stmt.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
				addMethod(def, decorators)
			}

		case "expression_statement":
			assign := stmt.NamedChild(0)
			if assign == nil || assign.Type() != "assignment" {
				continue
			}
			annotated := assign.ChildByFieldName("type") != nil

			// In an enum body, plain assignments are the members;
			// annotated ones stay ordinary fields.
			if isEnum && !annotated {
				if m := extractEnumMember(assign, source); m != nil {
					members = append(members, m)
				}
				continue
			}

			field := extractField(assign, source)
			if field == nil {
				continue
			}
			if !annotated && field.Visibility == Dunder {
				// __slots__ and friends say nothing about the data model.
				continue
			}
			class.Fields = append(class.Fields, field)
		}
	}
	return members
}

func extractEnumMember(assign *sitter.Node, source []byte) *EnumMember {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}
	name := left.Content(source)
	if ClassifyName(name) == Dunder {
		return nil
	}

	member := &EnumMember{Name: name, Line: assign.StartPoint().Row + 1}
	if right := assign.ChildByFieldName("right"); right != nil {
		member.Value = typeref.Render(right, source)
	}
	return member
}
