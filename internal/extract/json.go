package extract

import (
	"encoding/json"
	"fmt"
)

// declEnvelope tags each declaration with its kind so a module survives
// a JSON round trip through the cache with concrete types intact.
type declEnvelope struct {
	Kind     string          `json:"kind"`
	Function *FunctionDecl   `json:"function,omitempty"`
	Class    *ClassDecl      `json:"class,omitempty"`
	Enum     *EnumDecl       `json:"enum,omitempty"`
	Field    *Field          `json:"field,omitempty"`
}

type moduleJSON struct {
	Path  string         `json:"path"`
	Decls []declEnvelope `json:"decls,omitempty"`
}

// MarshalJSON implements json.Marshaler, preserving declaration order.
func (m *Module) MarshalJSON() ([]byte, error) {
	out := moduleJSON{Path: m.Path}
	for _, d := range m.Decls {
		switch v := d.(type) {
		case *EnumDecl:
			out.Decls = append(out.Decls, declEnvelope{Kind: "enum", Enum: v})
		case *ClassDecl:
			out.Decls = append(out.Decls, declEnvelope{Kind: "class", Class: v})
		case *FunctionDecl:
			out.Decls = append(out.Decls, declEnvelope{Kind: "function", Function: v})
		case *Field:
			out.Decls = append(out.Decls, declEnvelope{Kind: "field", Field: v})
		default:
			return nil, fmt.Errorf("unknown declaration type %T", d)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Module) UnmarshalJSON(data []byte) error {
	var in moduleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	m.Path = in.Path
	m.Decls = nil
	for _, env := range in.Decls {
		switch env.Kind {
		case "enum":
			if env.Enum != nil {
				m.Decls = append(m.Decls, env.Enum)
			}
		case "class":
			if env.Class != nil {
				m.Decls = append(m.Decls, env.Class)
			}
		case "function":
			if env.Function != nil {
				m.Decls = append(m.Decls, env.Function)
			}
		case "field":
			if env.Field != nil {
				m.Decls = append(m.Decls, env.Field)
			}
		default:
			return fmt.Errorf("unknown declaration kind %q", env.Kind)
		}
	}
	return nil
}
