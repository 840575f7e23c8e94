package output

import (
	"sort"

	"github.com/hargabyte/pyr/internal/extract"
)

// The document builders fold extracted modules into the nested listing
// shape the CLI prints: a top-level "files" mapping from path to the
// declarations found there. Declarations keep source order unless the
// caller asks for alphabetical listing.

// FunctionsDocument lists function signatures per file.
func FunctionsDocument(mods []*extract.Module, alphabetical bool) *Map {
	files := NewMap()
	for _, mod := range mods {
		funcs := mod.Functions()
		if len(funcs) == 0 {
			continue
		}
		if alphabetical {
			funcs = sortedByName(funcs)
		}
		entry := NewMap()
		for _, fn := range funcs {
			entry.Set(fn.Signature(), fn.Line)
		}
		files.Set(mod.Path, entry)
	}
	return NewMap().Set("files", files)
}

// ClassesDocument lists classes per file with their methods and fields.
func ClassesDocument(mods []*extract.Module, alphabetical bool) *Map {
	files := NewMap()
	for _, mod := range mods {
		classes := mod.Classes()
		if len(classes) == 0 {
			continue
		}
		if alphabetical {
			classes = sortedByName(classes)
		}
		entry := NewMap()
		for _, class := range classes {
			entry.Set(class.Signature(), classBody(class, alphabetical))
		}
		files.Set(mod.Path, entry)
	}
	return NewMap().Set("files", files)
}

// EnumsDocument lists enums per file with their members.
func EnumsDocument(mods []*extract.Module, alphabetical bool) *Map {
	files := NewMap()
	for _, mod := range mods {
		enums := mod.Enums()
		if len(enums) == 0 {
			continue
		}
		if alphabetical {
			enums = sortedByName(enums)
		}
		entry := NewMap()
		for _, enum := range enums {
			entry.Set(enum.Signature(), enumBody(enum))
		}
		files.Set(mod.Path, entry)
	}
	return NewMap().Set("files", files)
}

// DumpDocument lists every declaration per file: module fields,
// functions, classes, and enums, in source order.
func DumpDocument(mods []*extract.Module, alphabetical bool) *Map {
	files := NewMap()
	for _, mod := range mods {
		if len(mod.Decls) == 0 {
			continue
		}
		decls := mod.Decls
		if alphabetical {
			decls = sortedByName(decls)
		}
		entry := NewMap()
		for _, d := range decls {
			switch v := d.(type) {
			case *extract.FunctionDecl:
				entry.Set(v.Signature(), v.Line)
			case *extract.EnumDecl:
				entry.Set(v.Signature(), enumBody(v))
			case *extract.ClassDecl:
				entry.Set(v.Signature(), classBody(v, alphabetical))
			case *extract.Field:
				entry.Set(v.Signature(), v.Line)
			}
		}
		files.Set(mod.Path, entry)
	}
	return NewMap().Set("files", files)
}

func classBody(class *extract.ClassDecl, alphabetical bool) *Map {
	body := NewMap().Set("line", class.Line)
	if len(class.Decorators) > 0 {
		body.Set("decorators", class.Decorators)
	}

	if len(class.Fields) > 0 {
		fields := NewMap()
		for _, f := range class.Fields {
			fields.Set(f.Signature(), f.Line)
		}
		body.Set("fields", fields)
	}

	methods := class.Methods
	if alphabetical {
		methods = sortedByName(methods)
	}
	if len(methods) > 0 {
		listing := NewMap()
		for _, m := range methods {
			listing.Set(m.Signature(), m.Line)
		}
		body.Set("methods", listing)
	}
	return body
}

func enumBody(enum *extract.EnumDecl) *Map {
	body := NewMap().Set("line", enum.Line)

	if len(enum.Members) > 0 {
		members := NewMap()
		for _, m := range enum.Members {
			members.Set(m.Name, m.Value)
		}
		body.Set("members", members)
	}

	if len(enum.Fields) > 0 {
		fields := NewMap()
		for _, f := range enum.Fields {
			fields.Set(f.Signature(), f.Line)
		}
		body.Set("fields", fields)
	}

	if len(enum.Methods) > 0 {
		methods := NewMap()
		for _, m := range enum.Methods {
			methods.Set(m.Signature(), m.Line)
		}
		body.Set("methods", methods)
	}
	return body
}

// sortedByName copies and sorts declarations by name, leaving the
// original source-ordered slice untouched.
func sortedByName[T interface{ DeclName() string }](decls []T) []T {
	out := append([]T(nil), decls...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeclName() < out[j].DeclName()
	})
	return out
}
