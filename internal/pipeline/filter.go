package pipeline

import (
	"github.com/hargabyte/pyr/internal/extract"
	"github.com/hargabyte/pyr/internal/pattern"
)

// Visibility selects declarations by naming convention.
type Visibility int

const (
	// VisibilityAll keeps everything.
	VisibilityAll Visibility = iota
	// VisibilityPublic keeps names without underscore prefixes.
	VisibilityPublic
	// VisibilityPrivate keeps underscore-prefixed and dunder names.
	VisibilityPrivate
)

// VisibilityFromFlags maps the --public/--private pair to a filter.
// Both set means no filtering, same as neither.
func VisibilityFromFlags(public, private bool) Visibility {
	switch {
	case public == private:
		return VisibilityAll
	case public:
		return VisibilityPublic
	default:
		return VisibilityPrivate
	}
}

func (v Visibility) keeps(d extract.Decl) bool {
	switch v {
	case VisibilityPublic:
		return declVisibility(d) == extract.Public
	case VisibilityPrivate:
		return declVisibility(d) != extract.Public
	default:
		return true
	}
}

func declVisibility(d extract.Decl) extract.Visibility {
	switch v := d.(type) {
	case *extract.FunctionDecl:
		return v.Visibility
	case *extract.EnumDecl:
		return v.Visibility
	case *extract.ClassDecl:
		return v.Visibility
	case *extract.Field:
		return v.Visibility
	default:
		return extract.Public
	}
}

// Kind predicates for Select.
var (
	Functions = func(d extract.Decl) bool { _, ok := d.(*extract.FunctionDecl); return ok }
	Classes   = func(d extract.Decl) bool { _, ok := d.(*extract.ClassDecl); return ok }
	Enums     = func(d extract.Decl) bool { _, ok := d.(*extract.EnumDecl); return ok }
	AnyDecl   = func(d extract.Decl) bool { return true }
)

type declRef struct {
	module int
	decl   extract.Decl
}

// Select returns per-module copies keeping only declarations that pass
// the kind predicate and visibility, then match the patterns. The
// cascading pattern match is evaluated globally across all modules, so
// a strong match in one file suppresses loose matches everywhere.
func Select(mods []*extract.Module, patterns []string, kind func(extract.Decl) bool, vis Visibility) []*extract.Module {
	var refs []declRef
	for i, mod := range mods {
		for _, d := range mod.Decls {
			if kind(d) && vis.keeps(d) {
				refs = append(refs, declRef{module: i, decl: d})
			}
		}
	}

	matched := pattern.Filter(refs, func(r declRef) string { return r.decl.DeclName() }, patterns)
	selected := make(map[extract.Decl]bool, len(matched))
	for _, r := range matched {
		selected[r.decl] = true
	}

	out := make([]*extract.Module, len(mods))
	for i, mod := range mods {
		filtered := &extract.Module{Path: mod.Path}
		for _, d := range mod.Decls {
			if selected[d] {
				filtered.Decls = append(filtered.Decls, d)
			}
		}
		out[i] = filtered
	}
	return out
}
