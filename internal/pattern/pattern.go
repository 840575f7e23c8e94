// Package pattern implements cascading name matching for declaration
// lookups. A pattern is tried at four widening levels and the first
// level that produces any match wins:
//
//  1. prefix, case-sensitive
//  2. prefix, case-insensitive
//  3. substring, case-sensitive
//  4. substring, case-insensitive
//
// The cascade is evaluated globally per pattern: a case-sensitive prefix
// hit anywhere in the candidate set suppresses the looser levels for
// every candidate, so "get" finds get_user before picking up Widget.
package pattern

import "strings"

// matchers in cascade order.
var levels = []func(name, pattern string) bool{
	strings.HasPrefix,
	func(name, pattern string) bool {
		return strings.HasPrefix(strings.ToLower(name), strings.ToLower(pattern))
	},
	strings.Contains,
	func(name, pattern string) bool {
		return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
	},
}

// Matches reports whether name matches pattern at any level. It ignores
// the cascade and exists for single-candidate checks.
func Matches(name, pattern string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
}

// Filter returns the items whose names match any of the patterns,
// preserving input order without duplicates. Each pattern cascades
// independently over the whole candidate set. With no patterns every
// item matches.
func Filter[T any](items []T, name func(T) string, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}

	selected := make([]bool, len(items))
	for _, p := range patterns {
		markMatches(items, name, p, selected)
	}

	var out []T
	for i, item := range items {
		if selected[i] {
			out = append(out, item)
		}
	}
	return out
}

// markMatches flags the items matching one pattern at its winning level.
func markMatches[T any](items []T, name func(T) string, pattern string, selected []bool) {
	for _, match := range levels {
		hit := false
		for i, item := range items {
			if match(name(item), pattern) {
				selected[i] = true
				hit = true
			}
		}
		if hit {
			return
		}
	}
}
