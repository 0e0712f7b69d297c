// Package lang resolves per-language string tables for rendering.
//
// A view and its layout each declare a Table. For one render call the two
// tables are flattened into a single request-scoped Map keyed by lowercased
// key, with English as the fallback language. The resolved map is a plain
// value threaded through the render call, never process-wide state.
package lang

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table maps a language code to its key/translation pairs. An "en" branch is
// treated as always present (empty when absent) and defines which keys exist
// at all.
type Table map[string]map[string]string

// Map is the flattened, lowercase-keyed lookup resolved for one request.
type Map map[string]string

// Resolve merges the view table, then the layout table, for the requested
// language. The accumulator is not cleared between the two merges and both
// use plain assignment, so for a key defined in both tables the layout's
// entry is the one that survives. That last-write-wins behavior is the
// contract, even though the two-pass structure reads as view-first.
func Resolve(view, layout Table, requested string) Map {
	m := make(Map)
	code := strings.ToLower(requested)
	mergeInto(m, view, code)
	mergeInto(m, layout, code)
	return m
}

// mergeInto copies one table's entries into m. Keys come from the table's
// "en" branch; each takes the requested-language translation when present,
// else the English one.
func mergeInto(m Map, t Table, code string) {
	for key, english := range t["en"] {
		if translated, ok := t[code][key]; ok {
			m[strings.ToLower(key)] = translated
		} else {
			m[strings.ToLower(key)] = english
		}
	}
}

// Lookup returns the translation for key. A key with no entry resolves to
// itself, so an untranslated view renders its keys instead of failing.
func (m Map) Lookup(key string) string {
	if v, ok := m[strings.ToLower(key)]; ok {
		return v
	}
	return key
}

// Echo writes the translation for key straight to w, for views that stream
// their output instead of composing strings.
func (m Map) Echo(w io.Writer, key string) error {
	_, err := io.WriteString(w, m.Lookup(key))
	return err
}

// ParseYAML decodes a Table, letting translations live in files next to
// their views:
//
//	en:
//	  greet: Hi
//	de:
//	  greet: Hallo
func ParseYAML(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("lang: parse table: %w", err)
	}
	return t, nil
}
