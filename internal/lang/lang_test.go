package lang

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolve_Fallback(t *testing.T) {
	view := Table{
		"en": {"greet": "Hi", "bye": "Bye"},
		"de": {"greet": "Hallo"},
	}

	m := Resolve(view, nil, "de")

	if m["greet"] != "Hallo" {
		t.Errorf("greet = %q, want the German translation", m["greet"])
	}
	// Keys undefined in the requested language fall back to English.
	if m["bye"] != "Bye" {
		t.Errorf("bye = %q, want the English fallback", m["bye"])
	}
}

func TestResolve_LanguageAbsent(t *testing.T) {
	view := Table{"en": {"greet": "Hi"}}

	m := Resolve(view, nil, "fr")

	if m["greet"] != "Hi" {
		t.Errorf("greet = %q, want English for an absent language", m["greet"])
	}
}

func TestResolve_ViewAndLayout(t *testing.T) {
	view := Table{
		"en": {"greet": "Hi"},
		"de": {"greet": "Hallo"},
	}
	layout := Table{"en": {"footer": "Bye"}}

	m := Resolve(view, layout, "de")

	want := Map{"greet": "Hallo", "footer": "Bye"}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Resolve = %v, want %v", m, want)
	}
}

func TestResolve_SharedKeyLayoutWins(t *testing.T) {
	// Both merges use plain assignment, so the layout's entry survives for
	// a key defined in both tables. The two-pass structure reads as
	// view-first, but last-write-wins is the contract.
	view := Table{"en": {"title": "From View"}}
	layout := Table{"en": {"title": "From Layout"}}

	m := Resolve(view, layout, "en")

	if m["title"] != "From Layout" {
		t.Errorf("title = %q, want the layout's entry", m["title"])
	}
}

func TestResolve_KeysComeFromEnglishBranch(t *testing.T) {
	// A key present only under the requested language is invisible: the
	// English branch decides which keys exist.
	view := Table{
		"en": {"greet": "Hi"},
		"de": {"greet": "Hallo", "extra": "Nur Deutsch"},
	}

	m := Resolve(view, nil, "de")

	if _, ok := m["extra"]; ok {
		t.Error("key absent from the English branch must not resolve")
	}
}

func TestResolve_KeysLowercased(t *testing.T) {
	view := Table{"en": {"Greet": "Hi"}}

	m := Resolve(view, nil, "EN")

	if m["greet"] != "Hi" {
		t.Errorf("resolved map should be keyed lowercase, got %v", m)
	}
}

func TestResolve_RequestedCodeCaseInsensitive(t *testing.T) {
	view := Table{
		"en": {"greet": "Hi"},
		"de": {"greet": "Hallo"},
	}

	if m := Resolve(view, nil, "DE"); m["greet"] != "Hallo" {
		t.Errorf("greet = %q, requested code should compare lowercased", m["greet"])
	}
}

func TestResolve_NilTables(t *testing.T) {
	m := Resolve(nil, nil, "en")
	if len(m) != 0 {
		t.Errorf("expected empty map for nil tables, got %v", m)
	}
}

func TestLookup(t *testing.T) {
	m := Map{"greet": "Hi"}

	if got := m.Lookup("Greet"); got != "Hi" {
		t.Errorf("Lookup(Greet) = %q, want Hi", got)
	}
	// Unknown keys resolve to themselves instead of failing.
	if got := m.Lookup("missing"); got != "missing" {
		t.Errorf("Lookup(missing) = %q, want the key itself", got)
	}
}

func TestEcho(t *testing.T) {
	m := Map{"greet": "Hallo"}
	var sb strings.Builder
	if err := m.Echo(&sb, "Greet"); err != nil {
		t.Fatalf("Echo returned error: %v", err)
	}
	if sb.String() != "Hallo" {
		t.Errorf("Echo wrote %q", sb.String())
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte("en:\n  greet: Hi\nde:\n  greet: Hallo\n")

	table, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML returned error: %v", err)
	}

	if table["de"]["greet"] != "Hallo" {
		t.Errorf("table = %v", table)
	}

	m := Resolve(table, nil, "de")
	if m["greet"] != "Hallo" {
		t.Errorf("resolved = %v", m)
	}
}

func TestParseYAML_Invalid(t *testing.T) {
	if _, err := ParseYAML([]byte("en: [not a map")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
