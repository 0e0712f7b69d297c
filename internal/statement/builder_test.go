package statement

import (
	"errors"
	"reflect"
	"testing"

	"github.com/skdb/formkit/internal/form"
)

// ============================================================================
// BuildUpdate Tests
// ============================================================================

func TestBuildUpdate(t *testing.T) {
	fields := []form.Field{
		{Name: "name", Tag: form.TagString, Value: "Ann"},
		{Name: "age", DBColumn: "age_years", Tag: form.TagInt, Value: 33},
	}

	st, err := BuildUpdate("people", fields, "id", form.TagInt, 7)
	if err != nil {
		t.Fatalf("BuildUpdate returned error: %v", err)
	}

	wantSQL := "UPDATE people SET name = ?, age_years = ? WHERE id = ?;"
	if st.SQL != wantSQL {
		t.Errorf("SQL = %q, want %q", st.SQL, wantSQL)
	}

	// Key tag is always appended last.
	if st.Types != "sii" {
		t.Errorf("Types = %q, want %q", st.Types, "sii")
	}

	wantValues := []any{"Ann", 33, 7}
	if !reflect.DeepEqual(st.Values, wantValues) {
		t.Errorf("Values = %v, want %v", st.Values, wantValues)
	}
}

func TestBuildUpdate_SingleField(t *testing.T) {
	st, err := BuildUpdate("t", []form.Field{{Name: "a", Tag: form.TagString, Value: "x"}}, "id", form.TagInt, 1)
	if err != nil {
		t.Fatalf("BuildUpdate returned error: %v", err)
	}
	if st.SQL != "UPDATE t SET a = ? WHERE id = ?;" {
		t.Errorf("SQL = %q", st.SQL)
	}
}

func TestBuildUpdate_EmptyFields(t *testing.T) {
	_, err := BuildUpdate("t", nil, "id", form.TagInt, 1)
	if !errors.Is(err, ErrNoFields) {
		t.Errorf("expected ErrNoFields, got %v", err)
	}
}

func TestBuildUpdate_OrderPreserved(t *testing.T) {
	fields := []form.Field{
		{Name: "c", Tag: form.TagString, Value: "3"},
		{Name: "a", Tag: form.TagInt, Value: 1},
		{Name: "b", Tag: form.TagDouble, Value: 2.5},
	}

	st, err := BuildUpdate("t", fields, "pk", form.TagString, "k")
	if err != nil {
		t.Fatalf("BuildUpdate returned error: %v", err)
	}

	// Declaration order dictates both text and bindings; no sorting.
	if st.SQL != "UPDATE t SET c = ?, a = ?, b = ? WHERE pk = ?;" {
		t.Errorf("SQL = %q", st.SQL)
	}
	if st.Types != "sids" {
		t.Errorf("Types = %q, want %q", st.Types, "sids")
	}
	if !reflect.DeepEqual(st.Values, []any{"3", 1, 2.5, "k"}) {
		t.Errorf("Values = %v", st.Values)
	}
}

// ============================================================================
// BuildInsert Tests
// ============================================================================

func TestBuildInsert(t *testing.T) {
	fields := []form.Field{
		{Name: "name", Tag: form.TagString, Value: "Ann"},
		{Name: "score", Tag: form.TagDouble, Value: 1.5},
	}

	st, err := BuildInsert("people", fields, nil)
	if err != nil {
		t.Fatalf("BuildInsert returned error: %v", err)
	}

	if st.SQL != "INSERT INTO people (name,score) VALUES (?,?)" {
		t.Errorf("SQL = %q", st.SQL)
	}
	if st.Types != "sd" {
		t.Errorf("Types = %q", st.Types)
	}
	if !reflect.DeepEqual(st.Values, []any{"Ann", 1.5}) {
		t.Errorf("Values = %v", st.Values)
	}
}

func TestBuildInsert_OverridesAppended(t *testing.T) {
	fields := []form.Field{
		{Name: "name", Tag: form.TagString, Value: "Ann"},
	}
	fix := form.Overrides{"owner": "42", "active": "1"}

	st, err := BuildInsert("people", fields, fix)
	if err != nil {
		t.Fatalf("BuildInsert returned error: %v", err)
	}

	// Override columns come after declared fields, in sorted order.
	if st.SQL != "INSERT INTO people (name,active,owner) VALUES (?,?,?)" {
		t.Errorf("SQL = %q", st.SQL)
	}

	// Overrides are bound with the string tag even when the destination
	// column is numeric. Long-standing behavior, kept on purpose.
	if st.Types != "sss" {
		t.Errorf("Types = %q, want %q", st.Types, "sss")
	}
	if !reflect.DeepEqual(st.Values, []any{"Ann", "1", "42"}) {
		t.Errorf("Values = %v", st.Values)
	}
}

func TestBuildInsert_Empty(t *testing.T) {
	_, err := BuildInsert("t", nil, nil)
	if !errors.Is(err, ErrNoFields) {
		t.Errorf("expected ErrNoFields, got %v", err)
	}
}

// ============================================================================
// BuildSoftDelete Tests
// ============================================================================

func TestBuildSoftDelete(t *testing.T) {
	st := BuildSoftDelete("people", "id", 7)

	// Logical delete: no DELETE statement is ever produced, the row is
	// marked inactive and stays selectable.
	if st.SQL != "UPDATE people SET active = 0 WHERE id = ?;" {
		t.Errorf("SQL = %q", st.SQL)
	}
	if st.Types != "i" {
		t.Errorf("Types = %q, want %q", st.Types, "i")
	}
	if !reflect.DeepEqual(st.Values, []any{7}) {
		t.Errorf("Values = %v", st.Values)
	}
}
