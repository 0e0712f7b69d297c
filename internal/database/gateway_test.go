package database

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/skdb/formkit/internal/form"
)

// ============================================================================
// Placeholder Rewriting Tests
// ============================================================================

func TestRewritePlaceholders(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"INSERT INTO t (a,b) VALUES (?,?)", "INSERT INTO t (a,b) VALUES ($1,$2)"},
		{"UPDATE t SET a = ? WHERE id = ?;", "UPDATE t SET a = $1 WHERE id = $2;"},
		{"SELECT 1", "SELECT 1"},
		{"SELECT '?' , ?", "SELECT '?' , $1"},
	}

	for _, tt := range tests {
		if got := rewritePlaceholders(tt.in); got != tt.want {
			t.Errorf("rewritePlaceholders(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ============================================================================
// Type Coercion Tests
// ============================================================================

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		tag  form.TypeTag
		in   any
		want any
	}{
		{"string passthrough", form.TagString, "x", "x"},
		{"string from int", form.TagString, 7, "7"},
		{"int from string", form.TagInt, "7", int64(7)},
		{"int from int", form.TagInt, 7, int64(7)},
		{"double from string", form.TagDouble, "1.5", 1.5},
		{"double from int", form.TagDouble, 2, 2.0},
		{"blob from string", form.TagBlob, "data", []byte("data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce(tt.tag, tt.in)
			if err != nil {
				t.Fatalf("coerce returned error: %v", err)
			}
			switch want := tt.want.(type) {
			case []byte:
				if string(got.([]byte)) != string(want) {
					t.Errorf("coerce = %v, want %v", got, want)
				}
			default:
				if got != tt.want {
					t.Errorf("coerce = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
				}
			}
		})
	}
}

func TestCoerce_Nil(t *testing.T) {
	got, err := coerce(form.TagString, nil)
	if err != nil {
		t.Fatalf("coerce returned error: %v", err)
	}
	if got != nil {
		t.Errorf("nil must bind as NULL, got %v", got)
	}
}

func TestCoerce_BadInt(t *testing.T) {
	if _, err := coerce(form.TagInt, "seven"); err == nil {
		t.Error("expected error for a non-numeric integer binding")
	}
}

func TestCoerce_UnknownTag(t *testing.T) {
	if _, err := coerce(form.TypeTag('x'), "v"); err == nil {
		t.Error("expected error for an unknown type tag")
	}
}

func TestBindValues_LengthMismatch(t *testing.T) {
	if _, err := bindValues("si", []any{"only one"}); err == nil {
		t.Error("expected error when type tags and values disagree in count")
	}
}

// ============================================================================
// SQLGateway Tests (sqlmock)
// ============================================================================

func TestSQLGatewayExec(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// ? placeholders pass through unchanged for database/sql drivers.
	mock.ExpectExec("INSERT INTO contacts (name,owner) VALUES (?,?)").
		WithArgs("Ann", "42").
		WillReturnResult(sqlmock.NewResult(1, 1))

	g := NewSQLGateway(db)
	if err := g.Exec(context.Background(), "INSERT INTO contacts (name,owner) VALUES (?,?)", "ss", "Ann", "42"); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLGatewayExec_CoercesTypes(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE t SET active = 0 WHERE id = ?;").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	g := NewSQLGateway(db)
	// The string "7" carries an integer tag and must bind as an integer.
	if err := g.Exec(context.Background(), "UPDATE t SET active = 0 WHERE id = ?;", "i", "7"); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLGatewayExec_TagMismatch(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	g := NewSQLGateway(db)
	err = g.Exec(context.Background(), "SELECT ?", "i", "not a number")
	if err == nil || !strings.Contains(err.Error(), "not an integer") {
		t.Errorf("expected coercion error, got %v", err)
	}
}

func TestSQLGatewayQueryInt(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM z_log_categories WHERE name = ?").
		WithArgs("view").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	g := NewSQLGateway(db)
	id, found, err := g.QueryInt(context.Background(), "SELECT id FROM z_log_categories WHERE name = ?", "s", "view")
	if err != nil {
		t.Fatalf("QueryInt returned error: %v", err)
	}
	if !found || id != 3 {
		t.Errorf("QueryInt = (%d, %v), want (3, true)", id, found)
	}
}

func TestSQLGatewayQueryInt_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM z_log_categories WHERE name = ?").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	g := NewSQLGateway(db)
	_, found, err := g.QueryInt(context.Background(), "SELECT id FROM z_log_categories WHERE name = ?", "s", "nope")
	if err != nil {
		t.Fatalf("QueryInt returned error: %v", err)
	}
	if found {
		t.Error("expected found = false for an empty result")
	}
}
