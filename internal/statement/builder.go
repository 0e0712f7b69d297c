// Package statement assembles parameterized SQL text for the mutation layer.
//
// Builders maintain parallel ordered lists of (column, type tag, value) and
// render text only at the end, so the statement text can never drift out of
// step with its bindings. Nothing in this package executes SQL or
// concatenates values into text; execution belongs to the database gateway.
package statement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skdb/formkit/internal/form"
)

// ErrNoFields reports a build call with an empty field list.
var ErrNoFields = errors.New("statement: no fields to set")

// Statement is a parameterized SQL statement ready for a gateway.
// Types holds one type tag per ? placeholder, in placeholder order.
type Statement struct {
	SQL    string
	Types  string
	Values []any
}

// builder accumulates columns, tags and values in parallel.
type builder struct {
	columns []string
	tags    []byte
	values  []any
}

func newBuilder(capacity int) *builder {
	return &builder{
		columns: make([]string, 0, capacity),
		tags:    make([]byte, 0, capacity),
		values:  make([]any, 0, capacity),
	}
}

func (b *builder) add(column string, tag form.TypeTag, value any) {
	b.columns = append(b.columns, column)
	b.tags = append(b.tags, byte(tag))
	b.values = append(b.values, value)
}

// BuildUpdate produces an UPDATE statement that sets each field in order and
// matches on keyColumn. The key binding is always appended last.
func BuildUpdate(table string, setFields []form.Field, keyColumn string, keyTag form.TypeTag, keyValue any) (Statement, error) {
	if len(setFields) == 0 {
		return Statement{}, ErrNoFields
	}

	b := newBuilder(len(setFields) + 1)
	for _, f := range setFields {
		b.add(f.Column(), f.Tag, f.Value)
	}
	b.add(keyColumn, keyTag, keyValue)

	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s SET ", table)
	for i, col := range b.columns[:len(b.columns)-1] {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = ?", col)
	}
	fmt.Fprintf(&sb, " WHERE %s = ?;", keyColumn)

	return Statement{SQL: sb.String(), Types: string(b.tags), Values: b.values}, nil
}

// BuildInsert produces an INSERT statement for the declared fields followed
// by the fixed overrides. Override columns come after declared fields, each
// bound with the string tag regardless of the destination column's native
// type. Column, tag and value order stay zipped throughout.
func BuildInsert(table string, fields []form.Field, fix form.Overrides) (Statement, error) {
	if len(fields) == 0 && len(fix) == 0 {
		return Statement{}, ErrNoFields
	}

	b := newBuilder(len(fields) + len(fix))
	for _, f := range fields {
		b.add(f.Column(), f.Tag, f.Value)
	}
	for _, col := range fix.Columns() {
		b.add(col, form.TagString, fix[col])
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(b.columns)), ",")
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(b.columns, ","), placeholders)

	return Statement{SQL: sql, Types: string(b.tags), Values: b.values}, nil
}

// BuildSoftDelete produces the logical delete: the row is marked inactive,
// never physically removed. Rows stay queryable by anything that bypasses
// the active filter, which keeps the audit trail intact.
func BuildSoftDelete(table, keyColumn string, keyValue any) Statement {
	return Statement{
		SQL:    fmt.Sprintf("UPDATE %s SET active = 0 WHERE %s = ?;", table, keyColumn),
		Types:  string(form.TagInt),
		Values: []any{keyValue},
	}
}
