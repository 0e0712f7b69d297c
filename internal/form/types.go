// Package form defines the data carried from a validated client form into
// the mutation layer. Validation itself happens upstream; this package only
// describes its outcome.
package form

import "sort"

// TypeTag identifies the SQL type of a bound value with a single character.
// The statement gateway uses one tag per placeholder to coerce values before
// binding.
type TypeTag byte

const (
	TagString TypeTag = 's'
	TagInt    TypeTag = 'i'
	TagDouble TypeTag = 'd'
	TagBlob   TypeTag = 'b'
)

// Valid reports whether t is one of the known type tags.
func (t TypeTag) Valid() bool {
	switch t {
	case TagString, TagInt, TagDouble, TagBlob:
		return true
	}
	return false
}

// Field is a single validated form field: its declared name, the database
// column it maps to, its type tag and the resolved value.
type Field struct {
	Name     string
	DBColumn string // Database column name (defaults to Name when empty)
	Tag      TypeTag
	Value    any
}

// Column returns the database column this field writes to.
func (f Field) Column() string {
	if f.DBColumn != "" {
		return f.DBColumn
	}
	return f.Name
}

// Result is the outcome of validating a submitted form. Field order is
// significant: it fixes SQL column order and the order of bound values.
type Result struct {
	RecordName string
	DoNothing  bool // When set, the batch executor performs no side effects at all.
	Fields     []Field
}

// Keys understood by the batch executor in a submitted row.
const (
	OpKey = "Z"    // operation tag
	IDKey = "dbId" // primary key, required for edit and delete
)

// Operation tags dispatched per batch row.
const (
	OpCreate = "create"
	OpEdit   = "edit"
	OpDelete = "delete"
)

// BatchRow is one client-submitted row: the operation tag, an optional
// primary key and one value per declared field name.
type BatchRow map[string]string

// Overrides maps destination columns to fixed server-supplied values merged
// into every create operation. Client input never reaches these columns.
type Overrides map[string]string

// Columns returns the override columns in deterministic (sorted) order.
func (o Overrides) Columns() []string {
	cols := make([]string, 0, len(o))
	for c := range o {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
