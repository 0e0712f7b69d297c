// Package database provides the statement-execution gateway the mutation and
// audit layers run against.
//
// A gateway accepts SQL text with ? placeholders, a type string whose
// characters map one to one onto those placeholders, and the values to bind.
// The gateway performs all parameter binding; callers never concatenate
// values into SQL text.
package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/skdb/formkit/internal/form"
)

// Gateway executes a parameterized statement.
type Gateway interface {
	Exec(ctx context.Context, sql, types string, values ...any) error
}

// Conn is the full connection surface both drivers implement: statement
// execution plus single-value lookups (used by the audit log for category
// resolution).
type Conn interface {
	Gateway
	// QueryInt runs a query expected to yield at most one integer.
	// The bool result reports whether a row was found.
	QueryInt(ctx context.Context, sql, types string, values ...any) (int64, bool, error)
}

// bindValues coerces every value according to its positional type tag.
func bindValues(types string, values []any) ([]any, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("database: %d type tags for %d values", len(types), len(values))
	}
	out := make([]any, len(values))
	for i, v := range values {
		bound, err := coerce(form.TypeTag(types[i]), v)
		if err != nil {
			return nil, fmt.Errorf("database: value %d: %w", i, err)
		}
		out[i] = bound
	}
	return out, nil
}

// coerce converts v to the native type its tag demands.
func coerce(tag form.TypeTag, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch tag {
	case form.TagString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil

	case form.TagInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			return int64(n), nil
		case string:
			i, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("not an integer: %q", n)
			}
			return i, nil
		}
		return nil, fmt.Errorf("cannot bind %T as integer", v)

	case form.TagDouble:
		switch n := v.(type) {
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, fmt.Errorf("not a number: %q", n)
			}
			return f, nil
		}
		return nil, fmt.Errorf("cannot bind %T as double", v)

	case form.TagBlob:
		switch b := v.(type) {
		case []byte:
			return b, nil
		case string:
			return []byte(b), nil
		}
		return nil, fmt.Errorf("cannot bind %T as blob", v)
	}
	return nil, fmt.Errorf("unknown type tag %q", string(tag))
}
