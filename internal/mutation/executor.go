// Package mutation implements the create/edit/delete batch engine.
//
// A batch is a named sequence of client-submitted rows, each carrying an
// operation tag. Rows are processed strictly in input order and each row
// becomes exactly one statement; there is no reordering, no batching into a
// single statement and no transaction across the batch. If atomicity is
// required the gateway has to provide it.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skdb/formkit/internal/database"
	"github.com/skdb/formkit/internal/form"
	"github.com/skdb/formkit/internal/statement"
)

// ErrClientInput reports a malformed batch row: an unknown operation tag or
// a missing primary key on edit/delete. It is terminal for the whole batch.
var ErrClientInput = errors.New("mutation: malformed batch row")

// Auditor records mutation entries. May be nil when auditing is off.
type Auditor interface {
	LogActionByCategory(ctx context.Context, category, message string, subject any) error
}

// Executor dispatches batch rows to create, edit or soft-delete statements.
type Executor struct {
	gateway database.Gateway
	audit   Auditor
}

// NewExecutor creates an executor over an open gateway. audit may be nil.
func NewExecutor(gateway database.Gateway, audit Auditor) *Executor {
	return &Executor{gateway: gateway, audit: audit}
}

// Execute applies a batch of rows against table. When result.DoNothing is
// set the whole batch is skipped before any row is read and no statement is
// issued. A malformed row stops the batch; rows already processed stay
// applied (no rollback here).
func (e *Executor) Execute(ctx context.Context, table string, result form.Result, rows []form.BatchRow, fix form.Overrides) error {
	if result.DoNothing {
		return nil
	}

	batchID := uuid.NewString()
	for i, row := range rows {
		op := row[form.OpKey]

		var err error
		switch op {
		case form.OpCreate:
			err = e.create(ctx, table, result, row, fix)
		case form.OpEdit:
			err = e.edit(ctx, table, result, row)
		case form.OpDelete:
			err = e.softDelete(ctx, table, row)
		default:
			err = fmt.Errorf("%w: unknown operation %q", ErrClientInput, op)
		}
		if err != nil {
			return fmt.Errorf("batch %s row %d: %w", result.RecordName, i, err)
		}

		e.logRow(ctx, batchID, op, table, result.RecordName)
	}
	return nil
}

// create inserts a new row. Values come from the submitted row by declared
// field name; the pre-validated field values are placeholders at this stage.
// Fixed overrides are appended after the declared fields.
func (e *Executor) create(ctx context.Context, table string, result form.Result, row form.BatchRow, fix form.Overrides) error {
	st, err := statement.BuildInsert(table, rowFields(result, row), fix)
	if err != nil {
		return err
	}
	return e.gateway.Exec(ctx, st.SQL, st.Types, st.Values...)
}

// edit updates the row identified by dbId.
func (e *Executor) edit(ctx context.Context, table string, result form.Result, row form.BatchRow) error {
	id, ok := row[form.IDKey]
	if !ok {
		return fmt.Errorf("%w: edit without %s", ErrClientInput, form.IDKey)
	}
	st, err := statement.BuildUpdate(table, rowFields(result, row), "id", form.TagInt, id)
	if err != nil {
		return err
	}
	return e.gateway.Exec(ctx, st.SQL, st.Types, st.Values...)
}

// softDelete marks the row identified by dbId inactive.
func (e *Executor) softDelete(ctx context.Context, table string, row form.BatchRow) error {
	id, ok := row[form.IDKey]
	if !ok {
		return fmt.Errorf("%w: delete without %s", ErrClientInput, form.IDKey)
	}
	st := statement.BuildSoftDelete(table, "id", id)
	return e.gateway.Exec(ctx, st.SQL, st.Types, st.Values...)
}

// rowFields copies the declared fields with values taken from the submitted
// row. Declaration order is preserved.
func rowFields(result form.Result, row form.BatchRow) []form.Field {
	fields := make([]form.Field, len(result.Fields))
	for i, f := range result.Fields {
		f.Value = row[f.Name]
		fields[i] = f
	}
	return fields
}

// logRow records a processed row in the audit log. Audit failures do not
// fail the mutation; the statement already ran.
func (e *Executor) logRow(ctx context.Context, batchID, op, table, record string) {
	if e.audit == nil {
		return
	}
	msg := fmt.Sprintf("%s on %s (record: %s, batch: %s)", op, table, record, batchID)
	if err := e.audit.LogActionByCategory(ctx, "mutation", msg, record); err != nil {
		slog.Warn("audit write failed", "batch", batchID, "error", err)
	}
}
