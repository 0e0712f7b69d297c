package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLGateway executes statements through database/sql. The ? placeholder
// syntax passes through unchanged, which matches the sqlite driver.
type SQLGateway struct {
	db *sql.DB
}

// NewSQLGateway creates a gateway over an open database/sql handle.
func NewSQLGateway(db *sql.DB) *SQLGateway {
	return &SQLGateway{db: db}
}

// Exec implements Gateway.
func (g *SQLGateway) Exec(ctx context.Context, query, types string, values ...any) error {
	args, err := bindValues(types, values)
	if err != nil {
		return err
	}
	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("database: exec: %w", err)
	}
	return nil
}

// QueryInt implements Conn.
func (g *SQLGateway) QueryInt(ctx context.Context, query, types string, values ...any) (int64, bool, error) {
	args, err := bindValues(types, values)
	if err != nil {
		return 0, false, err
	}
	var result int64
	err = g.db.QueryRowContext(ctx, query, args...).Scan(&result)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("database: query: %w", err)
	}
	return result, true, nil
}
