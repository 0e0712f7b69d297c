package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the pgx surface the gateway needs.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgGateway executes statements against Postgres through pgx.
// Incoming ? placeholders are rewritten to the $n form pgx expects.
type PgGateway struct {
	db DBTX
}

// NewPgGateway creates a gateway over an open pgx pool or transaction.
func NewPgGateway(db DBTX) *PgGateway {
	return &PgGateway{db: db}
}

// Exec implements Gateway.
func (g *PgGateway) Exec(ctx context.Context, sql, types string, values ...any) error {
	args, err := bindValues(types, values)
	if err != nil {
		return err
	}
	if _, err := g.db.Exec(ctx, rewritePlaceholders(sql), args...); err != nil {
		return fmt.Errorf("database: exec: %w", err)
	}
	return nil
}

// QueryInt implements Conn.
func (g *PgGateway) QueryInt(ctx context.Context, sql, types string, values ...any) (int64, bool, error) {
	args, err := bindValues(types, values)
	if err != nil {
		return 0, false, err
	}
	var result int64
	err = g.db.QueryRow(ctx, rewritePlaceholders(sql), args...).Scan(&result)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("database: query: %w", err)
	}
	return result, true, nil
}

// rewritePlaceholders converts ? placeholders to $1..$n.
// Question marks inside single-quoted literals are left alone; statement
// builders never emit literals, but audit queries may.
func rewritePlaceholders(sql string) string {
	var sb strings.Builder
	sb.Grow(len(sql) + 8)
	n := 0
	inLiteral := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			sb.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
