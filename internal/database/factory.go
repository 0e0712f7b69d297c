package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Open creates the gateway named by driver. The returned func closes the
// underlying connection.
func Open(ctx context.Context, driver, dsn string) (Conn, func(), error) {
	switch driver {
	case "postgres":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("database: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database: ping postgres: %w", err)
		}
		return NewPgGateway(pool), pool.Close, nil

	case "sqlite":
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("database: open sqlite: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("database: ping sqlite: %w", err)
		}
		return NewSQLGateway(db), func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("database: unknown driver %q (want postgres or sqlite)", driver)
}
