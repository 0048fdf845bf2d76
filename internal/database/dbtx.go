package database

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// insertReturningID executes an INSERT and returns the new row's ID.
// PostgreSQL has no LastInsertId, so the query gets a RETURNING clause there.
func insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	query = q.Rebind(query)

	if q.DriverName() == DriverPostgres {
		query = strings.TrimSuffix(strings.TrimSpace(query), ";") + " RETURNING id"
		var id int64
		if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
