package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"pobsd/internal/store"
)

// RunSQL runs a read query against the export. TEXT columns come back as
// strings rather than byte slices.
func (c *Client) RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if err := store.CheckReadOnly(query); err != nil {
		return nil, err
	}
	args, err := store.PositionalArgs(params)
	if err != nil {
		return nil, err
	}
	return c.queryReadOnly(ctx, query, args)
}

// queryReadOnly runs query on a connection pinned with query_only, so SQLite
// itself refuses any write the query contains.
func (c *Client) queryReadOnly(ctx context.Context, query string, args []any) ([]map[string]any, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("setting query_only: %w", err)
	}
	defer func() {
		// the connection goes back to the pool; drop it if it cannot be made writable again
		if _, err := conn.ExecContext(context.Background(), "PRAGMA query_only = OFF"); err != nil {
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
	}()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running sql: %w", readOnlyError(err))
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("getting columns: %w", err)
	}

	results := []map[string]any{}
	for rows.Next() {
		row, err := scanMap(rows, columns)
		if err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sql rows: %w", readOnlyError(err))
	}
	return results, nil
}

func scanMap(rows *sql.Rows, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}

	row := make(map[string]any, len(columns))
	for i, col := range columns {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
		} else {
			row[col] = values[i]
		}
	}
	return row, nil
}

// readOnlyError maps SQLite's write refusal under query_only to
// store.ErrReadOnly.
func readOnlyError(err error) error {
	var sqliteErr *sqlitedriver.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_READONLY {
		return fmt.Errorf("%w: %w", store.ErrReadOnly, err)
	}
	return err
}
