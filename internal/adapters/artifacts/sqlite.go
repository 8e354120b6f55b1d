package artifacts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads player rows from table in the SQLite database at path.
// Columns follow the CSV layout; SQL NULLs are treated like empty cells.
func LoadSQLite(ctx context.Context, path, table string) (Dataset, error) {
	if !tableName.MatchString(table) {
		return Dataset{}, fmt.Errorf("invalid table name %q", table)
	}
	// sql.Open would silently create a missing file.
	if _, err := os.Stat(path); err != nil {
		return Dataset{}, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Dataset{}, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+table+`"`)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return Dataset{}, err
	}
	b, err := newRowBuilder(header)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}

	raw := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range raw {
		dest[i] = &raw[i]
	}
	cells := make([]string, len(header))

	ds := Dataset{Source: path}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return Dataset{}, fmt.Errorf("%s: %w", path, err)
		}
		for i, v := range raw {
			cells[i] = v.String // empty when NULL
		}
		p, ok := b.build(cells)
		if !ok {
			ds.Skipped++
			continue
		}
		ds.Players = append(ds.Players, p)
	}
	if err := rows.Err(); err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
