package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Row is one record of a dynamic metric table: column name to value.
// Values are whatever the caller supplies; nil lands as SQL NULL.
type Row map[string]any

// Float returns the row value as a float64 when present and numeric.
// The SQLite driver hands back int64 for columns written from integers.
func (r Row) Float(col string) (float64, bool) {
	switch v := r[col].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// InsertRow inserts one row into a dynamic table. Columns are sorted before
// emission so the generated SQL is deterministic; every name is validated
// before substitution, values are always parameterized.
func (s *Store) InsertRow(ctx context.Context, table string, row Row) error {
	if !ValidIdent(table) {
		return fmt.Errorf("%w: table %q", ErrInvalidColumnName, table)
	}

	cols := make([]string, 0, len(row))
	for c := range row {
		if !ValidIdent(c) {
			return fmt.Errorf("%w: %q in table %s", ErrInvalidColumnName, c, table)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		args[i] = row[c]
		marks[i] = "?"
	}

	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert row into %s: %w", table, err)
	}
	return nil
}

// UpdateRow sets the given columns on the rows matching key. Both maps are
// emitted in sorted column order.
func (s *Store) UpdateRow(ctx context.Context, table string, set, key Row) error {
	if !ValidIdent(table) {
		return fmt.Errorf("%w: table %q", ErrInvalidColumnName, table)
	}

	setCols := make([]string, 0, len(set))
	for c := range set {
		if !ValidIdent(c) {
			return fmt.Errorf("%w: %q in table %s", ErrInvalidColumnName, c, table)
		}
		setCols = append(setCols, c)
	}
	sort.Strings(setCols)

	keyCols := make([]string, 0, len(key))
	for c := range key {
		if !ValidIdent(c) {
			return fmt.Errorf("%w: %q in table %s", ErrInvalidColumnName, c, table)
		}
		keyCols = append(keyCols, c)
	}
	sort.Strings(keyCols)

	var args []any
	assigns := make([]string, len(setCols))
	for i, c := range setCols {
		assigns[i] = c + " = ?"
		args = append(args, set[c])
	}
	preds := make([]string, len(keyCols))
	for i, c := range keyCols {
		preds[i] = c + " = ?"
		args = append(args, key[c])
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		table, strings.Join(assigns, ", "), strings.Join(preds, " AND "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update row in %s: %w", table, err)
	}
	return nil
}

// SelectRows returns all rows of a dynamic table matching the key columns,
// in primary-key order. An empty key selects the whole table.
func (s *Store) SelectRows(ctx context.Context, table string, key Row) ([]Row, error) {
	if !ValidIdent(table) {
		return nil, fmt.Errorf("%w: table %q", ErrInvalidColumnName, table)
	}

	query := "SELECT * FROM " + table
	var args []any
	if len(key) > 0 {
		keyCols := make([]string, 0, len(key))
		for c := range key {
			if !ValidIdent(c) {
				return nil, fmt.Errorf("%w: %q in table %s", ErrInvalidColumnName, c, table)
			}
			keyCols = append(keyCols, c)
		}
		sort.Strings(keyCols)

		preds := make([]string, len(keyCols))
		for i, c := range keyCols {
			preds[i] = c + " = ?"
			args = append(args, key[c])
		}
		query += " WHERE " + strings.Join(preds, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select rows from %s: %w", table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row := make(Row)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan row from %s: %w", table, err)
		}
		for c, v := range row {
			if b, ok := v.([]byte); ok {
				row[c] = string(b)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountRows returns the number of rows in a dynamic table.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	if !ValidIdent(table) {
		return 0, fmt.Errorf("%w: table %q", ErrInvalidColumnName, table)
	}
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, fmt.Errorf("count rows in %s: %w", table, err)
	}
	return n, nil
}
