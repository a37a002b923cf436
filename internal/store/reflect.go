package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrSchemaConflict means an existing table disagrees with the
	// requested key columns. This is fatal: the table was created for a
	// different shape of data.
	ErrSchemaConflict = errors.New("schema conflict")

	// ErrInvalidColumnName means a discovered name cannot be used as a
	// SQL identifier. Names are substituted into query text, so anything
	// outside the identifier grammar is refused outright.
	ErrInvalidColumnName = errors.New("invalid column name")
)

var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidIdent reports whether name is safe to substitute into query text.
func ValidIdent(name string) bool {
	return identPattern.MatchString(name)
}

// Column declares one reserved or key column for a reflected table.
type Column struct {
	Name string
	Type string // SQL type: TEXT, INTEGER, REAL
}

// EnsureTable creates table with the given key and reserved columns if it
// does not exist. When the table exists, its primary-key columns must match
// keys exactly or ErrSchemaConflict is returned. Metric columns are added
// later by ExtendColumns.
func (s *Store) EnsureTable(ctx context.Context, table string, keys, reserved []Column) error {
	if !ValidIdent(table) {
		return fmt.Errorf("%w: table %q", ErrInvalidColumnName, table)
	}
	for _, c := range append(append([]Column{}, keys...), reserved...) {
		if !ValidIdent(c.Name) {
			return fmt.Errorf("%w: %q in table %s", ErrInvalidColumnName, c.Name, table)
		}
	}

	existing, err := s.primaryKey(ctx, table)
	if err != nil {
		return err
	}
	if existing != nil {
		want := make([]string, len(keys))
		for i, k := range keys {
			want[i] = k.Name
		}
		if strings.Join(existing, ",") != strings.Join(want, ",") {
			return fmt.Errorf("%w: table %s has key (%s), want (%s)",
				ErrSchemaConflict, table, strings.Join(existing, ", "), strings.Join(want, ", "))
		}
		return nil
	}

	var defs []string
	for _, c := range keys {
		defs = append(defs, fmt.Sprintf("%s %s NOT NULL", c.Name, c.Type))
	}
	for _, c := range reserved {
		defs = append(defs, fmt.Sprintf("%s %s", c.Name, c.Type))
	}
	keyNames := make([]string, len(keys))
	for i, k := range keys {
		keyNames[i] = k.Name
	}
	defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keyNames, ", ")))

	ddl := fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", table, strings.Join(defs, ",\n    "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// ExtendColumns adds every discovered name not already present as a REAL
// column. Additions are idempotent. Reserved collisions are the caller's
// concern; a name already present is simply skipped. Invalid names are
// refused with ErrInvalidColumnName.
func (s *Store) ExtendColumns(ctx context.Context, table string, discovered []string) error {
	if !ValidIdent(table) {
		return fmt.Errorf("%w: table %q", ErrInvalidColumnName, table)
	}

	have, err := s.TableColumns(ctx, table)
	if err != nil {
		return err
	}
	haveSet := make(map[string]bool, len(have))
	for _, c := range have {
		haveSet[c] = true
	}

	names := append([]string{}, discovered...)
	sort.Strings(names)

	for _, name := range names {
		if haveSet[name] {
			continue
		}
		if !ValidIdent(name) {
			return fmt.Errorf("%w: %q in table %s", ErrInvalidColumnName, name, table)
		}
		ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s REAL", table, name)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table, name, err)
		}
		haveSet[name] = true
	}
	return nil
}

// Rebuild drops and recreates a rebuildable table with key, reserved and
// metric columns. Metric columns are sorted before emission so the DDL is
// deterministic.
func (s *Store) Rebuild(ctx context.Context, table string, keys, reserved []Column, metrics []string) error {
	if !ValidIdent(table) {
		return fmt.Errorf("%w: table %q", ErrInvalidColumnName, table)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return fmt.Errorf("drop table %s: %w", table, err)
	}
	if err := s.EnsureTable(ctx, table, keys, reserved); err != nil {
		return err
	}
	return s.ExtendColumns(ctx, table, metrics)
}

// TableColumns returns the table's column names in definition order, or nil
// when the table does not exist.
func (s *Store) TableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// primaryKey returns the table's primary-key column names in key order, or
// nil when the table does not exist.
func (s *Store) primaryKey(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk", table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}
