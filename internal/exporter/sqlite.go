package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"storefeatures/internal/files"
)

// TableName is the SQLite table holding the feature rows
const TableName = "features"

// SQLiteWriter stores the feature table in a SQLite database. An existing
// features table is replaced.
type SQLiteWriter struct {
	logger *slog.Logger
}

// NewSQLiteWriter creates a database writer
func NewSQLiteWriter(logger *slog.Logger) *SQLiteWriter {
	return &SQLiteWriter{logger: logger}
}

// WriteFile writes frame into the database at path
func (w *SQLiteWriter) WriteFile(ctx context.Context, path string, frame *Frame) error {
	if err := files.EnsureParentDir(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Enable WAL mode for readers that open the file while it is written
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements(frame.Columns) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	insert, err := tx.PrepareContext(ctx, insertStatement(frame.Columns))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	args := make([]interface{}, len(frame.Columns))
	for i := 0; i < frame.Len(); i++ {
		for k, v := range frame.Row(i) {
			args[k] = v.SQL()
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	w.logger.DebugContext(ctx, "sqlite table written",
		"path", path,
		"table", TableName,
		"rows", frame.Len())
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func schemaStatements(columns []Column) []string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c.Name) + " " + c.Kind.SQLType()
	}

	return []string{
		"DROP TABLE IF EXISTS " + TableName,
		fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", TableName, strings.Join(defs, ",\n\t")),
		fmt.Sprintf("CREATE INDEX idx_%s_store_date ON %s(store, date)", TableName, TableName),
	}
}

func insertStatement(columns []Column) string {
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		names[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		TableName, strings.Join(names, ", "), strings.Join(marks, ", "))
}
