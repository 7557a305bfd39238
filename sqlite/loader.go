// Package sqlite stores and loads filterable tables in SQLite. A table
// definition maps to one SQLite table with a column per document field, and
// loaded rows come back as documents typed for their column kinds, ready for
// a document filter.
//
// The package does not register a driver; import github.com/mattn/go-sqlite3
// where the database is opened.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/asaidimu/go-facets/core/schema"
	"go.uber.org/zap"
)

// dbRunner abstracts the common methods of *sql.DB and *sql.Tx, allowing the
// same code to run inside and outside a transaction.
type dbRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LoaderOptions configures table naming and creation.
type LoaderOptions struct {
	// Table overrides the definition name as the SQLite table name.
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
	// TablePrefix is prepended to the table name.
	TablePrefix string `json:"tablePrefix,omitempty" yaml:"tablePrefix,omitempty"`
	// IfNotExists makes CreateTable a no-op for existing tables.
	IfNotExists bool `json:"ifNotExists" yaml:"ifNotExists"`
}

// DefaultLoaderOptions returns the options used when none are given.
func DefaultLoaderOptions() *LoaderOptions {
	return &LoaderOptions{IfNotExists: true}
}

// Loader reads and writes table definitions' rows in a SQLite database.
type Loader struct {
	db      *sql.DB
	logger  *zap.Logger
	options *LoaderOptions
}

// NewLoader creates a loader over an open database.
func NewLoader(db *sql.DB, logger *zap.Logger, options *LoaderOptions) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options == nil {
		options = DefaultLoaderOptions()
	}
	return &Loader{db: db, logger: logger, options: options}
}

// getTableName returns the quoted table name for a definition.
func (l *Loader) getTableName(def *schema.TableDefinition) string {
	name := def.Name
	if l.options.Table != "" {
		name = l.options.Table
	}
	return quoteIdentifier(l.options.TablePrefix + name)
}

// CreateTable creates the table backing a definition.
func (l *Loader) CreateTable(ctx context.Context, def *schema.TableDefinition) error {
	stmt, err := l.CreateTableSQL(def)
	if err != nil {
		return fmt.Errorf("failed to generate SQL for table %s: %w", def.Name, err)
	}

	l.logger.Debug("Executing SQL CREATE TABLE", zap.String("sql", stmt))
	if _, err := l.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to execute SQL statement '%s': %w", stmt, err)
	}
	return nil
}

// InsertDocuments validates and inserts documents in a single transaction and
// returns the number of rows written. Nothing is written if any document fails.
func (l *Loader) InsertDocuments(ctx context.Context, def *schema.TableDefinition, docs []schema.Document) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	validator := schema.NewValidator(def)
	for i, doc := range docs {
		if ok, issues := validator.ValidateDocument(doc, true); !ok {
			return 0, fmt.Errorf("document %d does not conform to table '%s': %s", i, def.Name, issues[0])
		}
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	count, err := l.insert(ctx, tx, def, docs)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			l.logger.Error("Failed to roll back insert", zap.Error(rbErr))
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	l.logger.Debug("Inserted documents", zap.String("table", def.Name), zap.Int64("count", count))
	return count, nil
}

func (l *Loader) insert(ctx context.Context, runner dbRunner, def *schema.TableDefinition, docs []schema.Document) (int64, error) {
	stmt, fields := l.InsertSQL(def)
	_, kinds := storageFields(def)

	var count int64
	for i, doc := range docs {
		args := make([]any, len(fields))
		for j, field := range fields {
			v, err := encodeValue(kinds[field], doc[field])
			if err != nil {
				return 0, fmt.Errorf("document %d, field '%s': %w", i, field, err)
			}
			args[j] = v
		}
		if _, err := runner.ExecContext(ctx, stmt, args...); err != nil {
			l.logger.Error("Failed to execute INSERT", zap.Error(err), zap.String("sql", stmt))
			return 0, fmt.Errorf("failed to execute INSERT query: %w", err)
		}
		count++
	}
	return count, nil
}

// LoadDocuments reads every row of the definition's table in insertion order.
func (l *Loader) LoadDocuments(ctx context.Context, def *schema.TableDefinition) ([]schema.Document, error) {
	stmt, _ := l.SelectSQL(def)
	l.logger.Debug("Executing SQL SELECT", zap.String("sql", stmt))

	rows, err := l.db.QueryContext(ctx, stmt)
	if err != nil {
		l.logger.Error("Failed to execute SELECT query", zap.Error(err), zap.String("sql", stmt))
		return nil, fmt.Errorf("failed to execute SELECT query: %w", err)
	}
	defer rows.Close()

	docs, err := readRows(def, rows)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded documents", zap.String("table", def.Name), zap.Int("count", len(docs)))
	return docs, nil
}

// TableExists checks if the definition's table exists in the database.
func (l *Loader) TableExists(ctx context.Context, def *schema.TableDefinition) (bool, error) {
	name := def.Name
	if l.options.Table != "" {
		name = l.options.Table
	}
	query := "SELECT name FROM sqlite_master WHERE type='table' AND name = ?;"

	var found string
	err := l.db.QueryRowContext(ctx, query, l.options.TablePrefix+name).Scan(&found)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// readRows reads all rows and converts each column to its kind's document
// form.
func readRows(def *schema.TableDefinition, rows *sql.Rows) ([]schema.Document, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	_, kinds := storageFields(def)

	results := make([]schema.Document, 0)
	for rows.Next() {
		row := make(schema.Document, len(columns))
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for i, col := range columns {
			if values[i] == nil {
				row[col] = nil
				continue
			}
			v, err := decodeValue(kinds[col], values[i])
			if err != nil {
				return nil, fmt.Errorf("row %d, column '%s': %w", len(results), col, err)
			}
			row[col] = v
		}
		results = append(results, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return results, nil
}
