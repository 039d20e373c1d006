package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yannesss/finreport/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the collection in a local SQLite database. The
// insertion position column preserves storage order, which the data model
// does not require to be date-monotonic.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, category, description, income, expense
		 FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	list := []core.Transaction{}
	for rows.Next() {
		var (
			tx      core.Transaction
			dateStr string
		)
		if err := rows.Scan(&tx.ID, &dateStr, &tx.Category, &tx.Description, &tx.Income, &tx.Expense); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		list = append(list, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return list, nil
}

// Save replaces the whole stored collection inside one database
// transaction, matching the repository contract of atomic full replacement.
func (r *SQLiteRepository) Save(ctx context.Context, list []core.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT INTO transactions (position, id, date, category, description, income, expense)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range list {
		if _, err := stmt.ExecContext(ctx, i, tx.ID, tx.Date.String(), tx.Category, tx.Description, tx.Income, tx.Expense); err != nil {
			return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Collection saved to SQLite", "count", len(list))
	return nil
}
