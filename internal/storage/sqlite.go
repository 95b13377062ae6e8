package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the list snapshot in a SQLite database. Rows are
// ordered by position so insertion order survives a round trip.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

func NewSQLiteStore(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.Discard()
	}
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

	return &SQLiteStore{
		db:     db,
		path:   dbPath,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) (*core.ExpenseList, error) {
	var currentID int64
	err := s.db.QueryRowContext(ctx, `SELECT current_id FROM list_state WHERE id = 1`).Scan(&currentID)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("No stored expense list yet, starting empty", log.FieldPath, s.path)
		return core.NewExpenseList(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read list state: %w", err)
	}

	list, err := s.restore(ctx, currentID)
	if errors.Is(err, ErrMalformed) {
		s.logger.Warn("Stored expense list is malformed, starting empty",
			append(log.NewFields().
				WithOperation(log.OpLoad).
				WithErrorType(log.ErrorTypeCorrupt).
				WithError(err).ToSlice(), log.FieldPath, s.path)...)
		return core.NewExpenseList(), nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Expense list loaded",
		log.NewFields().WithOperation(log.OpLoad).WithList(list.Count(), list.CurrentID()).ToSlice()...)
	return list, nil
}

func (s *SQLiteStore) restore(ctx context.Context, currentID int64) (*core.ExpenseList, error) {
	if currentID < 0 || currentID > math.MaxUint32 {
		return nil, fmt.Errorf("%w: current id %d out of range", ErrMalformed, currentID)
	}
	expenses, err := s.readExpenses(ctx)
	if err != nil {
		return nil, err
	}
	list, err := core.RestoreExpenseList(expenses, uint32(currentID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return list, nil
}

func (s *SQLiteStore) readExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, category, description, date FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			id, amount     int64
			category, desc string
			date           string
		)
		if err := rows.Scan(&id, &amount, &category, &desc, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := expenseFromRow(id, amount, category, desc, date)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func expenseFromRow(id, amount int64, category, desc, date string) (core.Expense, error) {
	if id <= 0 || id > math.MaxUint32 {
		return core.Expense{}, fmt.Errorf("%w: id %d out of range", ErrMalformed, id)
	}
	if amount < 0 || amount > math.MaxUint32 {
		return core.Expense{}, fmt.Errorf("%w: amount %d out of range for id %d", ErrMalformed, amount, id)
	}
	var c core.Category
	if err := c.UnmarshalText([]byte(category)); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	at, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: date %q for id %d", ErrMalformed, date, id)
	}
	return core.Expense{
		ID:          uint32(id),
		Amount:      uint32(amount),
		Category:    c,
		Description: desc,
		Date:        at.UTC(),
	}, nil
}

// Save implements Store. The whole snapshot is replaced inside one
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, list *core.ExpenseList) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (id, position, amount, category, description, date) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range list.Expenses() {
		if _, err := stmt.ExecContext(ctx,
			int64(e.ID), i, int64(e.Amount), string(e.Category), e.Description,
			e.Date.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO list_state (id, current_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET current_id = excluded.current_id`,
		int64(list.CurrentID())); err != nil {
		return fmt.Errorf("update list state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	s.logger.Debug("Expense list saved",
		log.NewFields().WithOperation(log.OpSave).WithList(list.Count(), list.CurrentID()).ToSlice()...)
	return nil
}
