package services

import (
	"context"
	"errors"
	"fmt"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
	"expense-tracker/internal/storage"
)

// ExpenseService owns the in-memory list and writes the full snapshot to the
// store after every mutation.
type ExpenseService struct {
	list   *core.ExpenseList
	store  storage.Store
	logger *log.Logger
}

func NewExpenseService(list *core.ExpenseList, store storage.Store, logger *log.Logger) *ExpenseService {
	if list == nil {
		list = core.NewExpenseList()
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &ExpenseService{
		list:   list,
		store:  store,
		logger: logger.WithComponent(log.ComponentExpense),
	}
}

// Open loads the persisted list from the store and wraps it in a service.
func Open(ctx context.Context, store storage.Store, logger *log.Logger) (*ExpenseService, error) {
	list, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return NewExpenseService(list, store, logger), nil
}

// AddExpense records an expense and persists the list. The returned id is
// valid even when the save fails.
func (s *ExpenseService) AddExpense(ctx context.Context, category core.Category, amount uint32, description string) (uint32, error) {
	id := s.list.Add(category, amount, description)

	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithOperation(log.OpCreate).WithExpense(id, amount, string(category)).ToSlice()...)

	if err := s.persist(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// DeleteExpense removes the expense with the given id and persists the list.
// Ids above the highest one ever assigned return core.ErrOutOfBounds. An id
// in range that is already gone reports removed == false without error.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uint32) (bool, error) {
	removed, err := s.list.Remove(id)
	if errors.Is(err, core.ErrOutOfBounds) {
		s.logger.WarnContext(ctx, "Delete rejected",
			log.NewFields().
				WithOperation(log.OpDelete).
				WithErrorType(log.ErrorTypeOutOfBounds).
				WithError(err).ToSlice()...)
	} else if !removed {
		s.logger.DebugContext(ctx, "Nothing to delete", log.FieldExpenseID, id)
	} else {
		s.logger.InfoContext(ctx, "Expense deleted",
			log.NewFields().WithOperation(log.OpDelete).WithList(s.list.Count(), s.list.CurrentID()).ToSlice()...)
	}

	// Every delete command writes the snapshot, rejected or not
	if perr := s.persist(ctx); perr != nil {
		return removed, perr
	}
	return removed, err
}

// Total returns the sum of all current amounts.
func (s *ExpenseService) Total() uint64 {
	return s.list.TotalAmount()
}

// Count returns the number of current expenses.
func (s *ExpenseService) Count() int {
	return s.list.Count()
}

// List returns the numbered display lines for every expense.
func (s *ExpenseService) List() []string {
	return s.list.ListAll()
}

// Expenses returns a copy of the current records.
func (s *ExpenseService) Expenses() []core.Expense {
	return s.list.Expenses()
}

func (s *ExpenseService) persist(ctx context.Context) error {
	if s.store == nil {
		s.logger.WarnContext(ctx, "No store configured, skipping save")
		return nil
	}
	if err := s.store.Save(ctx, s.list); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save expenses",
			log.NewFields().
				WithOperation(log.OpSave).
				WithErrorType(log.ErrorTypeStorage).
				WithError(err).ToSlice()...)
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}
