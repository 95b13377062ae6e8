package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrOutOfBounds     = errors.New("index out of bound")
	ErrInvalidSnapshot = errors.New("invalid expense list snapshot")
)

// ExpenseList owns the recorded expenses in insertion order together with the
// id counter. The counter only grows, so ids are never reused after a removal.
type ExpenseList struct {
	expenses  []Expense
	currentID uint32
	now       func() time.Time
}

// snapshot is the persisted shape of an ExpenseList.
type snapshot struct {
	Expenses  []Expense `json:"expenses"`
	CurrentID uint32    `json:"current_id"`
}

// NewExpenseList returns an empty list whose counter starts at zero.
func NewExpenseList() *ExpenseList {
	return &ExpenseList{
		expenses: make([]Expense, 0),
		now:      time.Now,
	}
}

// RestoreExpenseList rebuilds a list from persisted records and counter.
// Ids must be positive, unique and not above currentID, and every record needs
// a creation date.
func RestoreExpenseList(expenses []Expense, currentID uint32) (*ExpenseList, error) {
	seen := make(map[uint32]struct{}, len(expenses))
	for i, e := range expenses {
		if e.ID == 0 {
			return nil, fmt.Errorf("%w: record %d has id 0", ErrInvalidSnapshot, i)
		}
		if e.ID > currentID {
			return nil, fmt.Errorf("%w: id %d exceeds current id %d", ErrInvalidSnapshot, e.ID, currentID)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidSnapshot, e.ID)
		}
		if err := e.Category.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidSnapshot, i, err)
		}
		if e.Date.IsZero() {
			return nil, fmt.Errorf("%w: id %d has no date", ErrInvalidSnapshot, e.ID)
		}
		seen[e.ID] = struct{}{}
	}

	l := NewExpenseList()
	l.expenses = append(l.expenses, expenses...)
	l.currentID = currentID
	return l, nil
}

// Add records a new expense stamped with the current UTC time and returns the
// id it was given.
func (l *ExpenseList) Add(category Category, amount uint32, description string) uint32 {
	l.currentID++
	l.expenses = append(l.expenses, Expense{
		ID:          l.currentID,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        l.clock()().UTC(),
	})
	return l.currentID
}

// Remove deletes the expense with the given id. An id above the highest one
// ever assigned returns ErrOutOfBounds and leaves the list as it was. An id in
// range that is no longer present is a no-op and reports removed == false.
func (l *ExpenseList) Remove(id uint32) (removed bool, err error) {
	if id > l.currentID {
		return false, fmt.Errorf("%w: id %d, highest assigned %d", ErrOutOfBounds, id, l.currentID)
	}

	kept := l.expenses[:0]
	for _, e := range l.expenses {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	l.expenses = kept
	return removed, nil
}

func (l *ExpenseList) clock() func() time.Time {
	if l.now == nil {
		return time.Now
	}
	return l.now
}

// TotalAmount sums the amounts of every current record.
func (l *ExpenseList) TotalAmount() uint64 {
	var total uint64
	for _, e := range l.expenses {
		total += uint64(e.Amount)
	}
	return total
}

// Count returns the number of current records.
func (l *ExpenseList) Count() int {
	return len(l.expenses)
}

// CurrentID returns the highest id ever assigned.
func (l *ExpenseList) CurrentID() uint32 {
	return l.currentID
}

// Expenses returns a copy of the records in insertion order.
func (l *ExpenseList) Expenses() []Expense {
	out := make([]Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// ListAll returns one display line per record, numbered from 1.
func (l *ExpenseList) ListAll() []string {
	lines := make([]string, 0, len(l.expenses))
	for i, e := range l.expenses {
		lines = append(lines, fmt.Sprintf("%d: %s", i+1, e.Formatted()))
	}
	return lines
}

// MarshalJSON implements json.Marshaler
func (l *ExpenseList) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Expenses:  l.Expenses(),
		CurrentID: l.currentID,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded snapshot goes through
// the same checks as RestoreExpenseList.
func (l *ExpenseList) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	restored, err := RestoreExpenseList(s.Expenses, s.CurrentID)
	if err != nil {
		return err
	}
	*l = *restored
	return nil
}
