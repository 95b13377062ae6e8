package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
)

// DefaultJSONPath is where the list lives when nothing else is configured.
const DefaultJSONPath = "expense_list.json"

// JSONFileStore keeps the list as a single JSON document on disk.
type JSONFileStore struct {
	path   string
	logger *log.Logger
	now    func() time.Time
}

func NewJSONFileStore(path string, logger *log.Logger) *JSONFileStore {
	if path == "" {
		path = DefaultJSONPath
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &JSONFileStore{
		path:   path,
		logger: logger.WithComponent(log.ComponentStorage),
		now:    time.Now,
	}
}

// Path returns the file the store reads and writes.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *JSONFileStore) Load(_ context.Context) (*core.ExpenseList, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("No expense file yet, starting empty", log.FieldPath, s.path)
		return core.NewExpenseList(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read expense file %s: %w", s.path, err)
	}

	list, err := decodeList(data)
	if err != nil {
		s.quarantine(err)
		return core.NewExpenseList(), nil
	}

	s.logger.Info("Expense list loaded",
		log.NewFields().WithOperation(log.OpLoad).WithList(list.Count(), list.CurrentID()).ToSlice()...)
	return list, nil
}

// Save implements Store. The snapshot is written to a temp file in the same
// directory and renamed over the target, so readers see the old or the new
// document and never a partial one.
func (s *JSONFileStore) Save(_ context.Context, list *core.ExpenseList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode expense list: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create expense directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace expense file %s: %w", s.path, err)
	}

	s.logger.Debug("Expense list saved",
		log.NewFields().WithOperation(log.OpSave).WithList(list.Count(), list.CurrentID()).ToSlice()...)
	return nil
}

// quarantine moves an undecodable file aside so the next save does not
// destroy it.
func (s *JSONFileStore) quarantine(cause error) {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, s.now().UTC().Format("20060102T150405Z"))
	fields := log.NewFields().
		WithOperation(log.OpLoad).
		WithErrorType(log.ErrorTypeCorrupt).
		WithError(cause)

	if err := os.Rename(s.path, backup); err != nil {
		s.logger.Warn("Expense file is malformed and could not be moved aside, starting empty",
			append(fields.ToSlice(), log.FieldPath, s.path, "rename_error", err.Error())...)
		return
	}
	s.logger.Warn("Expense file is malformed, moved aside and starting empty",
		append(fields.ToSlice(), log.FieldPath, s.path, "backup", backup)...)
}

func decodeList(data []byte) (*core.ExpenseList, error) {
	var list core.ExpenseList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &list, nil
}
