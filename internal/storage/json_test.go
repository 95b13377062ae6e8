package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"expense-tracker/internal/core"
)

func sampleList(t *testing.T) *core.ExpenseList {
	t.Helper()
	l := core.NewExpenseList()
	l.Add(core.FoodAndDining, 200, "lunch")
	l.Add(core.FoodAndDining, 100, "coffee")
	l.Add(core.Transportation, 45, "")
	if _, err := l.Remove(2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	return l
}

func assertSameList(t *testing.T, got, want *core.ExpenseList) {
	t.Helper()
	if !reflect.DeepEqual(got.Expenses(), want.Expenses()) {
		t.Fatalf("records differ:\n got %+v\nwant %+v", got.Expenses(), want.Expenses())
	}
	if got.CurrentID() != want.CurrentID() {
		t.Fatalf("current id = %d, want %d", got.CurrentID(), want.CurrentID())
	}
}

func TestJSONFileStoreMissingFile(t *testing.T) {
	s := NewJSONFileStore(filepath.Join(t.TempDir(), "expense_list.json"), nil)

	l, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Count() != 0 || l.CurrentID() != 0 {
		t.Fatalf("expected empty list, got count=%d current=%d", l.Count(), l.CurrentID())
	}
}

func TestJSONFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "expense_list.json")
	s := NewJSONFileStore(path, nil)

	want := sampleList(t)
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := NewJSONFileStore(path, nil).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSameList(t, got, want)

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the expense file, got %d entries", len(entries))
	}
}

func TestJSONFileStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expense_list.json")
	s := NewJSONFileStore(path, nil)

	l := sampleList(t)
	if err := s.Save(ctx, l); err != nil {
		t.Fatalf("first save: %v", err)
	}
	l.Add(core.Travel, 900, "train")
	if err := s.Save(ctx, l); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSameList(t, got, l)
}

func TestJSONFileStoreReadsExistingFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expense_list.json")
	doc := `{"expenses":[` +
		`{"id":1,"amount":200,"category":"FoodAndDining","description":"Test Description","date":"2024-04-02T08:15:30.123456Z"},` +
		`{"id":3,"amount":50,"category":"SavingsAndInvestments","description":"","date":"2024-04-03T19:00:00Z"}` +
		`],"current_id":3}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l, err := NewJSONFileStore(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Count() != 2 || l.CurrentID() != 3 || l.TotalAmount() != 250 {
		t.Fatalf("count=%d current=%d total=%d", l.Count(), l.CurrentID(), l.TotalAmount())
	}
	if got := l.Expenses()[1].Category; got != core.SavingsAndInvestments {
		t.Fatalf("unexpected category %q", got)
	}
}

func TestJSONFileStoreMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"truncated", `{"expenses":[{"id":1,`},
		{"unknown category", `{"expenses":[{"id":1,"amount":1,"category":"Rent","description":"","date":"2024-01-01T00:00:00Z"}],"current_id":1}`},
		{"id above counter", `{"expenses":[{"id":7,"amount":1,"category":"Travel","description":"","date":"2024-01-01T00:00:00Z"}],"current_id":1}`},
		{"missing date", `{"expenses":[{"id":1,"category":"Travel"}],"current_id":1}`},
		{"negative amount", `{"expenses":[{"id":1,"amount":-5,"category":"Travel","description":"","date":"2024-01-01T00:00:00Z"}],"current_id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "expense_list.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}

			l, err := NewJSONFileStore(path, nil).Load(context.Background())
			if err != nil {
				t.Fatalf("malformed content must not be an error, got %v", err)
			}
			if l.Count() != 0 || l.CurrentID() != 0 {
				t.Fatalf("expected empty list, got count=%d current=%d", l.Count(), l.CurrentID())
			}

			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("malformed file should have been moved aside, stat err=%v", err)
			}
			matches, _ := filepath.Glob(filepath.Join(dir, "expense_list.json.corrupt-*"))
			if len(matches) != 1 {
				t.Fatalf("expected one backup file, got %v", matches)
			}
			backup, err := os.ReadFile(matches[0])
			if err != nil || string(backup) != tt.content {
				t.Fatalf("backup content mismatch: %q err=%v", backup, err)
			}
		})
	}
}

func TestJSONFileStoreUnreadable(t *testing.T) {
	// A directory where the file should be is an I/O failure, not malformed data
	dir := t.TempDir()
	path := filepath.Join(dir, "expense_list.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := NewJSONFileStore(path, nil).Load(context.Background()); err == nil {
		t.Fatal("expected an error reading a directory")
	}
}

func TestJSONFileStoreSaveFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits differ on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	err := NewJSONFileStore(filepath.Join(dir, "expense_list.json"), nil).Save(context.Background(), sampleList(t))
	if err == nil || !strings.Contains(err.Error(), "temp file") {
		t.Fatalf("expected temp file error, got %v", err)
	}
}

func TestNewJSONFileStoreDefaultPath(t *testing.T) {
	if got := NewJSONFileStore("", nil).Path(); got != DefaultJSONPath {
		t.Fatalf("Path() = %q, want %q", got, DefaultJSONPath)
	}
}
