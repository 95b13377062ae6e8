package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestValidateChoice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		ok      bool
		wantErr bool
	}{
		{"valid choice", "5", true, false},
		{"lower bound", "1", true, false},
		{"upper bound", "10", true, false},
		{"out of range", "15", false, false},
		{"below range", "0", false, false},
		{"not a number", "abc", false, true},
		{"negative", "-3", false, true},
		{"empty", "", false, true},
		{"decimal", "2.5", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := ValidateChoice(tt.input, 1, 10)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateChoice(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if ok != tt.ok {
				t.Errorf("ValidateChoice(%q) = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func TestPrompterReadNumberReprompts(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("abc\n42\n  7 \n"), &out)

	n, err := p.ReadNumber("Pick one:", 1, 10)
	if err != nil {
		t.Fatalf("ReadNumber: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}

	want := "Pick one:\nPlease enter a valid input.\nChoice is out of range.\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestPrompterInputClosed(t *testing.T) {
	p := NewPrompter(strings.NewReader("x\n"), &bytes.Buffer{})

	if _, err := p.ReadNumber("n:", 1, 2); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
	if _, err := p.ReadLine(); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
}

func TestPrompterReadLineKeepsEmpty(t *testing.T) {
	p := NewPrompter(strings.NewReader("\n  lunch with team \n"), &bytes.Buffer{})

	first, err := p.ReadLine()
	if err != nil || first != "" {
		t.Fatalf("first line = %q err=%v", first, err)
	}
	second, err := p.ReadLine()
	if err != nil || second != "lunch with team" {
		t.Fatalf("second line = %q err=%v", second, err)
	}
}

func TestPrompterReadLineLongLine(t *testing.T) {
	long := strings.Repeat("x", 70*1024)
	p := NewPrompter(strings.NewReader(long+"\nnext\n"), &bytes.Buffer{})

	got, err := p.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if len(got) != len(long) {
		t.Fatalf("expected %d bytes, got %d", len(long), len(got))
	}
	if next, err := p.ReadLine(); err != nil || next != "next" {
		t.Fatalf("following line = %q err=%v", next, err)
	}
}

func TestPrompterReadLineWithoutTrailingNewline(t *testing.T) {
	p := NewPrompter(strings.NewReader("last"), &bytes.Buffer{})

	got, err := p.ReadLine()
	if err != nil || got != "last" {
		t.Fatalf("ReadLine = %q err=%v", got, err)
	}
	if _, err := p.ReadLine(); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
}
