package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"expense-tracker/internal/core"
	"expense-tracker/internal/log"
	"expense-tracker/internal/services"
)

// Exit codes returned by Menu.Run
const (
	ExitOK            = 0
	ExitInvalidChoice = 1
	ExitFailure       = 1
)

const (
	MaxAmount    = 100000
	MaxExpenseID = 100000
)

const (
	choiceAdd = iota + 1
	choiceViewAll
	choiceTotal
	choiceDelete
	choiceExit
)

// Menu drives the interactive session until the user exits or a fatal
// error occurs.
type Menu struct {
	prompt  *Prompter
	out     io.Writer
	service *services.ExpenseService
	logger  *log.Logger
}

func NewMenu(in io.Reader, out io.Writer, service *services.ExpenseService, logger *log.Logger) *Menu {
	if logger == nil {
		logger = log.Discard()
	}
	return &Menu{
		prompt:  NewPrompter(in, out),
		out:     out,
		service: service,
		logger:  logger.WithComponent(log.ComponentCLI),
	}
}

// Run shows the home menu in a loop and returns the process exit code.
func (m *Menu) Run(ctx context.Context) int {
	for {
		m.printHome()
		choice, err := m.prompt.ReadNumber("Please Enter Your Choice: ", choiceAdd, choiceExit)
		if err != nil {
			return m.abort(err)
		}

		switch choice {
		case choiceAdd:
			err = m.addExpense(ctx)
		case choiceViewAll:
			m.viewAll()
		case choiceTotal:
			m.total()
		case choiceDelete:
			err = m.deleteExpense(ctx)
		case choiceExit:
			fmt.Fprintln(m.out, "Good bye")
			return ExitOK
		default:
			// Unreachable while ReadNumber bounds the choice to the menu range
			fmt.Fprintln(m.out, "Good bye")
			return ExitInvalidChoice
		}

		if err != nil {
			return m.abort(err)
		}
	}
}

func (m *Menu) printHome() {
	fmt.Fprintln(m.out, "Welcome to Expense Tracker CLI!")
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "1. Add an expense")
	fmt.Fprintln(m.out, "2. View all expenses")
	fmt.Fprintln(m.out, "3. Calculate total expenses")
	fmt.Fprintln(m.out, "4. Delete an expense")
	fmt.Fprintln(m.out, "5. Exit")
}

func (m *Menu) addExpense(ctx context.Context) error {
	fmt.Fprintln(m.out, "Enter expense details:")
	category, err := m.selectCategory()
	if err != nil {
		return err
	}
	amount, err := m.prompt.ReadNumber("Enter amount: ", 1, MaxAmount)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Enter description: ")
	description, err := m.prompt.ReadLine()
	if err != nil {
		return err
	}

	if _, err := m.service.AddExpense(ctx, category, amount, description); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Expense added successfully!")
	fmt.Fprintln(m.out)
	return nil
}

func (m *Menu) selectCategory() (core.Category, error) {
	n, err := m.prompt.ReadNumber("Select a category:\n"+CategoryMenu(), 1, uint32(len(core.Categories)))
	if err != nil {
		return "", err
	}
	return core.CategoryFromIndex(int(n))
}

// CategoryMenu lays the numbered category labels out over five lines: the
// first entry alone, then three per line.
func CategoryMenu() string {
	var b strings.Builder
	last := len(core.Categories) - 1
	for i, c := range core.Categories {
		fmt.Fprintf(&b, "%d: %s", i+1, c.Label())
		if i%3 == 0 || i == last {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m *Menu) viewAll() {
	fmt.Fprintln(m.out, "Here are all your expenses")
	for _, line := range m.service.List() {
		fmt.Fprintln(m.out, line)
	}
	fmt.Fprintln(m.out)
}

func (m *Menu) total() {
	fmt.Fprintf(m.out, "Total expense: %s%d\n", core.CurrencySign, m.service.Total())
	fmt.Fprintln(m.out)
}

func (m *Menu) deleteExpense(ctx context.Context) error {
	id, err := m.prompt.ReadNumber("Enter id: ", 1, MaxExpenseID)
	if err != nil {
		return err
	}

	removed, err := m.service.DeleteExpense(ctx, id)
	switch {
	case errors.Is(err, core.ErrOutOfBounds):
		fmt.Fprintln(m.out, "Index out of bound")
	case err != nil:
		return err
	case removed:
		fmt.Fprintln(m.out, "Expense deleted successfully!")
	default:
		fmt.Fprintf(m.out, "No expense found with ID %d.\n", id)
	}
	return nil
}

func (m *Menu) abort(err error) int {
	if errors.Is(err, ErrInputClosed) {
		m.logger.Warn("Input closed before exit was chosen")
		return ExitFailure
	}
	m.logger.Error("Session aborted",
		log.NewFields().WithErrorType(log.ErrorTypeStorage).WithError(err).ToSlice()...)
	fmt.Fprintf(m.out, "Error: %v\n", err)
	return ExitFailure
}
