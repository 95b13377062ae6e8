package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	FoodAndDining           Category = "FoodAndDining"
	Transportation          Category = "Transportation"
	Utilities               Category = "Utilities"
	Housing                 Category = "Housing"
	Entertainment           Category = "Entertainment"
	Healthcare              Category = "Healthcare"
	ClothingAndPersonalCare Category = "ClothingAndPersonalCare"
	Travel                  Category = "Travel"
	Education               Category = "Education"
	GiftsAndDonations       Category = "GiftsAndDonations"
	SavingsAndInvestments   Category = "SavingsAndInvestments"
	Miscellaneous           Category = "Miscellaneous"
)

// DisplayTimeLayout renders timestamps as month/day/year followed by a
// 12-hour clock with a lowercase meridiem.
const DisplayTimeLayout = "01/02/06 03:04 pm"

// CurrencySign prefixes every amount shown to the user.
const CurrencySign = "৳"

type (
	// Category is one of the twelve fixed expense categories. Its value is the
	// symbolic name written to storage.
	Category string

	// Expense is a single recorded spending event. It is never modified after
	// creation.
	Expense struct {
		ID          uint32    `json:"id"`
		Amount      uint32    `json:"amount"`
		Category    Category  `json:"category"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
	}
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrCategoryIndex   = errors.New("category index out of range")
)

// Categories lists every category in menu order.
var Categories = []Category{
	FoodAndDining,
	Transportation,
	Utilities,
	Housing,
	Entertainment,
	Healthcare,
	ClothingAndPersonalCare,
	Travel,
	Education,
	GiftsAndDonations,
	SavingsAndInvestments,
	Miscellaneous,
}

// Label returns the human readable name of the category.
func (c Category) Label() string {
	switch c {
	case FoodAndDining:
		return "Food And Dining"
	case Transportation:
		return "Transportation"
	case Utilities:
		return "Utilities"
	case Housing:
		return "Housing"
	case Entertainment:
		return "Entertainment"
	case Healthcare:
		return "Healthcare"
	case ClothingAndPersonalCare:
		return "Clothing and Personal Care"
	case Travel:
		return "Travel"
	case Education:
		return "Education"
	case GiftsAndDonations:
		return "Gifts and Donations"
	case SavingsAndInvestments:
		return "Savings and Investments"
	case Miscellaneous:
		return "Miscellaneous"
	default:
		return string(c)
	}
}

// String implements fmt.Stringer
func (c Category) String() string {
	return c.Label()
}

func (c Category) Validate() error {
	for _, known := range Categories {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

// UnmarshalText rejects names outside the closed category set so a stored
// snapshot cannot smuggle in an unknown variant.
func (c *Category) UnmarshalText(text []byte) error {
	candidate := Category(text)
	if err := candidate.Validate(); err != nil {
		return err
	}
	*c = candidate
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// CategoryFromIndex maps a 1-based menu choice to its category.
func CategoryFromIndex(n int) (Category, error) {
	if n < 1 || n > len(Categories) {
		return "", fmt.Errorf("%w: %d", ErrCategoryIndex, n)
	}
	return Categories[n-1], nil
}

// Formatted renders the expense the way the listing shows it.
func (e Expense) Formatted() string {
	return fmt.Sprintf("%s%d for %s on %s (ID: %d)",
		CurrencySign,
		e.Amount,
		e.Category.Label(),
		e.Date.UTC().Format(DisplayTimeLayout),
		e.ID)
}
