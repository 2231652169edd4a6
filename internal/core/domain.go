package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Transaction is a single recorded expense. The store assigns ID,
	// CreatedAt and UpdatedAt on creation.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Date        time.Time       `json:"date"`
		Category    string          `json:"category"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	// Budget is a per-category monthly spending limit. At most one budget
	// exists per category; a category without a budget record has an
	// effective budget of zero.
	Budget struct {
		CategoryID string          `json:"categoryId"`
		Amount     decimal.Decimal `json:"amount"`
		CreatedAt  time.Time       `json:"createdAt"`
		UpdatedAt  time.Time       `json:"updatedAt"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrNegativeBudget   = errors.New("budget amount cannot be negative")
)

// Validate checks the user-supplied fields of a transaction. Category is not
// validated here: unknown categories are legal input and resolve to "other"
// at aggregation time.
func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks a budget record.
func (b Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return errors.New("empty category id")
	}
	if b.Amount.IsNegative() {
		return ErrNegativeBudget
	}
	return nil
}
