// Package store defines the persistence gateway ports and the error
// taxonomy shared by every backend.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var (
	// ErrNotFound means the target id or category has no matching record.
	ErrNotFound = errors.New("record not found")
	// ErrValidation means required fields are missing or malformed.
	ErrValidation = errors.New("validation failed")
)

// TransactionPatch carries the fields of a partial transaction update.
// Nil fields are left unchanged.
type TransactionPatch struct {
	Description *string
	Amount      *decimal.Decimal
	Date        *time.Time
	Category    *string
}

// Empty reports whether the patch changes nothing.
func (p TransactionPatch) Empty() bool {
	return p.Description == nil && p.Amount == nil && p.Date == nil && p.Category == nil
}

// Ports for persistence backends.
type (
	TransactionStore interface {
		// ListTransactions returns all transactions, most recent date first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// CreateTransaction assigns the id and timestamps and returns the
		// stored record.
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		// UpsertBudget creates the budget for the category or replaces its
		// amount, keeping at most one record per category. It always
		// returns the stored record with a fresh UpdatedAt.
		UpsertBudget(ctx context.Context, categoryID string, amount decimal.Decimal) (core.Budget, error)
	}

	// Backend combines both ports; backends implement it in full.
	Backend interface {
		TransactionStore
		BudgetStore
	}
)
