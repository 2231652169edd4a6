// Package session holds the authoritative in-memory copy of transactions
// and budgets for an application session. It synchronizes with the
// persistence gateway and applies local patches only after the gateway
// confirms a write; on failure local state is left untouched and the error
// is surfaced to the caller. No retries.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Store owns the session's working set. Safe for concurrent use.
type Store struct {
	backend store.Backend

	mu           sync.RWMutex
	transactions []core.Transaction
	budgets      []core.Budget
}

func New(backend store.Backend) *Store {
	return &Store{backend: backend}
}

// Refresh re-fetches transactions and budgets from the gateway, replacing
// local state wholesale. Both fetches run concurrently; if either fails the
// previous state is kept.
func (s *Store) Refresh(ctx context.Context) error {
	var (
		transactions []core.Transaction
		budgets      []core.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.backend.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("refresh transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.backend.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("refresh budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.transactions = transactions
	s.budgets = budgets
	s.mu.Unlock()
	return nil
}

// Transactions returns a copy of the current working set.
func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Budgets returns a copy of the current budget set.
func (s *Store) Budgets() []core.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Budget, len(s.budgets))
	copy(out, s.budgets)
	return out
}

// AddTransaction creates the transaction at the gateway and, on success,
// prepends the confirmed record to local state.
func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.backend.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	s.transactions = append([]core.Transaction{created}, s.transactions...)
	s.mu.Unlock()
	return created, nil
}

// UpdateTransaction patches the transaction at the gateway and, on success,
// merges the same fields into the local record.
func (s *Store) UpdateTransaction(ctx context.Context, id string, patch store.TransactionPatch) error {
	if err := s.backend.UpdateTransaction(ctx, id, patch); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID != id {
			continue
		}
		if patch.Description != nil {
			s.transactions[i].Description = *patch.Description
		}
		if patch.Amount != nil {
			s.transactions[i].Amount = *patch.Amount
		}
		if patch.Date != nil {
			s.transactions[i].Date = *patch.Date
		}
		if patch.Category != nil {
			s.transactions[i].Category = *patch.Category
		}
		s.transactions[i].UpdatedAt = time.Now()
		break
	}
	return nil
}

// DeleteTransaction removes the transaction at the gateway and, on success,
// drops it from local state.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.backend.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			break
		}
	}
	return nil
}

// SetBudget upserts the category budget at the gateway and, on success,
// replaces or appends the confirmed record locally.
func (s *Store) SetBudget(ctx context.Context, categoryID string, amount decimal.Decimal) (core.Budget, error) {
	updated, err := s.backend.UpsertBudget(ctx, categoryID, amount)
	if err != nil {
		return core.Budget{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].CategoryID == categoryID {
			s.budgets[i] = updated
			return updated, nil
		}
	}
	s.budgets = append(s.budgets, updated)
	return updated, nil
}

// Summary derives the dashboard headline numbers for the given moment.
func (s *Store) Summary(now time.Time) analytics.Summary {
	return analytics.Summarize(s.Transactions(), now)
}

// Insight derives month-over-month metrics around the given moment.
func (s *Store) Insight(now time.Time) analytics.Insight {
	return analytics.MonthOverMonthInsight(s.Transactions(), now)
}

// MonthlySeries derives the 12-month spending series for a year.
func (s *Store) MonthlySeries(year int) []analytics.MonthBucket {
	return analytics.MonthlySeries(s.Transactions(), year)
}

// Breakdown derives the per-category slices for a 0-based month.
func (s *Store) Breakdown(month, year int) []analytics.CategorySlice {
	return analytics.CategoryBreakdown(s.Transactions(), month, year)
}

// Comparison derives budget-vs-actual rows for a 0-based month.
func (s *Store) Comparison(month, year int) []analytics.ComparisonRow {
	s.mu.RLock()
	ts := make([]core.Transaction, len(s.transactions))
	copy(ts, s.transactions)
	bs := make([]core.Budget, len(s.budgets))
	copy(bs, s.budgets)
	s.mu.RUnlock()
	return analytics.BudgetComparison(ts, bs, month, year)
}

// Report derives the full category spending report for a 0-based month.
func (s *Store) Report(month, year int) []analytics.ReportRow {
	s.mu.RLock()
	ts := make([]core.Transaction, len(s.transactions))
	copy(ts, s.transactions)
	bs := make([]core.Budget, len(s.budgets))
	copy(bs, s.budgets)
	s.mu.RUnlock()
	return analytics.CategorySpendingReport(ts, bs, month, year)
}

// Years lists the distinct transaction years, most recent first.
func (s *Store) Years() []int {
	return analytics.AvailableYears(s.Transactions())
}
