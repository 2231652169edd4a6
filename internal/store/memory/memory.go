// Package memory is the local, process-only persistence backend. It backs
// development and tests, optionally seeded with the stock demo dataset.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu      sync.Mutex
	nextID  int
	items   []core.Transaction
	budgets []core.Budget
	now     func() time.Time
}

var _ store.Backend = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// NewSeeded returns a store preloaded with the demo transactions and the
// default per-category budgets.
func NewSeeded() *Store {
	s := New()
	ctx := context.Background()
	for _, t := range seedTransactions() {
		if _, err := s.CreateTransaction(ctx, t); err != nil {
			panic(fmt.Sprintf("seed transaction: %v", err))
		}
	}
	for _, b := range defaultBudgets() {
		if _, err := s.UpsertBudget(ctx, b.CategoryID, b.Amount); err != nil {
			panic(fmt.Sprintf("seed budget: %v", err))
		}
	}
	return s
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	t.ID = fmt.Sprintf("mem:%d", s.nextID)
	s.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	s.items = append(s.items, t)
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, patch store.TransactionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if patch.Description != nil {
			s.items[i].Description = *patch.Description
		}
		if patch.Amount != nil {
			s.items[i].Amount = *patch.Amount
		}
		if patch.Date != nil {
			s.items[i].Date = *patch.Date
		}
		if patch.Category != nil {
			s.items[i].Category = *patch.Category
		}
		s.items[i].UpdatedAt = s.now()
		return nil
	}
	return store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, len(s.budgets))
	copy(out, s.budgets)
	return out, nil
}

func (s *Store) UpsertBudget(_ context.Context, categoryID string, amount decimal.Decimal) (core.Budget, error) {
	b := core.Budget{CategoryID: categoryID, Amount: amount}
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for i := range s.budgets {
		if s.budgets[i].CategoryID == categoryID {
			s.budgets[i].Amount = amount
			s.budgets[i].UpdatedAt = now
			return s.budgets[i], nil
		}
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	s.budgets = append(s.budgets, b)
	return b, nil
}

func seedTransactions() []core.Transaction {
	mk := func(desc string, amount string, cat string, y int, m time.Month, d int) core.Transaction {
		return core.Transaction{
			Description: desc,
			Amount:      decimal.RequireFromString(amount),
			Date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Category:    cat,
		}
	}
	return []core.Transaction{
		mk("Groceries", "85.75", "groceries", 2023, time.April, 15),
		mk("Monthly Rent", "1200", "housing", 2023, time.April, 1),
		mk("Internet Bill", "65.99", "utilities", 2023, time.April, 5),
		mk("Coffee Shop", "4.50", "dining", 2023, time.April, 16),
		mk("Gas", "45.25", "transportation", 2023, time.April, 10),
	}
}

func defaultBudgets() []core.Budget {
	amounts := map[string]string{
		"housing":        "1500",
		"groceries":      "400",
		"transportation": "200",
		"utilities":      "150",
	}
	out := make([]core.Budget, 0, len(core.Categories))
	for _, c := range core.Categories {
		amt, ok := amounts[c.ID]
		if !ok {
			amt = "100"
		}
		out = append(out, core.Budget{CategoryID: c.ID, Amount: decimal.RequireFromString(amt)})
	}
	return out
}
