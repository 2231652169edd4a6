package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	in := core.Transaction{
		Description: "Groceries",
		Amount:      decimal.RequireFromString("85.75"),
		Date:        time.Date(2023, time.April, 15, 0, 0, 0, 0, time.UTC),
		Category:    "groceries",
	}
	created, err := repo.CreateTransaction(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("id not assigned")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != in.Description || got.Category != in.Category {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Amount.Equal(in.Amount) {
		t.Fatalf("amount mismatch: %s != %s", got.Amount, in.Amount)
	}
	if !got.Date.Equal(in.Date) {
		t.Fatalf("date mismatch: %s != %s", got.Date, in.Date)
	}
}

func TestListTransactionsSorted(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	days := []int{5, 20, 1}
	for _, d := range days {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			Description: "t",
			Amount:      decimal.NewFromInt(10),
			Date:        time.Date(2023, time.April, d, 0, 0, 0, 0, time.UTC),
			Category:    "dining",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	out, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Date.After(out[i-1].Date) {
			t.Fatalf("not sorted descending: %v", out)
		}
	}
}

func TestUpdateDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	desc := "x"
	if err := repo.UpdateTransaction(ctx, "12345", store.TransactionPatch{Description: &desc}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "12345"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetTransaction(ctx, "not-a-number"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAppliesPatch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Description: "Lunch",
		Amount:      decimal.NewFromInt(12),
		Date:        time.Date(2023, time.April, 2, 0, 0, 0, 0, time.UTC),
		Category:    "dining",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amt := decimal.RequireFromString("14.20")
	if err := repo.UpdateTransaction(ctx, created.ID, store.TransactionPatch{Amount: &amt}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(amt) || got.Description != "Lunch" {
		t.Fatalf("patch mis-applied: %+v", got)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatalf("UpdatedAt not refreshed")
	}
}

func TestBudgetUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.UpsertBudget(ctx, "groceries", decimal.NewFromInt(400))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := repo.UpsertBudget(ctx, "groceries", decimal.RequireFromString("425.50"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	budgets, err := repo.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected one budget record, got %d", len(budgets))
	}
	if !budgets[0].Amount.Equal(decimal.RequireFromString("425.50")) {
		t.Fatalf("latest amount must win: %s", budgets[0].Amount)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("upsert must keep CreatedAt")
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("upsert must refresh UpdatedAt")
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Description: "",
		Amount:      decimal.NewFromInt(5),
		Date:        time.Now(),
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
