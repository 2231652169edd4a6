// Package worker consumes transaction events and mirrors the ledger into
// an external spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Exporter is the destination the worker writes to.
type Exporter interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
	WriteMonthlyReport(ctx context.Context, month, year int, rows []analytics.ReportRow) error
}

// SyncWorker reacts to transaction events by re-reading the record from
// the backend and exporting it.
type SyncWorker struct {
	backend  store.Backend
	exporter Exporter
}

func NewSyncWorker(backend store.Backend, exporter Exporter) *SyncWorker {
	return &SyncWorker{backend: backend, exporter: exporter}
}

// HandleTransactionEvent processes one event from the sync queue.
func (w *SyncWorker) HandleTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", msg.ID,
		"action", msg.Action)

	switch msg.Action {
	case amqp.ActionCreated, amqp.ActionUpdated:
		t, err := w.backend.GetTransaction(ctx, msg.ID)
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between publish and consume; nothing to export.
			slog.WarnContext(ctx, "Transaction gone before sync", "id", msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get transaction: %w", err)
		}
		if err := w.exporter.AppendTransaction(ctx, t); err != nil {
			return fmt.Errorf("export transaction: %w", err)
		}
		slog.InfoContext(ctx, "Transaction exported", "id", msg.ID, "action", msg.Action)
		return nil

	case amqp.ActionDeleted:
		// The ledger keeps history; deletions only show up in reports.
		slog.InfoContext(ctx, "Skipping export for deleted transaction", "id", msg.ID)
		return nil

	default:
		slog.WarnContext(ctx, "Unknown event action, dropping", "id", msg.ID, "action", msg.Action)
		return nil
	}
}

// PublishMonthlyReport recomputes the spending report for one period and
// writes it to the export destination. Month is 0-based.
func (w *SyncWorker) PublishMonthlyReport(ctx context.Context, month, year int) error {
	ts, err := w.backend.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	bs, err := w.backend.ListBudgets(ctx)
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}

	rows := analytics.CategorySpendingReport(ts, bs, month, year)
	if err := w.exporter.WriteMonthlyReport(ctx, month, year, rows); err != nil {
		return fmt.Errorf("write monthly report: %w", err)
	}

	slog.InfoContext(ctx, "Monthly report exported", "month", month, "year", year)
	return nil
}

// RunPeriodicReports republishes the current-month report on the given
// interval until the context ends.
func (w *SyncWorker) RunPeriodicReports(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			if err := w.PublishMonthlyReport(ctx, int(now.Month())-1, now.Year()); err != nil {
				slog.ErrorContext(ctx, "Periodic report failed", "error", err)
			}
		}
	}
}
