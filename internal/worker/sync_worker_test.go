package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

type fakeExporter struct {
	appended []core.Transaction
	reports  []struct{ month, year int }
	err      error
}

func (f *fakeExporter) AppendTransaction(_ context.Context, t core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, t)
	return nil
}

func (f *fakeExporter) WriteMonthlyReport(_ context.Context, month, year int, _ []analytics.ReportRow) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, struct{ month, year int }{month, year})
	return nil
}

func TestHandleTransactionEventExportsRecord(t *testing.T) {
	s := memory.New()
	created, err := s.CreateTransaction(context.Background(), core.Transaction{
		Description: "Train ticket",
		Amount:      decimal.RequireFromString("23.40"),
		Date:        time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Category:    "transportation",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	exp := &fakeExporter{}
	w := NewSyncWorker(s, exp)

	msg := &amqp.TransactionEventMessage{ID: created.ID, Action: amqp.ActionCreated}
	if err := w.HandleTransactionEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(exp.appended) != 1 {
		t.Fatalf("appended = %d, want 1", len(exp.appended))
	}
	if exp.appended[0].Description != "Train ticket" {
		t.Errorf("description = %q", exp.appended[0].Description)
	}
}

func TestHandleTransactionEventMissingRecordIsDropped(t *testing.T) {
	exp := &fakeExporter{}
	w := NewSyncWorker(memory.New(), exp)

	msg := &amqp.TransactionEventMessage{ID: "mem:42", Action: amqp.ActionUpdated}
	if err := w.HandleTransactionEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle should drop missing records, got %v", err)
	}
	if len(exp.appended) != 0 {
		t.Errorf("appended = %d, want 0", len(exp.appended))
	}
}

func TestHandleTransactionEventDeleteSkipsExport(t *testing.T) {
	exp := &fakeExporter{}
	w := NewSyncWorker(memory.NewSeeded(), exp)

	msg := &amqp.TransactionEventMessage{ID: "mem:1", Action: amqp.ActionDeleted}
	if err := w.HandleTransactionEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(exp.appended) != 0 {
		t.Errorf("appended = %d, want 0", len(exp.appended))
	}
}

func TestHandleTransactionEventExporterFailure(t *testing.T) {
	s := memory.NewSeeded()
	exp := &fakeExporter{err: errors.New("sheets unavailable")}
	w := NewSyncWorker(s, exp)

	msg := &amqp.TransactionEventMessage{ID: "mem:1", Action: amqp.ActionCreated}
	if err := w.HandleTransactionEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error so the message gets requeued")
	}
}

func TestPublishMonthlyReport(t *testing.T) {
	exp := &fakeExporter{}
	w := NewSyncWorker(memory.NewSeeded(), exp)

	if err := w.PublishMonthlyReport(context.Background(), 3, 2023); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(exp.reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(exp.reports))
	}
	if exp.reports[0].month != 3 || exp.reports[0].year != 2023 {
		t.Errorf("report period = %+v", exp.reports[0])
	}
}
