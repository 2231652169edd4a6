package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

type fakePublisher struct {
	events []string
	err    error
	closed bool
}

func (f *fakePublisher) PublishTransactionEvent(_ context.Context, id, action string) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, action+":"+id)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func txFixture() core.Transaction {
	return core.Transaction{
		Description: "Coffee",
		Amount:      decimal.RequireFromString("4.50"),
		Date:        time.Date(2023, time.April, 16, 0, 0, 0, 0, time.UTC),
		Category:    "dining",
	}
}

func TestWritesPublishEvents(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewTransactionService(memory.New(), pub)

	created, err := svc.CreateTransaction(ctx, txFixture())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	desc := "Espresso"
	if err := svc.UpdateTransaction(ctx, created.ID, store.TransactionPatch{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{
		amqp.ActionCreated + ":" + created.ID,
		amqp.ActionUpdated + ":" + created.ID,
		amqp.ActionDeleted + ":" + created.ID,
	}
	if len(pub.events) != len(want) {
		t.Fatalf("events = %v", pub.events)
	}
	for i := range want {
		if pub.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", pub.events, want)
		}
	}
}

func TestFailedWriteDoesNotPublish(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(memory.New(), pub)

	if err := svc.DeleteTransaction(context.Background(), "mem:404"); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if len(pub.events) != 0 {
		t.Fatalf("failed write must not publish, got %v", pub.events)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(memory.New(), pub)

	if _, err := svc.CreateTransaction(context.Background(), txFixture()); err != nil {
		t.Fatalf("storage success must survive publish failure: %v", err)
	}
}

func TestNilPublisher(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	if _, err := svc.CreateTransaction(context.Background(), txFixture()); err != nil {
		t.Fatalf("create without publisher: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCloseReleasesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(memory.New(), pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !pub.closed {
		t.Fatalf("publisher not closed")
	}
}
