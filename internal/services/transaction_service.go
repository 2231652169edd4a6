// Package services layers event publishing over the persistence backend.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// EventPublisher emits transaction change events. *amqp.Client implements
// it; tests substitute fakes.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id, action string) error
	Close() error
}

// TransactionService decorates a store.Backend, announcing every successful
// transaction write on the event bus. Storage success is never failed by a
// publish error: the write already happened, the event is best effort.
type TransactionService struct {
	backend   store.Backend
	publisher EventPublisher
}

var _ store.Backend = (*TransactionService)(nil)

func NewTransactionService(backend store.Backend, publisher EventPublisher) *TransactionService {
	return &TransactionService{backend: backend, publisher: publisher}
}

func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.backend.ListTransactions(ctx)
}

func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.backend.GetTransaction(ctx, id)
}

func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.backend.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, patch store.TransactionPatch) error {
	if err := s.backend.UpdateTransaction(ctx, id, patch); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionUpdated)
	return nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.backend.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *TransactionService) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return s.backend.ListBudgets(ctx)
}

func (s *TransactionService) UpsertBudget(ctx context.Context, categoryID string, amount decimal.Decimal) (core.Budget, error) {
	return s.backend.UpsertBudget(ctx, categoryID, amount)
}

func (s *TransactionService) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id,
			"action", action,
			"error", err)
	}
}

// Close releases the publisher and the backend when they hold resources.
func (s *TransactionService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if closer, ok := s.backend.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("backend: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
