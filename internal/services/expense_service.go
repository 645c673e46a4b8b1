package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/ports"
)

// ExpenseStore is the write side of a backend.
type ExpenseStore interface {
	ports.ExpenseWriter
	ports.ExpenseDeleter
	ports.SavingsTargetStore
}

// EventPublisher announces changes that already reached the store.
type EventPublisher interface {
	Publish(ctx context.Context, ev *amqp.ExpenseEvent) error
}

// Invalidator drops cached snapshots.
type Invalidator interface {
	DeletePrefix(prefix string) int
}

// ExpenseService orchestrates writes: store first, then cache invalidation and
// event publishing. Publish failures never fail the request.
type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher
	cache     Invalidator
	logger    *log.Logger
}

// NewExpenseService wires the service. publisher and cache may be nil.
func NewExpenseService(store ExpenseStore, publisher EventPublisher, cache Invalidator, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		cache:     cache,
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

// CreateExpense stores e for its owner and returns it with id and category resolved.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.Description = strings.TrimSpace(e.Description)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.invalidate(saved.OwnerID)

	s.logger.InfoContext(ctx, "Expense created", log.NewFields().
		WithOperation(log.OpCreate).
		WithOwner(saved.OwnerID, core.PeriodOf(saved.Date.Time).String()).
		WithExpense(saved.ID, saved.Category.Name, saved.Amount.String()).
		ToSlice()...)

	s.publish(ctx, amqp.NewCreatedEvent(saved))
	return saved, nil
}

// DeleteExpense removes one of the owner's expenses. It returns
// core.ErrNotFound when nothing matched.
func (s *ExpenseService) DeleteExpense(ctx context.Context, ownerID, id string) error {
	if strings.TrimSpace(ownerID) == "" {
		return core.ErrEmptyOwner
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty expense id", core.ErrNotFound)
	}

	if err := s.store.DeleteExpense(ctx, ownerID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	s.invalidate(ownerID)

	s.logger.InfoContext(ctx, "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldOwner, ownerID,
		log.FieldExpenseID, id)

	s.publish(ctx, amqp.NewDeletedEvent(ownerID, id))
	return nil
}

// SaveTarget upserts the owner's savings target for month.
func (s *ExpenseService) SaveTarget(ctx context.Context, ownerID string, month core.Period, amount core.Money) (core.SavingsTarget, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.SavingsTarget{}, core.ErrEmptyOwner
	}
	if err := amount.Validate(); err != nil {
		return core.SavingsTarget{}, err
	}

	target, err := s.store.UpsertSavingsTarget(ctx, ownerID, month, amount)
	if err != nil {
		return core.SavingsTarget{}, fmt.Errorf("upsert savings target: %w", err)
	}
	s.invalidate(ownerID)

	s.logger.InfoContext(ctx, "Savings target saved",
		log.FieldOperation, log.OpUpsert,
		log.FieldOwner, ownerID,
		log.FieldPeriod, month.String(),
		log.FieldAmount, amount.String())
	return target, nil
}

func (s *ExpenseService) invalidate(ownerID string) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(cache.OwnerPrefix(ownerID))
}

func (s *ExpenseService) publish(ctx context.Context, ev *amqp.ExpenseEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No event publisher configured, skipping event", log.FieldEventType, ev.Type)
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			log.FieldOperation, log.OpPublish,
			log.FieldEventType, ev.Type,
			log.FieldExpenseID, ev.ExpenseID,
			log.FieldError, err)
	}
}
