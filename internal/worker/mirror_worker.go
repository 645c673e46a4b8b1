package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/ports"
)

// MirrorWorker replays expense events onto an ExpenseMirror.
type MirrorWorker struct {
	mirror ports.ExpenseMirror
	logger *log.Logger

	appended atomic.Int64
	removed  atomic.Int64
	failed   atomic.Int64
}

// Stats counts handled events since start.
type Stats struct {
	Appended int64
	Removed  int64
	Failed   int64
}

func NewMirrorWorker(mirror ports.ExpenseMirror, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		mirror: mirror,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// Handle is an amqp.Handler.
func (w *MirrorWorker) Handle(ctx context.Context, ev *amqp.ExpenseEvent) error {
	var err error
	switch ev.Type {
	case amqp.EventExpenseCreated:
		err = w.append(ctx, ev)
	case amqp.EventExpenseDeleted:
		err = w.remove(ctx, ev)
	default:
		err = fmt.Errorf("unsupported event %q: %w", ev.Type, amqp.ErrDrop)
	}
	if err != nil {
		w.failed.Add(1)
	}
	return err
}

func (w *MirrorWorker) append(ctx context.Context, ev *amqp.ExpenseEvent) error {
	if ev.Date == nil || ev.Amount == nil {
		return fmt.Errorf("created event %s lacks date or amount: %w", ev.ExpenseID, amqp.ErrDrop)
	}
	e := core.Expense{
		ID:          ev.ExpenseID,
		OwnerID:     ev.OwnerID,
		Category:    core.Category{Name: ev.Category},
		Amount:      *ev.Amount,
		Description: ev.Description,
		Date:        *ev.Date,
		CreatedAt:   ev.Timestamp,
	}

	ref, err := w.mirror.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("mirror expense %s: %w", e.ID, err)
	}
	w.appended.Add(1)
	w.logger.InfoContext(ctx, "Expense mirrored",
		log.FieldOperation, log.OpMirror,
		log.FieldExpenseID, e.ID,
		log.FieldSheetsRef, ref)
	return nil
}

func (w *MirrorWorker) remove(ctx context.Context, ev *amqp.ExpenseEvent) error {
	if err := w.mirror.Remove(ctx, ev.ExpenseID); err != nil {
		return fmt.Errorf("remove mirrored expense %s: %w", ev.ExpenseID, err)
	}
	w.removed.Add(1)
	w.logger.InfoContext(ctx, "Mirrored expense removed",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, ev.ExpenseID)
	return nil
}

// Stats returns counters for logging at shutdown.
func (w *MirrorWorker) Stats() Stats {
	return Stats{
		Appended: w.appended.Load(),
		Removed:  w.removed.Load(),
		Failed:   w.failed.Load(),
	}
}
