package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.ExpenseEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev *amqp.ExpenseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

var march = core.Period{Year: 2025, Month: time.March}

func newExpense(owner, category, amount string, d core.Date) core.Expense {
	return core.Expense{
		OwnerID:     owner,
		Category:    core.Category{ID: category},
		Amount:      core.MustMoney(amount),
		Description: "item " + amount,
		Date:        d,
	}
}

func TestExpenseService_CreatePublishesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDefault()
	pub := &recordingPublisher{}
	snaps := cache.NewLRUCache[Snapshot](16, time.Minute)
	snaps.Set(cache.SnapshotKey("alice", march), Snapshot{})
	snaps.Set(cache.SnapshotKey("bob", march), Snapshot{})

	svc := NewExpenseService(store, pub, snaps, log.Discard())
	saved, err := svc.CreateExpense(ctx, newExpense("alice", "food-dining", "12.50", core.NewDate(2025, time.March, 3)))
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Food & Dining", saved.Category.Name)
	require.Len(t, pub.events, 1)
	assert.Equal(t, amqp.EventExpenseCreated, pub.events[0].Type)
	assert.Equal(t, saved.ID, pub.events[0].ExpenseID)

	_, ok := snaps.Get(cache.SnapshotKey("alice", march))
	assert.False(t, ok)
	_, ok = snaps.Get(cache.SnapshotKey("bob", march))
	assert.True(t, ok)
}

func TestExpenseService_PublishFailureDoesNotFail(t *testing.T) {
	store := memory.NewDefault()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewExpenseService(store, pub, nil, log.Discard())

	_, err := svc.CreateExpense(context.Background(), newExpense("alice", "travel", "80", core.NewDate(2025, time.March, 3)))
	assert.NoError(t, err)
}

func TestExpenseService_CreateValidation(t *testing.T) {
	svc := NewExpenseService(memory.NewDefault(), nil, nil, nil)
	ctx := context.Background()

	e := newExpense("alice", "travel", "80", core.NewDate(2025, time.March, 3))
	e.Description = "   "
	_, err := svc.CreateExpense(ctx, e)
	assert.ErrorIs(t, err, core.ErrEmptyDescription)

	e = newExpense("alice", "no-such-category", "80", core.NewDate(2025, time.March, 3))
	_, err = svc.CreateExpense(ctx, e)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestExpenseService_Delete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDefault()
	pub := &recordingPublisher{}
	svc := NewExpenseService(store, pub, nil, log.Discard())

	saved, err := svc.CreateExpense(ctx, newExpense("alice", "travel", "80", core.NewDate(2025, time.March, 3)))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteExpense(ctx, "bob", saved.ID), core.ErrNotFound)
	require.NoError(t, svc.DeleteExpense(ctx, "alice", saved.ID))
	assert.ErrorIs(t, svc.DeleteExpense(ctx, "alice", saved.ID), core.ErrNotFound)

	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.EventExpenseDeleted, pub.events[1].Type)
}

func TestExpenseService_SaveTarget(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDefault()
	svc := NewExpenseService(store, nil, nil, log.Discard())

	first, err := svc.SaveTarget(ctx, "alice", march, core.MustMoney("300"))
	require.NoError(t, err)
	second, err := svc.SaveTarget(ctx, "alice", march, core.MustMoney("250"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "250.00", second.Amount.String())

	_, err = svc.SaveTarget(ctx, "alice", march, core.Zero)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestDashboardService_Load(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDefault()
	writes := NewExpenseService(store, nil, nil, log.Discard())

	for _, e := range []core.Expense{
		newExpense("alice", "housing", "400", core.NewDate(2025, time.March, 2)),
		newExpense("alice", "transportation", "400", core.NewDate(2025, time.March, 3)),
		newExpense("alice", "bills-utilities", "400.10", core.NewDate(2025, time.March, 4)),
		newExpense("alice", "housing", "400", core.NewDate(2025, time.February, 2)),
		newExpense("alice", "transportation", "300", core.NewDate(2025, time.February, 3)),
		newExpense("alice", "bills-utilities", "300", core.NewDate(2025, time.February, 4)),
		newExpense("bob", "housing", "999", core.NewDate(2025, time.March, 2)),
	} {
		_, err := writes.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	snaps := cache.NewLRUCache[Snapshot](16, time.Minute)
	svc := NewDashboardService(store, snaps, log.Discard())
	svc.now = func() time.Time { return time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC) }

	d, err := svc.Load(ctx, "alice", march)
	require.NoError(t, err)
	assert.False(t, d.CacheHit)
	assert.Equal(t, "1200.10", d.Report.Breakdown.Total.String())
	assert.Equal(t, "1000.00", d.Report.Previous.Total.String())
	assert.Len(t, d.Expenses, 3)
	assert.Len(t, d.Categories, 10)
	require.NotEmpty(t, d.Report.Tips)
	assert.Equal(t, core.TipWarning, d.Report.Tips[0].Kind)
	assert.Contains(t, d.Report.Tips[0].Message, "20.0% higher than last month")

	assert.True(t, d.Budget.Suggested)
	assert.Equal(t, "240.00", d.Budget.Target.String())
	assert.True(t, d.Budget.OverBudget)

	d, err = svc.Load(ctx, "alice", march)
	require.NoError(t, err)
	assert.True(t, d.CacheHit)

	_, err = NewExpenseService(store, nil, snaps, nil).SaveTarget(ctx, "alice", march, core.MustMoney("5000"))
	require.NoError(t, err)
	d, err = svc.Load(ctx, "alice", march)
	require.NoError(t, err)
	assert.False(t, d.CacheHit)
	assert.False(t, d.Budget.Suggested)
	assert.False(t, d.Budget.OverBudget)
	assert.Equal(t, "3799.90", d.Budget.Remaining.String())
}

type failingStore struct {
	*memory.Store
}

func (failingStore) FetchSavingsTarget(context.Context, string, core.Period) (*core.SavingsTarget, error) {
	return nil, errors.New("connection reset")
}

func TestDashboardService_FetchErrorPropagates(t *testing.T) {
	svc := NewDashboardService(failingStore{memory.NewDefault()}, nil, nil)
	_, err := svc.Load(context.Background(), "alice", march)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch savings target")

	_, err = svc.Load(context.Background(), "", march)
	assert.ErrorIs(t, err, core.ErrEmptyOwner)
}

func TestDashboardService_History(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDefault()
	writes := NewExpenseService(store, nil, nil, nil)
	for _, e := range []core.Expense{
		newExpense("alice", "housing", "10", core.NewDate(2025, time.January, 2)),
		newExpense("alice", "housing", "20", core.NewDate(2025, time.February, 2)),
		newExpense("alice", "housing", "30", core.NewDate(2025, time.March, 2)),
		newExpense("alice", "housing", "40", core.NewDate(2024, time.December, 2)),
	} {
		_, err := writes.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	months, err := NewDashboardService(store, nil, nil).History(ctx, "alice", march, 3)
	require.NoError(t, err)
	require.Len(t, months, 3)
	assert.Equal(t, "10.00", months[0].Total.String())
	assert.Equal(t, "30.00", months[2].Total.String())
}
