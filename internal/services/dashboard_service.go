package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/log"
	"fintrack/internal/ports"
)

// DashboardStore is the read side of a backend.
type DashboardStore interface {
	ports.ExpenseFetcher
	ports.SavingsTargetStore
	ports.CategoryReader
}

// Snapshot is the raw data behind one dashboard: the selected month, the
// month before it and the stored target.
type Snapshot struct {
	Period   core.Period
	Current  []core.Expense
	Previous []core.Expense
	Target   *core.SavingsTarget
}

// Dashboard is a fully analysed month.
type Dashboard struct {
	OwnerID    string
	Report     insights.Report
	Budget     insights.BudgetStatus
	Expenses   []core.Expense
	Categories []core.Category
	CacheHit   bool
}

// DashboardService loads snapshots and runs the insight pipeline over them.
type DashboardService struct {
	store     DashboardStore
	snapshots cache.Cache[Snapshot]
	logger    *log.Logger
	now       func() time.Time
}

// NewDashboardService wires the service. snapshots may be nil to disable caching.
func NewDashboardService(store DashboardStore, snapshots cache.Cache[Snapshot], logger *log.Logger) *DashboardService {
	if logger == nil {
		logger = log.Discard()
	}
	return &DashboardService{
		store:     store,
		snapshots: snapshots,
		logger:    logger.WithComponent(log.ComponentDashboard),
		now:       time.Now,
	}
}

// Load analyses month p for the owner as of now.
func (s *DashboardService) Load(ctx context.Context, ownerID string, p core.Period) (*Dashboard, error) {
	if ownerID == "" {
		return nil, core.ErrEmptyOwner
	}

	snap, hit, err := s.snapshot(ctx, ownerID, p)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	all := make([]core.Expense, 0, len(snap.Current)+len(snap.Previous))
	all = append(all, snap.Current...)
	all = append(all, snap.Previous...)
	report := insights.Analyze(all, p, s.now())

	d := &Dashboard{
		OwnerID:    ownerID,
		Report:     report,
		Budget:     budgetFor(snap.Target, report.Breakdown.Total),
		Expenses:   snap.Current,
		Categories: categories,
		CacheHit:   hit,
	}

	s.logger.DebugContext(ctx, "Dashboard analysed",
		log.FieldOperation, log.OpAnalyze,
		log.FieldOwner, ownerID,
		log.FieldPeriod, p.String(),
		log.FieldTipCount, len(report.Tips),
		log.FieldCacheHit, hit)
	return d, nil
}

// History returns per-month totals for the owner over the months ending at p.
func (s *DashboardService) History(ctx context.Context, ownerID string, p core.Period, months int) ([]insights.MonthTotal, error) {
	if months < 1 {
		months = 1
	}
	first := p
	for i := 1; i < months; i++ {
		first = first.Previous()
	}
	expenses, err := s.store.FetchExpenses(ctx, ownerID, first.Start(), p.End())
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return insights.GroupByMonth(expenses), nil
}

// budgetFor uses the stored target or, when none exists, the suggestion.
func budgetFor(target *core.SavingsTarget, spent core.Money) insights.BudgetStatus {
	if target != nil {
		return insights.ComputeStatus(target.Amount, spent)
	}
	st := insights.ComputeStatus(insights.SuggestTarget(spent), spent)
	st.Suggested = true
	return st
}

func (s *DashboardService) snapshot(ctx context.Context, ownerID string, p core.Period) (Snapshot, bool, error) {
	key := cache.SnapshotKey(ownerID, p)
	if s.snapshots != nil {
		if snap, ok := s.snapshots.Get(key); ok {
			return snap, true, nil
		}
	}

	snap := Snapshot{Period: p}
	prev := p.Previous()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.store.FetchExpenses(gctx, ownerID, p.Start(), p.End())
		if err != nil {
			return fmt.Errorf("fetch %s expenses: %w", p, err)
		}
		snap.Current = items
		return nil
	})
	g.Go(func() error {
		items, err := s.store.FetchExpenses(gctx, ownerID, prev.Start(), prev.End())
		if err != nil {
			return fmt.Errorf("fetch %s expenses: %w", prev, err)
		}
		snap.Previous = items
		return nil
	})
	g.Go(func() error {
		target, err := s.store.FetchSavingsTarget(gctx, ownerID, p)
		if err != nil {
			return fmt.Errorf("fetch savings target: %w", err)
		}
		snap.Target = target
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, false, err
	}

	if s.snapshots != nil {
		s.snapshots.Set(key, snap)
	}
	return snap, false, nil
}
