package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

type Store struct {
	mu      sync.Mutex
	cats    []core.Category
	items   []core.Expense
	targets map[targetKey]core.SavingsTarget
	now     func() time.Time
}

type targetKey struct {
	owner string
	month core.Period
}

func New(cats []core.Category) *Store {
	return &Store{
		cats:    dedupe(cats),
		targets: make(map[targetKey]core.SavingsTarget),
		now:     time.Now,
	}
}

// NewDefault returns a store seeded with core.DefaultCategories.
func NewDefault() *Store {
	return New(core.DefaultCategories())
}

// CreateExpense stores the expense, assigning an id and resolving its category.
func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.category(e.Category.ID)
	if !ok {
		return core.Expense{}, fmt.Errorf("%w: category %q", core.ErrNotFound, e.Category.ID)
	}
	e.Category = cat
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = s.now().UTC()
	s.items = append(s.items, e)
	return e, nil
}

// FetchExpenses returns the owner's expenses in [from, to], newest first.
func (s *Store) FetchExpenses(_ context.Context, ownerID string, from, to core.Date) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.items {
		if e.OwnerID != ownerID {
			continue
		}
		if e.Date.Before(from.Time) || e.Date.After(to.Time) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id && e.OwnerID == ownerID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) FetchSavingsTarget(_ context.Context, ownerID string, month core.Period) (*core.SavingsTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.targets[targetKey{ownerID, month}]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// UpsertSavingsTarget keeps the id and creation time of an existing target.
func (s *Store) UpsertSavingsTarget(_ context.Context, ownerID string, month core.Period, amount core.Money) (core.SavingsTarget, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.SavingsTarget{}, core.ErrEmptyOwner
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := targetKey{ownerID, month}
	t, ok := s.targets[key]
	if !ok {
		t = core.SavingsTarget{ID: uuid.NewString(), OwnerID: ownerID, Month: month, CreatedAt: s.now().UTC()}
	}
	t.Amount = amount
	s.targets[key] = t
	return t, nil
}

// ListCategories returns categories sorted by name.
func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := append([]core.Category(nil), s.cats...)
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) category(id string) (core.Category, bool) {
	for _, c := range s.cats {
		if c.ID == id {
			return c, true
		}
	}
	return core.Category{}, false
}

func dedupe(in []core.Category) []core.Category {
	seen := map[string]struct{}{}
	out := make([]core.Category, 0, len(in))
	for _, c := range in {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
