package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newExpense(owner, cat, amount string, d core.Date) core.Expense {
	return core.Expense{
		OwnerID:     owner,
		Category:    core.Category{ID: cat},
		Amount:      core.MustMoney(amount),
		Description: "test",
		Date:        d,
	}
}

func TestCreateAndFetchExpenses(t *testing.T) {
	ctx := context.Background()
	s := NewDefault()

	created, err := s.CreateExpense(ctx, newExpense("u1", "food-dining", "12.50", core.NewDate(2025, 3, 2)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Category.Name != "Food & Dining" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id, resolved category and timestamp, got %+v", created)
	}
	if _, err := s.CreateExpense(ctx, newExpense("u1", "housing", "900", core.NewDate(2025, 3, 1))); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateExpense(ctx, newExpense("u1", "housing", "900", core.NewDate(2025, 2, 1))); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateExpense(ctx, newExpense("u2", "housing", "1", core.NewDate(2025, 3, 1))); err != nil {
		t.Fatalf("create: %v", err)
	}

	march := core.Period{Year: 2025, Month: time.March}
	got, err := s.FetchExpenses(ctx, "u1", march.Start(), march.End())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 expenses for u1 in march, got %d", len(got))
	}
	if got[0].Date.Day() != 2 {
		t.Fatalf("expected newest first, got %v", got[0].Date)
	}
}

func TestCreateExpenseRejectsUnknownCategory(t *testing.T) {
	s := NewDefault()
	_, err := s.CreateExpense(context.Background(), newExpense("u1", "nope", "1", core.NewDate(2025, 3, 2)))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteExpenseIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	s := NewDefault()
	e, err := s.CreateExpense(ctx, newExpense("u1", "other", "5", core.NewDate(2025, 3, 2)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.DeleteExpense(ctx, "u2", e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
	if err := s.DeleteExpense(ctx, "u1", e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteExpense(ctx, "u1", e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSavingsTargetUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewDefault()
	month := core.Period{Year: 2025, Month: time.March}

	got, err := s.FetchSavingsTarget(ctx, "u1", month)
	if err != nil || got != nil {
		t.Fatalf("expected no target, got %+v err=%v", got, err)
	}

	first, err := s.UpsertSavingsTarget(ctx, "u1", month, core.MustMoney("100"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := s.UpsertSavingsTarget(ctx, "u1", month, core.MustMoney("250"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("upsert must keep the id: %s != %s", first.ID, second.ID)
	}

	got, err = s.FetchSavingsTarget(ctx, "u1", month)
	if err != nil || got == nil || got.Amount.String() != "250.00" {
		t.Fatalf("unexpected target %+v err=%v", got, err)
	}
	if other, _ := s.FetchSavingsTarget(ctx, "u1", month.Next()); other != nil {
		t.Fatalf("targets are per month, got %+v", other)
	}
}

func TestListCategoriesDedupesAndSorts(t *testing.T) {
	s := New([]core.Category{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}, {ID: "b", Name: "B2"}, {ID: " "}})
	cats, err := s.ListCategories(context.Background())
	if err != nil || len(cats) != 2 || cats[0].Name != "A" {
		t.Fatalf("unexpected categories %+v err=%v", cats, err)
	}
}
