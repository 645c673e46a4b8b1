package ports

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters. Every call is scoped to an owner; adapters
// must never return or touch rows belonging to someone else.
type (
	// ExpenseFetcher returns the owner's expenses dated within [from, to],
	// most recent first, with the category resolved.
	ExpenseFetcher interface {
		FetchExpenses(ctx context.Context, ownerID string, from, to core.Date) ([]core.Expense, error)
	}

	ExpenseWriter interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	}

	// ExpenseDeleter removes one expense. It returns core.ErrNotFound when
	// no expense with that id belongs to the owner.
	ExpenseDeleter interface {
		DeleteExpense(ctx context.Context, ownerID, id string) error
	}

	// SavingsTargetStore reads and upserts the monthly target. Fetch returns
	// nil without error when no target is stored for the month.
	SavingsTargetStore interface {
		FetchSavingsTarget(ctx context.Context, ownerID string, month core.Period) (*core.SavingsTarget, error)
		UpsertSavingsTarget(ctx context.Context, ownerID string, month core.Period, amount core.Money) (core.SavingsTarget, error)
	}

	CategoryReader interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
	}

	// ExpenseMirror receives a copy of expense changes, e.g. a spreadsheet export.
	ExpenseMirror interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
		Remove(ctx context.Context, id string) error
	}
)
