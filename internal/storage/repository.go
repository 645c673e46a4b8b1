package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateExpense implements ports.ExpenseWriter
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	cat, err := r.queries.GetCategory(ctx, e.Category.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("%w: category %q", core.ErrNotFound, e.Category.ID)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get category: %w", err)
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = r.now().UTC()
	e.Category = toCoreCategory(cat)

	err = r.queries.CreateExpense(ctx, CreateExpenseParams{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		CategoryID:  cat.ID,
		AmountCents: e.Amount.Cents(),
		Description: e.Description,
		Date:        e.Date.String(),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"category", cat.Name,
		"amount", e.Amount.String(),
		"date", e.Date.String())

	return e, nil
}

// FetchExpenses implements ports.ExpenseFetcher
func (r *SQLiteRepository) FetchExpenses(ctx context.Context, ownerID string, from, to core.Date) ([]core.Expense, error) {
	rows, err := r.queries.ListExpensesBetween(ctx, ListExpensesBetweenParams{
		OwnerID: ownerID,
		From:    from.String(),
		To:      to.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := toCoreExpense(row)
		if err != nil {
			return nil, fmt.Errorf("decode expense %s: %w", row.ID, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// DeleteExpense implements ports.ExpenseDeleter
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, ownerID, id string) error {
	n, err := r.queries.DeleteExpense(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

// FetchSavingsTarget implements ports.SavingsTargetStore
func (r *SQLiteRepository) FetchSavingsTarget(ctx context.Context, ownerID string, month core.Period) (*core.SavingsTarget, error) {
	row, err := r.queries.GetSavingsTarget(ctx, ownerID, month.Start().String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get savings target: %w", err)
	}
	t, err := toCoreTarget(row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpsertSavingsTarget implements ports.SavingsTargetStore
func (r *SQLiteRepository) UpsertSavingsTarget(ctx context.Context, ownerID string, month core.Period, amount core.Money) (core.SavingsTarget, error) {
	if ownerID == "" {
		return core.SavingsTarget{}, core.ErrEmptyOwner
	}
	row, err := r.queries.UpsertSavingsTarget(ctx, UpsertSavingsTargetParams{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Month:       month.Start().String(),
		TargetCents: amount.Cents(),
		CreatedAt:   r.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return core.SavingsTarget{}, fmt.Errorf("upsert savings target: %w", err)
	}
	return toCoreTarget(row)
}

// ListCategories implements ports.CategoryReader
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	cats := make([]core.Category, len(rows))
	for i, c := range rows {
		cats[i] = toCoreCategory(c)
	}
	return cats, nil
}

func toCoreCategory(c Category) core.Category {
	return core.Category{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color}
}

func toCoreExpense(row ExpenseRow) (core.Expense, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Expense{}, err
	}
	created, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse created_at: %w", err)
	}
	return core.Expense{
		ID:      row.ID,
		OwnerID: row.OwnerID,
		Category: core.Category{
			ID:    row.CategoryID,
			Name:  row.CategoryName,
			Icon:  row.CategoryIcon,
			Color: row.CategoryColor,
		},
		Amount:      core.MoneyFromCents(row.AmountCents),
		Description: row.Description,
		Date:        date,
		CreatedAt:   created,
	}, nil
}

func toCoreTarget(row SavingsTarget) (core.SavingsTarget, error) {
	month, err := core.ParsePeriod(row.Month)
	if err != nil {
		return core.SavingsTarget{}, err
	}
	created, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return core.SavingsTarget{}, fmt.Errorf("parse created_at: %w", err)
	}
	return core.SavingsTarget{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Month:     month,
		Amount:    core.MoneyFromCents(row.TargetCents),
		CreatedAt: created,
	}, nil
}
