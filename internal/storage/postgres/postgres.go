// Package postgres reads and writes the hosted backend's tables. The schema
// (expenses, categories, savings_targets) is owned by the hosting platform;
// this package never creates or migrates it.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Config holds the connection settings.
type Config struct {
	URL             string
	MaxPoolSize     int
	ConnectTimeout  time.Duration
	MaxConnLifetime time.Duration
}

// Store implements the data ports on top of a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects and pings the database.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = 10
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.MaxConnLifetime == 0 {
		cfg.MaxConnLifetime = time.Hour
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxPoolSize)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("connected to PostgreSQL", "database", poolConfig.ConnConfig.Database, "host", poolConfig.ConnConfig.Host)
	return &Store{pool: pool, logger: logger}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const selectExpenses = `
SELECT e.id::text, e.user_id::text, e.amount::text, e.description, e.date, e.created_at,
       c.id::text, c.name, c.icon, c.color
FROM expenses e
JOIN categories c ON c.id = e.category_id
WHERE e.user_id = $1 AND e.date BETWEEN $2 AND $3
ORDER BY e.date DESC, e.created_at DESC`

// FetchExpenses implements ports.ExpenseFetcher
func (s *Store) FetchExpenses(ctx context.Context, ownerID string, from, to core.Date) ([]core.Expense, error) {
	rows, err := s.pool.Query(ctx, selectExpenses, ownerID, from.Time, to.Time)
	if err != nil {
		return nil, fmt.Errorf("querying expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e      core.Expense
			amount string
			date   time.Time
		)
		if err := rows.Scan(&e.ID, &e.OwnerID, &amount, &e.Description, &date, &e.CreatedAt,
			&e.Category.ID, &e.Category.Name, &e.Category.Icon, &e.Category.Color); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		m, err := parseNumeric(amount)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		e.Amount = m
		e.Date = core.DateOf(date)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}
	return out, nil
}

const insertExpense = `
WITH inserted AS (
    INSERT INTO expenses (user_id, category_id, amount, description, date)
    VALUES ($1, $2, $3::numeric, $4, $5)
    RETURNING id, created_at, category_id
)
SELECT i.id::text, i.created_at, c.name, c.icon, c.color
FROM inserted i JOIN categories c ON c.id = i.category_id`

// CreateExpense implements ports.ExpenseWriter. Ids are generated by the database.
func (s *Store) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	row := s.pool.QueryRow(ctx, insertExpense, e.OwnerID, e.Category.ID, e.Amount.String(), e.Description, e.Date.Time)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.Category.Name, &e.Category.Icon, &e.Category.Color); err != nil {
		return core.Expense{}, fmt.Errorf("inserting expense: %w", err)
	}
	return e, nil
}

// DeleteExpense implements ports.ExpenseDeleter
func (s *Store) DeleteExpense(ctx context.Context, ownerID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id::text = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

const selectTarget = `
SELECT id::text, user_id::text, month, target_amount::text, created_at
FROM savings_targets WHERE user_id = $1 AND month = $2`

// FetchSavingsTarget implements ports.SavingsTargetStore
func (s *Store) FetchSavingsTarget(ctx context.Context, ownerID string, month core.Period) (*core.SavingsTarget, error) {
	t, err := scanTarget(s.pool.QueryRow(ctx, selectTarget, ownerID, month.Start().Time))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying savings target: %w", err)
	}
	return &t, nil
}

const upsertTarget = `
INSERT INTO savings_targets (user_id, month, target_amount)
VALUES ($1, $2, $3::numeric)
ON CONFLICT (user_id, month) DO UPDATE SET target_amount = EXCLUDED.target_amount
RETURNING id::text, user_id::text, month, target_amount::text, created_at`

// UpsertSavingsTarget implements ports.SavingsTargetStore
func (s *Store) UpsertSavingsTarget(ctx context.Context, ownerID string, month core.Period, amount core.Money) (core.SavingsTarget, error) {
	if ownerID == "" {
		return core.SavingsTarget{}, core.ErrEmptyOwner
	}
	t, err := scanTarget(s.pool.QueryRow(ctx, upsertTarget, ownerID, month.Start().Time, amount.String()))
	if err != nil {
		return core.SavingsTarget{}, fmt.Errorf("upserting savings target: %w", err)
	}
	return t, nil
}

// ListCategories implements ports.CategoryReader
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id::text, name, icon, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	cats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Category, error) {
		var c core.Category
		err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.Color)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning categories: %w", err)
	}
	return cats, nil
}

func scanTarget(row pgx.Row) (core.SavingsTarget, error) {
	var (
		t      core.SavingsTarget
		month  time.Time
		amount string
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &month, &amount, &t.CreatedAt); err != nil {
		return core.SavingsTarget{}, err
	}
	m, err := parseNumeric(amount)
	if err != nil {
		return core.SavingsTarget{}, err
	}
	t.Month = core.PeriodOf(month)
	t.Amount = m
	return t, nil
}

// parseNumeric converts the text form of a numeric column.
func parseNumeric(s string) (core.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return core.Zero, fmt.Errorf("parsing numeric %q: %w", s, err)
	}
	return core.NewMoney(d), nil
}
