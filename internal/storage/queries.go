package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Category struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

type ExpenseRow struct {
	ID            string
	OwnerID       string
	CategoryID    string
	AmountCents   int64
	Description   string
	Date          string
	CreatedAt     string
	CategoryName  string
	CategoryIcon  string
	CategoryColor string
}

type SavingsTarget struct {
	ID          string
	OwnerID     string
	Month       string
	TargetCents int64
	CreatedAt   string
}

const getCategory = `-- name: GetCategory :one
SELECT id, name, icon, color FROM categories WHERE id = ?
`

func (q *Queries) GetCategory(ctx context.Context, id string) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategory, id)
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.Icon, &i.Color)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, name, icon, color FROM categories ORDER BY name
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Name, &i.Icon, &i.Color); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createExpense = `-- name: CreateExpense :exec
INSERT INTO expenses (id, owner_id, category_id, amount_cents, description, date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateExpenseParams struct {
	ID          string
	OwnerID     string
	CategoryID  string
	AmountCents int64
	Description string
	Date        string
	CreatedAt   string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) error {
	_, err := q.db.ExecContext(ctx, createExpense,
		arg.ID,
		arg.OwnerID,
		arg.CategoryID,
		arg.AmountCents,
		arg.Description,
		arg.Date,
		arg.CreatedAt,
	)
	return err
}

const listExpensesBetween = `-- name: ListExpensesBetween :many
SELECT e.id, e.owner_id, e.category_id, e.amount_cents, e.description, e.date, e.created_at,
       c.name, c.icon, c.color
FROM expenses e
JOIN categories c ON c.id = e.category_id
WHERE e.owner_id = ? AND e.date >= ? AND e.date <= ?
ORDER BY e.date DESC, e.created_at DESC
`

type ListExpensesBetweenParams struct {
	OwnerID string
	From    string
	To      string
}

func (q *Queries) ListExpensesBetween(ctx context.Context, arg ListExpensesBetweenParams) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpensesBetween, arg.OwnerID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseRow
	for rows.Next() {
		var i ExpenseRow
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.CategoryID,
			&i.AmountCents,
			&i.Description,
			&i.Date,
			&i.CreatedAt,
			&i.CategoryName,
			&i.CategoryIcon,
			&i.CategoryColor,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteExpense = `-- name: DeleteExpense :execrows
DELETE FROM expenses WHERE id = ? AND owner_id = ?
`

func (q *Queries) DeleteExpense(ctx context.Context, id, ownerID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpense, id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getSavingsTarget = `-- name: GetSavingsTarget :one
SELECT id, owner_id, month, target_cents, created_at
FROM savings_targets WHERE owner_id = ? AND month = ?
`

func (q *Queries) GetSavingsTarget(ctx context.Context, ownerID, month string) (SavingsTarget, error) {
	row := q.db.QueryRowContext(ctx, getSavingsTarget, ownerID, month)
	var i SavingsTarget
	err := row.Scan(&i.ID, &i.OwnerID, &i.Month, &i.TargetCents, &i.CreatedAt)
	return i, err
}

const upsertSavingsTarget = `-- name: UpsertSavingsTarget :one
INSERT INTO savings_targets (id, owner_id, month, target_cents, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (owner_id, month) DO UPDATE SET target_cents = excluded.target_cents
RETURNING id, owner_id, month, target_cents, created_at
`

type UpsertSavingsTargetParams struct {
	ID          string
	OwnerID     string
	Month       string
	TargetCents int64
	CreatedAt   string
}

func (q *Queries) UpsertSavingsTarget(ctx context.Context, arg UpsertSavingsTargetParams) (SavingsTarget, error) {
	row := q.db.QueryRowContext(ctx, upsertSavingsTarget,
		arg.ID,
		arg.OwnerID,
		arg.Month,
		arg.TargetCents,
		arg.CreatedAt,
	)
	var i SavingsTarget
	err := row.Scan(&i.ID, &i.OwnerID, &i.Month, &i.TargetCents, &i.CreatedAt)
	return i, err
}
