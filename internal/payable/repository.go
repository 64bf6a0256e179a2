package payable

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Kind string

const (
	KindPayable    Kind = "payable"
	KindReceivable Kind = "receivable"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindPayable, KindReceivable:
		return Kind(s), true
	default:
		return "", false
	}
}

const (
	StatusOpen    = "open"
	StatusSettled = "settled"
	StatusOverdue = "overdue"
)

// Record is one installment account. OriginalAmount is the full obligation;
// OutstandingAmount is the unpaid remainder and reaches zero exactly once the
// account settles.
type Record struct {
	ID                string     `json:"id"`
	TenantID          string     `json:"tenantId"`
	OrderID           string     `json:"orderId"`
	Kind              Kind       `json:"kind"`
	Number            int        `json:"number"`
	OriginalAmount    string     `json:"originalAmount"`
	OutstandingAmount string     `json:"outstandingAmount"`
	DueDate           time.Time  `json:"dueDate"`
	Status            string     `json:"status"`
	BankAccountID     string     `json:"bankAccountId,omitempty"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const recordColumns = `
id, tenant_id, order_id, kind, number, original_amount::text, outstanding_amount::text,
due_date, status, bank_account_id, paid_at, created_at
`

func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]Record, error) {
	const q = `
SELECT ` + recordColumns + `
FROM accounts
WHERE order_id = $1
ORDER BY kind ASC, number ASC
`
	rows, err := r.db.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// ListByTenant returns a tenant's accounts across all orders, soonest due
// first, optionally bounded to a due-date window. A zero bound leaves that
// side of the window open.
func (r *Repository) ListByTenant(ctx context.Context, tenantID string, dueFrom, dueTo time.Time) ([]Record, error) {
	const q = `
SELECT ` + recordColumns + `
FROM accounts
WHERE tenant_id = $1
  AND ($2::date IS NULL OR due_date >= $2)
  AND ($3::date IS NULL OR due_date <= $3)
ORDER BY due_date ASC, order_id ASC, number ASC
`
	var from, to *time.Time
	if !dueFrom.IsZero() {
		from = &dueFrom
	}
	if !dueTo.IsZero() {
		to = &dueTo
	}
	rows, err := r.db.Query(ctx, q, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *Repository) GetScoped(ctx context.Context, tenantID, accountID string) (*Record, error) {
	const q = `
SELECT ` + recordColumns + `
FROM accounts
WHERE tenant_id = $1 AND id = $2
`
	return scanRecord(r.db.QueryRow(ctx, q, tenantID, accountID))
}

// GetForUpdateScoped locks the account row for the duration of the enclosing
// transaction. Concurrent payments against the same account serialize here,
// so the outstanding amount the reconciler reads is never stale.
func GetForUpdateScoped(ctx context.Context, tx pgx.Tx, tenantID, accountID string) (*Record, error) {
	const q = `
SELECT ` + recordColumns + `
FROM accounts
WHERE tenant_id = $1 AND id = $2
FOR UPDATE
`
	return scanRecord(tx.QueryRow(ctx, q, tenantID, accountID))
}

type row interface {
	Scan(dest ...any) error
}

func scanRecord(r row) (*Record, error) {
	var rec Record
	var bankAccountID *string
	if err := r.Scan(
		&rec.ID, &rec.TenantID, &rec.OrderID, &rec.Kind, &rec.Number,
		&rec.OriginalAmount, &rec.OutstandingAmount, &rec.DueDate, &rec.Status,
		&bankAccountID, &rec.PaidAt, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	if bankAccountID != nil {
		rec.BankAccountID = *bankAccountID
	}
	return &rec, nil
}

// ScheduleRow is one row of a plan being persisted.
type ScheduleRow struct {
	Number  int
	Amount  string
	DueDate time.Time
}

// ReplaceSchedule replaces an order's unsettled schedule of the given kind
// wholesale. Regenerating a plan always discards the previous unsettled rows;
// settled rows are history and stay.
func ReplaceSchedule(ctx context.Context, tx pgx.Tx, tenantID, orderID string, kind Kind, bankAccountID string, rows []ScheduleRow) error {
	const del = `
DELETE FROM accounts
WHERE tenant_id = $1 AND order_id = $2 AND kind = $3 AND status <> 'settled'
`
	if _, err := tx.Exec(ctx, del, tenantID, orderID, string(kind)); err != nil {
		return err
	}

	const ins = `
INSERT INTO accounts (tenant_id, order_id, kind, number, original_amount, outstanding_amount, due_date, status, bank_account_id)
VALUES ($1, $2, $3, $4, $5::numeric, $5::numeric, $6, 'open', NULLIF($7, '')::uuid)
`
	for _, row := range rows {
		if _, err := tx.Exec(ctx, ins, tenantID, orderID, string(kind), row.Number, row.Amount, row.DueDate, bankAccountID); err != nil {
			return err
		}
	}
	return nil
}

// ApplySettlement commits a reconciled payment transition.
func ApplySettlement(ctx context.Context, tx pgx.Tx, accountID, newOutstanding string, settled bool, paidAt time.Time) error {
	if settled {
		const q = `
UPDATE accounts
SET outstanding_amount = $2::numeric, status = 'settled', paid_at = $3
WHERE id = $1
`
		_, err := tx.Exec(ctx, q, accountID, newOutstanding, paidAt)
		return err
	}
	const q = `
UPDATE accounts
SET outstanding_amount = $2::numeric
WHERE id = $1
`
	_, err := tx.Exec(ctx, q, accountID, newOutstanding)
	return err
}

// CountUnsettled reports how many of an order's accounts are not yet settled.
func CountUnsettled(ctx context.Context, tx pgx.Tx, orderID string) (int, error) {
	const q = `
SELECT COUNT(*)
FROM accounts
WHERE order_id = $1 AND status <> 'settled'
`
	var n int
	err := tx.QueryRow(ctx, q, orderID).Scan(&n)
	return n, err
}

// MarkOverdue flags open accounts whose due date has passed. Run by the
// daily sweep job.
func (r *Repository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	const q = `
UPDATE accounts
SET status = 'overdue'
WHERE status = 'open' AND due_date < $1
`
	tag, err := r.db.Exec(ctx, q, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
