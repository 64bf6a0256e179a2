package payment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Record struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	AccountID     string    `json:"accountId"`
	Mode          Mode      `json:"mode"`
	Amount        string    `json:"amount"`
	Interest      string    `json:"interest"`
	Discount      string    `json:"discount"`
	PaymentDate   time.Time `json:"paymentDate"`
	BankAccountID string    `json:"bankAccountId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func Insert(ctx context.Context, tx pgx.Tx, tenantID, accountID string, mode Mode, amount, interest, discount string, paymentDate time.Time, bankAccountID string) (string, error) {
	const q = `
INSERT INTO payments (tenant_id, account_id, mode, amount, interest, discount, payment_date, bank_account_id)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8)
RETURNING id
`
	var id string
	err := tx.QueryRow(ctx, q, tenantID, accountID, string(mode), amount, interest, discount, paymentDate, bankAccountID).Scan(&id)
	return id, err
}

func (r *Repository) ListByAccount(ctx context.Context, tenantID, accountID string) ([]Record, error) {
	const q = `
SELECT id, tenant_id, account_id, mode, amount::text, interest::text, discount::text, payment_date, bank_account_id, created_at
FROM payments
WHERE tenant_id = $1 AND account_id = $2
ORDER BY created_at ASC
`
	rows, err := r.db.Query(ctx, q, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var p Record
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.AccountID, &p.Mode, &p.Amount, &p.Interest,
			&p.Discount, &p.PaymentDate, &p.BankAccountID, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
