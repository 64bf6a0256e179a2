package bankaccount

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BankAccount struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	Name          string    `json:"name"`
	BankCode      string    `json:"bankCode,omitempty"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID string) ([]BankAccount, error) {
	const q = `
SELECT id, tenant_id, name, COALESCE(bank_code, ''), COALESCE(account_number, ''), created_at
FROM bank_accounts
WHERE tenant_id = $1
ORDER BY name ASC
`
	rows, err := r.db.Query(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BankAccount
	for rows.Next() {
		var b BankAccount
		if err := rows.Scan(&b.ID, &b.TenantID, &b.Name, &b.BankCode, &b.AccountNumber, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) GetScoped(ctx context.Context, tenantID, id string) (*BankAccount, error) {
	const q = `
SELECT id, tenant_id, name, COALESCE(bank_code, ''), COALESCE(account_number, ''), created_at
FROM bank_accounts
WHERE tenant_id = $1 AND id = $2
`
	b := &BankAccount{}
	if err := r.db.QueryRow(ctx, q, tenantID, id).Scan(
		&b.ID, &b.TenantID, &b.Name, &b.BankCode, &b.AccountNumber, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Repository) Create(ctx context.Context, tenantID, name, bankCode, accountNumber string) (*BankAccount, error) {
	const q = `
INSERT INTO bank_accounts (tenant_id, name, bank_code, account_number)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
RETURNING id, tenant_id, name, COALESCE(bank_code, ''), COALESCE(account_number, ''), created_at
`
	b := &BankAccount{}
	if err := r.db.QueryRow(ctx, q, tenantID, name, bankCode, accountNumber).Scan(
		&b.ID, &b.TenantID, &b.Name, &b.BankCode, &b.AccountNumber, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return b, nil
}
