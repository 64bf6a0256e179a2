package portal

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenRecord struct {
	ID        string     `json:"id"`
	OrderID   string     `json:"orderId"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetActiveByOrder(ctx context.Context, orderID string, now time.Time) (*TokenRecord, error) {
	const q = `
SELECT id, order_id, token, expires_at, revoked_at, created_at
FROM portal_tokens
WHERE order_id = $1
  AND revoked_at IS NULL
  AND expires_at > $2
ORDER BY created_at DESC
LIMIT 1
`
	var tr TokenRecord
	if err := r.db.QueryRow(ctx, q, orderID, now).Scan(&tr.ID, &tr.OrderID, &tr.Token, &tr.ExpiresAt, &tr.RevokedAt, &tr.CreatedAt); err != nil {
		return nil, err
	}
	return &tr, nil
}

func InsertToken(ctx context.Context, tx pgx.Tx, orderID string, expiresAt time.Time) (*TokenRecord, error) {
	token := randomHex(32)
	const q = `
INSERT INTO portal_tokens (order_id, token, expires_at)
VALUES ($1, $2, $3)
RETURNING id, order_id, token, expires_at, revoked_at, created_at
`
	var tr TokenRecord
	if err := tx.QueryRow(ctx, q, orderID, token, expiresAt).Scan(&tr.ID, &tr.OrderID, &tr.Token, &tr.ExpiresAt, &tr.RevokedAt, &tr.CreatedAt); err != nil {
		return nil, err
	}
	return &tr, nil
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
