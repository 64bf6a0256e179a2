package order

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Order struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenantId"`
	DisplayID    string    `json:"displayId"`
	SupplierName string    `json:"supplierName,omitempty"`
	TotalAmount  string    `json:"totalAmount"`
	Currency     string    `json:"currency"`
	Grouped      bool      `json:"grouped"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ListItem struct {
	ID           string    `json:"id"`
	DisplayID    string    `json:"displayId"`
	SupplierName string    `json:"supplierName,omitempty"`
	TotalAmount  string    `json:"totalAmount"`
	// OutstandingAmount aggregates the unsettled remainder across the
	// order's scheduled accounts.
	OutstandingAmount string    `json:"outstandingAmount"`
	Currency          string    `json:"currency"`
	Grouped           bool      `json:"grouped"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Item struct {
	ID          string `json:"id"`
	OrderID     string `json:"orderId"`
	SKU         string `json:"sku"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID string) ([]ListItem, error) {
	const q = `
SELECT o.id, o.display_id, o.supplier_name, o.total_amount::text,
       COALESCE(SUM(a.outstanding_amount), 0)::text AS outstanding_amount,
       o.currency, o.grouped, o.status, o.created_at, o.updated_at
FROM orders o
LEFT JOIN accounts a ON a.order_id = o.id AND a.status <> 'settled'
WHERE o.tenant_id = $1
GROUP BY o.id, o.display_id, o.supplier_name, o.total_amount, o.currency, o.grouped, o.status, o.created_at, o.updated_at
ORDER BY o.created_at DESC
`
	rows, err := r.db.Query(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var o ListItem
		var supplier *string
		if err := rows.Scan(
			&o.ID, &o.DisplayID, &supplier, &o.TotalAmount, &o.OutstandingAmount,
			&o.Currency, &o.Grouped, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if supplier != nil {
			o.SupplierName = *supplier
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, tenantID, orderID string) (*Order, error) {
	const q = `
SELECT id, tenant_id, display_id, supplier_name, total_amount::text, currency, grouped, status, created_at, updated_at
FROM orders
WHERE tenant_id = $1 AND id = $2
`
	return scanOrder(r.db.QueryRow(ctx, q, tenantID, orderID))
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, tenantID, orderID string) (*Order, error) {
	const q = `
SELECT id, tenant_id, display_id, supplier_name, total_amount::text, currency, grouped, status, created_at, updated_at
FROM orders
WHERE tenant_id = $1 AND id = $2
FOR UPDATE
`
	return scanOrder(tx.QueryRow(ctx, q, tenantID, orderID))
}

type row interface {
	Scan(dest ...any) error
}

func scanOrder(r row) (*Order, error) {
	var o Order
	var supplier *string
	if err := r.Scan(
		&o.ID, &o.TenantID, &o.DisplayID, &supplier, &o.TotalAmount,
		&o.Currency, &o.Grouped, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if supplier != nil {
		o.SupplierName = *supplier
	}
	return &o, nil
}

func UpdateStatus(ctx context.Context, tx pgx.Tx, tenantID, orderID string, next Status) error {
	const q = `
UPDATE orders
SET status = $1, updated_at = NOW()
WHERE tenant_id = $2 AND id = $3
`
	_, err := tx.Exec(ctx, q, string(next), tenantID, orderID)
	return err
}

func Insert(ctx context.Context, tx pgx.Tx, tenantID, displayID, supplierName, totalAmount, currency string, grouped bool) (string, error) {
	const q = `
INSERT INTO orders (tenant_id, display_id, supplier_name, total_amount, currency, grouped, status)
VALUES ($1, $2, NULLIF($3, ''), $4::numeric, $5, $6, 'Draft')
RETURNING id
`
	var id string
	err := tx.QueryRow(ctx, q, tenantID, displayID, supplierName, totalAmount, currency, grouped).Scan(&id)
	return id, err
}

func InsertItem(ctx context.Context, tx pgx.Tx, orderID, sku, description string, quantity int, unitPrice string) error {
	const q = `
INSERT INTO order_items (order_id, sku, description, quantity, unit_price)
VALUES ($1, $2, NULLIF($3, ''), $4, $5::numeric)
`
	_, err := tx.Exec(ctx, q, orderID, sku, description, quantity, unitPrice)
	return err
}

func ListItems(ctx context.Context, db *pgxpool.Pool, orderID string) ([]Item, error) {
	const q = `
SELECT id, order_id, sku, COALESCE(description, ''), quantity, unit_price::text
FROM order_items
WHERE order_id = $1
ORDER BY sku ASC
`
	rows, err := db.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.SKU, &it.Description, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
