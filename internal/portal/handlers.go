package portal

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backoffice/internal/api"
	"backoffice/internal/audit"
	"backoffice/internal/order"
	"backoffice/internal/payable"
	"backoffice/pkg/db"
)

// Handlers serves the supplier portal: public, token-scoped, read-only views
// of one order's payment plan. Tokens are minted by merchants via IssueToken
// and shared with the supplier.
type Handlers struct {
	DB       *pgxpool.Pool
	Orders   *order.Repository
	Payables *payable.Repository
	Tokens   *Repository
}

func (h Handlers) View(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing token")
		return
	}

	now := time.Now()

	const q = `
SELECT o.id, o.tenant_id, o.display_id, COALESCE(o.supplier_name, ''), o.total_amount::text,
       o.currency, o.grouped, o.status, o.created_at, o.updated_at, tn.name
FROM portal_tokens t
JOIN orders o ON o.id = t.order_id
JOIN tenants tn ON tn.id = o.tenant_id
WHERE t.token = $1 AND t.revoked_at IS NULL AND t.expires_at > $2
`
	var o order.Order
	var tenantName string
	if err := h.DB.QueryRow(r.Context(), q, token, now).Scan(
		&o.ID, &o.TenantID, &o.DisplayID, &o.SupplierName, &o.TotalAmount,
		&o.Currency, &o.Grouped, &o.Status, &o.CreatedAt, &o.UpdatedAt, &tenantName,
	); err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "portal link not found")
		return
	}

	accounts, err := h.Payables.ListByOrder(r.Context(), o.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if accounts == nil {
		accounts = []payable.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"order":    o,
		"accounts": accounts,
		"merchant": map[string]any{"name": tenantName},
	})
}

type IssueTokenRequest struct {
	ExpiresInDays int `json:"expiresInDays"`
}

// IssueToken returns a supplier portal link for an order, reusing the most
// recent unexpired token so repeated requests don't pile up rows; a new
// token is minted only when none is active. Merchant-scoped.
func (h Handlers) IssueToken(w http.ResponseWriter, r *http.Request) {
	t := api.TenantFromContext(r.Context())
	if t == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant identity")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var req IssueTokenRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	days := req.ExpiresInDays
	if days <= 0 {
		days = 30
	}

	o, err := h.Orders.GetByID(r.Context(), t.ID, id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}

	if existing, err := h.Tokens.GetActiveByOrder(r.Context(), o.ID, time.Now()); err == nil {
		api.WriteJSON(w, http.StatusOK, existing)
		return
	}

	var tr *TokenRecord
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		tr, err = InsertToken(r.Context(), tx, o.ID, time.Now().AddDate(0, 0, days))
		if err != nil {
			return err
		}
		orderID := o.ID
		return audit.Insert(r.Context(), tx, t.ID, &orderID, "PORTAL_TOKEN_ISSUED", "merchant", map[string]any{"expiresAt": tr.ExpiresAt})
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusCreated, tr)
}
