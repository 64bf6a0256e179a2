package order

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"backoffice/internal/api"
	"backoffice/internal/audit"
	"backoffice/internal/schedule"
	"backoffice/pkg/db"
)

type ImportItem struct {
	SKU         string `json:"sku"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

type ImportOrder struct {
	DisplayID    string       `json:"displayId"`
	SupplierName string       `json:"supplierName,omitempty"`
	Currency     string       `json:"currency"`
	Grouped      bool         `json:"grouped"`
	Items        []ImportItem `json:"items"`
}

type ImportRequest struct {
	Orders []ImportOrder `json:"orders"`
}

// Import creates draft orders from rows already extracted upstream from a
// bulk upload. Quantities are normalized to whole lots of 10 and the order
// total is derived from the normalized quantities, so repeated imports of the
// same sheet always produce the same totals.
func (h Handlers) Import(w http.ResponseWriter, r *http.Request) {
	t := api.TenantFromContext(r.Context())
	if t == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant identity")
		return
	}

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if len(req.Orders) == 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "no orders to import")
		return
	}

	type imported struct {
		ID          string `json:"id"`
		DisplayID   string `json:"displayId"`
		TotalAmount string `json:"totalAmount"`
	}
	var created []imported

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		for _, in := range req.Orders {
			if in.DisplayID == "" || len(in.Items) == 0 {
				api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "each order needs a displayId and at least one item")
				return pgx.ErrTxCommitRollback
			}
			currency := in.Currency
			if currency == "" {
				currency = "USD"
			}

			total := decimal.Zero
			type normItem struct {
				ImportItem
				qty int
			}
			items := make([]normItem, 0, len(in.Items))
			for _, it := range in.Items {
				price, err := decimal.NewFromString(it.UnitPrice)
				if err != nil || price.IsNegative() {
					api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unit prices must be non-negative decimal strings")
					return pgx.ErrTxCommitRollback
				}
				qty := schedule.RoundQuantityToMultipleOf10(it.Quantity)
				total = total.Add(schedule.RoundCents(price.Mul(decimal.NewFromInt(int64(qty)))))
				items = append(items, normItem{ImportItem: it, qty: qty})
			}

			orderID, err := Insert(r.Context(), tx, t.ID, in.DisplayID, in.SupplierName, total.StringFixed(2), currency, in.Grouped)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := InsertItem(r.Context(), tx, orderID, it.SKU, it.Description, it.qty, it.UnitPrice); err != nil {
					return err
				}
			}

			created = append(created, imported{ID: orderID, DisplayID: in.DisplayID, TotalAmount: total.StringFixed(2)})
		}

		_ = audit.Insert(r.Context(), tx, t.ID, nil, "ORDERS_IMPORTED", "merchant", map[string]any{"count": len(created), "at": time.Now()})
		return nil
	})

	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{"items": created})
}
