package order

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"backoffice/internal/api"
	"backoffice/internal/audit"
	"backoffice/internal/bankaccount"
	"backoffice/internal/events"
	"backoffice/internal/payable"
	"backoffice/internal/schedule"
	"backoffice/pkg/db"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	DB           *pgxpool.Pool
	Orders       *Repository
	Payables     *payable.Repository
	BankAccounts *bankaccount.Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	t := api.TenantFromContext(r.Context())
	if t == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant identity")
		return
	}

	items, err := h.Orders.ListByTenant(r.Context(), t.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []ListItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
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

	o, err := h.Orders.GetByID(r.Context(), t.ID, id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
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

	items, _ := ListItems(r.Context(), h.DB, o.ID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"order":    o,
		"accounts": accounts,
		"items":    items,
	})
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.Orders.GetByID(r.Context(), t.ID, id); err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}

	evs, err := events.ListByOrder(r.Context(), h.DB, id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"items": evs})
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
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

	var req PatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	next, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		o, err := GetForUpdate(r.Context(), tx, t.ID, id)
		if err != nil {
			return err
		}

		if !CanTransition(o.Status, next) {
			api.WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", "invalid state transition")
			return pgx.ErrTxCommitRollback
		}

		// Settling by hand requires every scheduled account to be settled;
		// payment application normally drives this transition.
		if next == StatusSettled {
			open, err := payable.CountUnsettled(r.Context(), tx, o.ID)
			if err != nil {
				return err
			}
			if open > 0 {
				api.WriteError(w, http.StatusConflict, "ACCOUNTS_OUTSTANDING", "order still has unsettled accounts")
				return pgx.ErrTxCommitRollback
			}
		}

		if err := UpdateStatus(r.Context(), tx, t.ID, o.ID, next); err != nil {
			return err
		}

		actor := "merchant"
		orderID := o.ID
		_ = audit.Insert(r.Context(), tx, t.ID, &orderID, "STATUS_CHANGED", actor, map[string]any{"from": o.Status, "to": next})
		_ = events.Insert(r.Context(), tx, o.ID, "STATUS_CHANGED", "Status changed", actor, time.Now(), map[string]any{"from": o.Status, "to": next})

		return nil
	})

	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InstallmentRow is the wire form of one plan row, editable in the UI
// between preview and submission. Amounts are decimal strings, dates
// YYYY-MM-DD.
type InstallmentRow struct {
	Number  int    `json:"number"`
	Amount  string `json:"amount"`
	DueDate string `json:"dueDate"`
}

type SchedulePreviewRequest struct {
	Spec       string `json:"spec"`
	AnchorDate string `json:"anchorDate"`
}

// SchedulePreview parses the user-entered installment spec and returns the
// generated plan without persisting anything. The client renders these rows
// for editing and submits the final plan to CreatePayables.
func (h Handlers) SchedulePreview(w http.ResponseWriter, r *http.Request) {
	t := api.TenantFromContext(r.Context())
	if t == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant identity")
		return
	}

	id := chi.URLParam(r, "id")
	o, err := h.Orders.GetByID(r.Context(), t.ID, id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}

	var req SchedulePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	anchor, err := time.Parse(dateLayout, req.AnchorDate)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "anchorDate must be YYYY-MM-DD")
		return
	}

	intent, perr := schedule.ParseSpec(req.Spec, o.Grouped)
	if perr != nil {
		api.WriteError(w, http.StatusBadRequest, string(perr.Reason), perr.Message)
		return
	}

	total, err := decimal.NewFromString(o.TotalAmount)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	plan := schedule.Generate(total, anchor, intent, o.Grouped)

	rows := make([]InstallmentRow, len(plan))
	for i, ins := range plan {
		rows[i] = InstallmentRow{
			Number:  ins.Number,
			Amount:  ins.Amount.StringFixed(2),
			DueDate: ins.DueDate.Format(dateLayout),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"installments": rows})
}

type CreatePayablesRequest struct {
	Kind          string           `json:"kind"`
	BankAccountID string           `json:"bankAccountId,omitempty"`
	Installments  []InstallmentRow `json:"installments"`
}

// CreatePayables persists the final (possibly user-edited) installment plan
// for an order as payable or receivable accounts, replacing any unsettled
// plan of the same kind. The plan is revalidated against the order total
// first: rows are editable client-side and edits can break the sum.
func (h Handlers) CreatePayables(w http.ResponseWriter, r *http.Request) {
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

	var req CreatePayablesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	kind, ok := payable.ParseKind(req.Kind)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "kind must be payable or receivable")
		return
	}

	plan := make([]schedule.Installment, 0, len(req.Installments))
	scheduleRows := make([]payable.ScheduleRow, 0, len(req.Installments))
	for _, row := range req.Installments {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "installment amounts must be decimal strings")
			return
		}
		due, err := time.Parse(dateLayout, row.DueDate)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "installment due dates must be YYYY-MM-DD")
			return
		}
		plan = append(plan, schedule.Installment{Number: row.Number, Amount: amount, DueDate: due})
		scheduleRows = append(scheduleRows, payable.ScheduleRow{Number: row.Number, Amount: amount.StringFixed(2), DueDate: due})
	}

	if req.BankAccountID != "" {
		if _, err := h.BankAccounts.GetScoped(r.Context(), t.ID, req.BankAccountID); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown bank account")
			return
		}
	}

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		o, err := GetForUpdate(r.Context(), tx, t.ID, id)
		if err != nil {
			return err
		}

		if o.Status == StatusSettled || o.Status == StatusCancelled {
			api.WriteError(w, http.StatusConflict, "ORDER_CLOSED", "order no longer accepts a schedule")
			return pgx.ErrTxCommitRollback
		}

		total, err := decimal.NewFromString(o.TotalAmount)
		if err != nil {
			return err
		}
		if err := schedule.Validate(plan, total); err != nil {
			ve, ok := err.(schedule.ValidationError)
			if !ok {
				return err
			}
			api.WriteError(w, http.StatusUnprocessableEntity, ve.Code, ve.Message)
			return pgx.ErrTxCommitRollback
		}

		if err := payable.ReplaceSchedule(r.Context(), tx, t.ID, o.ID, kind, req.BankAccountID, scheduleRows); err != nil {
			return err
		}

		if o.Status != StatusScheduled {
			if err := UpdateStatus(r.Context(), tx, t.ID, o.ID, StatusScheduled); err != nil {
				return err
			}
		}

		now := time.Now()
		actor := "merchant"
		orderID := o.ID
		_ = audit.Insert(r.Context(), tx, t.ID, &orderID, "SCHEDULE_CREATED", actor, map[string]any{"kind": kind, "rows": len(scheduleRows)})
		_ = events.Insert(r.Context(), tx, o.ID, "SCHEDULE_CREATED", "Installment schedule created", actor, now, map[string]any{"kind": kind, "rows": len(scheduleRows)})

		return nil
	})

	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}

	accounts, err := h.Payables.ListByOrder(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"items": accounts})
}
