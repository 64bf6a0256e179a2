package payment

import (
	"encoding/json"
	"fmt"
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
	"backoffice/internal/order"
	"backoffice/internal/payable"
	"backoffice/pkg/db"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	DB           *pgxpool.Pool
	Payables     *payable.Repository
	Payments     *Repository
	BankAccounts *bankaccount.Repository
}

// ListAccounts returns the tenant's accounts across all orders, optionally
// bounded to a due-date window via ?dueFrom=YYYY-MM-DD&dueTo=YYYY-MM-DD.
// This is the view the overdue sweep feeds: upcoming and overdue accounts
// regardless of which order they belong to.
func (h Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	t := api.TenantFromContext(r.Context())
	if t == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant identity")
		return
	}

	from, to, err := parseDueWindow(r.URL.Query().Get("dueFrom"), r.URL.Query().Get("dueTo"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	items, err := h.Payables.ListByTenant(r.Context(), t.ID, from, to)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []payable.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
}

// parseDueWindow parses optional due-date bounds from query parameters. An
// empty parameter leaves that bound open (zero time).
func parseDueWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromStr != "" {
		from, err = time.Parse(dateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("dueFrom must be YYYY-MM-DD")
		}
	}
	if toStr != "" {
		to, err = time.Parse(dateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("dueTo must be YYYY-MM-DD")
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("dueFrom must not be after dueTo")
	}
	return from, to, nil
}

// GetAccount returns the current state of one payable/receivable account,
// including its payment history.
func (h Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
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

	acc, err := h.Payables.GetScoped(r.Context(), t.ID, id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "account not found")
		return
	}

	history, err := h.Payments.ListByAccount(r.Context(), t.ID, acc.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if history == nil {
		history = []Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"account":  acc,
		"payments": history,
	})
}

type MakePaymentRequest struct {
	Mode          string `json:"mode"`
	Interest      string `json:"interest,omitempty"`
	Discount      string `json:"discount,omitempty"`
	Amount        string `json:"amount,omitempty"`
	PaymentDate   string `json:"paymentDate"`
	BankAccountID string `json:"bankAccountId"`
}

type MakePaymentResponse struct {
	PaymentID      string `json:"paymentId"`
	AppliedAmount  string `json:"appliedAmount"`
	NewOutstanding string `json:"newOutstanding"`
	BecameSettled  bool   `json:"becameSettled"`
}

// MakePayment applies a total or partial payment against one account. The
// account row is locked for the whole transaction, so two concurrent payments
// against the same account cannot both read the same outstanding amount.
func (h Handlers) MakePayment(w http.ResponseWriter, r *http.Request) {
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

	var req MakePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	mode, err := ParseMode(req.Mode)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "mode must be total or partial")
		return
	}

	interest, err := optionalAmount(req.Interest)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "interest must be a non-negative decimal string")
		return
	}
	discount, err := optionalAmount(req.Discount)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "discount must be a non-negative decimal string")
		return
	}
	explicit, err := optionalAmount(req.Amount)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "amount must be a non-negative decimal string")
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		paymentDate, err = time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "paymentDate must be YYYY-MM-DD")
			return
		}
	}

	if req.BankAccountID != "" {
		if _, err := h.BankAccounts.GetScoped(r.Context(), t.ID, req.BankAccountID); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown bank account")
			return
		}
	}

	var resp MakePaymentResponse
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		acc, err := payable.GetForUpdateScoped(r.Context(), tx, t.ID, id)
		if err != nil {
			return err
		}

		if acc.Status == payable.StatusSettled {
			api.WriteError(w, http.StatusConflict, "ACCOUNT_ALREADY_SETTLED", "account is already settled")
			return pgx.ErrTxCommitRollback
		}

		original, err := decimal.NewFromString(acc.OriginalAmount)
		if err != nil {
			return err
		}
		outstanding, err := decimal.NewFromString(acc.OutstandingAmount)
		if err != nil {
			return err
		}

		res, rerr := Apply(
			AccountState{OriginalAmount: original, OutstandingAmount: outstanding},
			Request{
				Mode:           mode,
				Interest:       interest,
				Discount:       discount,
				ExplicitAmount: explicit,
				PaymentDate:    paymentDate,
				BankAccountRef: req.BankAccountID,
			},
		)
		if rerr != nil {
			api.WriteError(w, http.StatusUnprocessableEntity, string(rerr.Reason), rerr.Message)
			return pgx.ErrTxCommitRollback
		}

		if err := payable.ApplySettlement(r.Context(), tx, acc.ID, res.NewOutstanding.StringFixed(2), res.BecameSettled, time.Now()); err != nil {
			return err
		}

		paymentID, err := Insert(
			r.Context(), tx, t.ID, acc.ID, mode,
			res.AppliedAmount.StringFixed(2), interest.StringFixed(2), discount.StringFixed(2),
			paymentDate, req.BankAccountID,
		)
		if err != nil {
			return err
		}

		// Once the last account settles, the order follows.
		if res.BecameSettled {
			open, err := payable.CountUnsettled(r.Context(), tx, acc.OrderID)
			if err != nil {
				return err
			}
			if open == 0 {
				if err := order.UpdateStatus(r.Context(), tx, t.ID, acc.OrderID, order.StatusSettled); err != nil {
					return err
				}
			}
		}

		now := time.Now()
		actor := "merchant"
		orderID := acc.OrderID
		meta := map[string]any{"accountId": acc.ID, "paymentId": paymentID, "mode": mode, "applied": res.AppliedAmount.StringFixed(2)}
		_ = audit.Insert(r.Context(), tx, t.ID, &orderID, "PAYMENT_APPLIED", actor, meta)
		_ = events.Insert(r.Context(), tx, acc.OrderID, "PAYMENT_APPLIED", "Payment applied", actor, now, meta)

		resp = MakePaymentResponse{
			PaymentID:      paymentID,
			AppliedAmount:  res.AppliedAmount.StringFixed(2),
			NewOutstanding: res.NewOutstanding.StringFixed(2),
			BecameSettled:  res.BecameSettled,
		}
		return nil
	})

	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "account not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func optionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errNegativeAmount
	}
	return d, nil
}

var errNegativeAmount = &ReconciliationError{Reason: ReasonNonPositiveAmount, Message: "amount must be >= 0"}
