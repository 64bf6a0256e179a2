package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"backoffice/internal/api"
	"backoffice/internal/auth"
	"backoffice/internal/bankaccount"
	"backoffice/internal/order"
	"backoffice/internal/payable"
	"backoffice/internal/payment"
	"backoffice/internal/portal"
	"backoffice/internal/tenant"
	"backoffice/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
	Log *logrus.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(api.RequestLogger(deps.Log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	tenantsRepo := tenant.NewRepository(deps.DB)
	usersRepo := auth.NewRepository(deps.DB)
	ordersRepo := order.NewRepository(deps.DB)
	payablesRepo := payable.NewRepository(deps.DB)
	paymentsRepo := payment.NewRepository(deps.DB)
	bankAccountsRepo := bankaccount.NewRepository(deps.DB)
	tokensRepo := portal.NewRepository(deps.DB)

	authHandlers := auth.Handlers{Cfg: deps.Cfg, Users: usersRepo}
	orderHandlers := order.Handlers{
		DB:           deps.DB,
		Orders:       ordersRepo,
		Payables:     payablesRepo,
		BankAccounts: bankAccountsRepo,
	}
	paymentHandlers := payment.Handlers{
		DB:           deps.DB,
		Payables:     payablesRepo,
		Payments:     paymentsRepo,
		BankAccounts: bankAccountsRepo,
	}
	bankAccountHandlers := bankaccount.Handlers{Repo: bankAccountsRepo}
	portalHandlers := portal.Handlers{
		DB:       deps.DB,
		Orders:   ordersRepo,
		Payables: payablesRepo,
		Tokens:   tokensRepo,
	}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandlers.Login)

		// Back-office APIs (tenant-scoped)
		r.Group(func(r chi.Router) {
			// Production: JWT session auth.
			// Dev: falls back to X-Tenant-Key if Authorization is missing.
			r.Use(api.SessionAuth(deps.Cfg, tenantsRepo))

			r.Get("/orders", orderHandlers.List)
			r.Post("/orders/import", orderHandlers.Import)
			r.Get("/orders/{id}", orderHandlers.Get)
			r.Patch("/orders/{id}/status", orderHandlers.PatchStatus)
			r.Get("/orders/{id}/events", orderHandlers.Events)
			r.Post("/orders/{id}/schedule-preview", orderHandlers.SchedulePreview)
			r.Post("/orders/{id}/create-payables-advanced", orderHandlers.CreatePayables)
			r.Post("/orders/{id}/portal-token", portalHandlers.IssueToken)

			r.Get("/accounts-payable", paymentHandlers.ListAccounts)
			r.Get("/accounts-payable/{id}", paymentHandlers.GetAccount)
			r.Post("/accounts-payable/{id}/make-payment", paymentHandlers.MakePayment)

			r.Get("/bank-accounts", bankAccountHandlers.List)
			r.Post("/bank-accounts", bankAccountHandlers.Create)
		})

		// Supplier portal
		r.Route("/portal", func(r chi.Router) {
			// Public, token-based endpoints used by a separate frontend
			// domain. Only allow CORS for explicitly configured origins.
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: deps.Cfg.PortalAllowedOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         600,
			}))

			r.Get("/{token}", portalHandlers.View)
		})
	})

	return r
}
