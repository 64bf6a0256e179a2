package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/auth"
	"backoffice/internal/order"
	"backoffice/internal/tenant"
	"backoffice/pkg/config"
	"backoffice/pkg/db"
)

// Seeds a demo tenant with a login, bank accounts, and a draft order so the
// API is immediately exercisable against a fresh database.
func main() {
	var (
		name     = flag.String("tenant", "demo", "tenant name")
		apiKey   = flag.String("api-key", "dev-tenant-key", "tenant API key for the X-Tenant-Key dev fallback")
		email    = flag.String("email", "ops@example.com", "back-office user email")
		password = flag.String("password", "changeme", "back-office user password")
		total    = flag.String("total", "1000.00", "demo order total amount")
		grouped  = flag.Bool("grouped", false, "create the demo order as a grouped (weekly consolidated) order")
	)
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
	}

	tenants := tenant.NewRepository(pool)
	tn, err := tenants.Create(ctx, *name, *apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create tenant: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}
	users := auth.NewRepository(pool)
	if _, err := users.Create(ctx, tn.ID, *email, string(hash), "admin"); err != nil {
		fmt.Fprintf(os.Stderr, "create user: %v\n", err)
		os.Exit(1)
	}

	var orderID string
	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		const qBank = `
INSERT INTO bank_accounts (tenant_id, name, bank_code, account_number)
VALUES ($1, $2, $3, $4)
ON CONFLICT DO NOTHING
`
		if _, err := tx.Exec(ctx, qBank, tn.ID, "Operating", "001", "12345-6"); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, qBank, tn.ID, "Savings", "033", "98765-4"); err != nil {
			return err
		}

		var err error
		orderID, err = order.Insert(ctx, tx, tn.ID, "PO-0001", "Acme Supplies", *total, "USD", *grouped)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("tenant=%s order=%s\n", tn.ID, orderID)
	fmt.Printf("login with %s / %s, or use X-Tenant-Key: %s\n", *email, *password, *apiKey)
}
