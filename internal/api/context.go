package api

import (
	"context"

	"backoffice/internal/tenant"
)

type ctxKey string

const ctxKeyTenant ctxKey = "tenant"

func WithTenant(ctx context.Context, t *tenant.Tenant) context.Context {
	return context.WithValue(ctx, ctxKeyTenant, t)
}

func TenantFromContext(ctx context.Context) *tenant.Tenant {
	v := ctx.Value(ctxKeyTenant)
	if v == nil {
		return nil
	}
	t, _ := v.(*tenant.Tenant)
	return t
}
