package testutil

import (
	"context"

	"github.com/invomate/invomate/internal/types"
)

// SetupContext returns a context carrying the default tenant and user, the
// way the auth middleware would populate it.
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetTenantID(ctx, types.DefaultTenantID)
	ctx = types.SetUserID(ctx, types.DefaultUserID)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
