package valoratest

import (
	"context"
	"time"

	"github.com/mohankour/ValoraVault"
)

// Ctx returns a context for a single invocation made by caller at given
// block time.
func Ctx(blockTime time.Time, caller valora.Address) valora.Context {
	ctx := valora.WithBlockTime(context.Background(), blockTime)
	if caller != nil {
		ctx = valora.WithCaller(ctx, caller)
	}
	return ctx
}
