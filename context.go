package valora

import (
	"context"
	"fmt"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is the context every ledger invocation runs with.
type Context = context.Context

type contextKey int // local to the valora module

const (
	contextKeyBlockTime contextKey = iota
	contextKeyCaller
	contextKeyLogger
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// WithBlockTime sets the current time of the invocation. Time is truncated to
// the second precision the ledger operates on.
//
// Panics if the block time was already set, a lower level must not overwrite
// the clock provided by the execution environment.
func WithBlockTime(ctx Context, t time.Time) Context {
	if _, ok := BlockTime(ctx); ok {
		panic(fmt.Sprintf("block time already set: %v", t))
	}
	return context.WithValue(ctx, contextKeyBlockTime, t.Truncate(time.Second))
}

// BlockTime returns the current time as set by the execution environment.
func BlockTime(ctx Context) (time.Time, bool) {
	t, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	return t, ok
}

// Now returns the block time as UnixTime.
//
// This function panics if the block time is not provided in the context. This
// must never happen. The panic is here to prevent from broken setup to be
// processing data incorrectly.
func Now(ctx Context) UnixTime {
	t, ok := BlockTime(ctx)
	if !ok {
		panic("block time is not present")
	}
	return AsUnixTime(t)
}

// IsExpired returns true if given time is in the past as compared to the "now"
// as declared for the block. Expiration is inclusive, meaning that if current
// time is equal to the expiration time than this function returns true.
func IsExpired(ctx Context, t UnixTime) bool {
	return t <= Now(ctx)
}

// WithCaller sets the authenticated address the invocation is attributed to.
// A nested invocation (ie. a recipient calling back into the ledger) replaces
// the caller of the outer one.
func WithCaller(ctx Context, addr Address) Context {
	return context.WithValue(ctx, contextKeyCaller, addr)
}

// Caller returns the authenticated address of the invocation.
func Caller(ctx Context) (Address, bool) {
	addr, ok := ctx.Value(contextKeyCaller).(Address)
	if !ok || len(addr) == 0 {
		return nil, false
	}
	return addr, true
}

// WithLogger sets the logger for this context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
