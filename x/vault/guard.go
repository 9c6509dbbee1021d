package vault

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

// frame is a single invocation in progress.
type frame struct {
	cache valora.KVCacheWrap
	// committed runs once the outermost invocation is written. Nested
	// invocations hand theirs to the invocation that contains them.
	committed []func()
}

// active returns the store of the innermost invocation in progress, or the
// ledger store if nothing is running.
func (l *Ledger) active() valora.CacheableKVStore {
	if n := len(l.stack); n > 0 {
		return l.stack[n-1].cache
	}
	return l.db
}

// onCommit schedules fn to run when the current invocation and all the
// invocations containing it are written. It is dropped on failure.
func (l *Ledger) onCommit(fn func()) {
	top := &l.stack[len(l.stack)-1]
	top.committed = append(top.committed, fn)
}

// atomic runs fn on a fresh cache wrap of the active store. The cache is
// written if fn succeeds and discarded otherwise. A panic is turned into
// ErrPanic and discards the cache as any other failure.
func (l *Ledger) atomic(ctx valora.Context, op string, fn func(db valora.KVStore) error) (err error) {
	cache := l.active().CacheWrap()
	l.stack = append(l.stack, frame{cache: cache})
	depth := len(l.stack)

	defer func() {
		done := l.stack[depth-1]
		l.stack = l.stack[:depth-1]
		if err == nil {
			err = cache.Write()
		}

		logger := valora.GetLogger(ctx).With("op", op, "depth", depth)
		if err != nil {
			cache.Discard()
			recordOperation(op, err)
			logger.Debug("vault invocation aborted", "err", err)
			return
		}
		logger.Info("vault invocation committed")

		committed := append(done.committed, func() { recordOperation(op, nil) })
		if depth > 1 {
			outer := &l.stack[depth-2]
			outer.committed = append(outer.committed, committed...)
			return
		}
		for _, fn := range committed {
			fn()
		}
	}()
	defer errors.Recover(&err)

	return fn(cache)
}

// guarded is atomic with the reentrancy latch held while fn runs.
func (l *Ledger) guarded(ctx valora.Context, op string, fn func(db valora.KVStore) error) error {
	return l.atomic(ctx, op, func(db valora.KVStore) error {
		release, err := l.acquire()
		if err != nil {
			return err
		}
		defer release()
		return fn(db)
	})
}

// acquire takes the latch. The returned function must be deferred right
// away so the latch is released on every exit path.
func (l *Ledger) acquire() (release func(), err error) {
	if l.latched {
		return nil, ErrReentrant.New("operation in progress")
	}
	l.latched = true
	return func() { l.latched = false }, nil
}
