package valora

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// block time - uninitialized
	_, ok := BlockTime(ctx)
	assert.False(t, ok)
	assert.Panics(t, func() { Now(ctx) })

	// set, truncated to seconds
	now := time.Date(2024, time.March, 1, 12, 0, 0, 999, time.UTC)
	ctx = WithBlockTime(ctx, now)
	got, ok := BlockTime(ctx)
	assert.True(t, ok)
	assert.Equal(t, now.Truncate(time.Second), got)
	assert.Equal(t, AsUnixTime(now), Now(ctx))
	// no reset
	assert.Panics(t, func() { WithBlockTime(ctx, now) })

	// changing the info, should modify the logger, but not the time
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	got, _ = BlockTime(ctx2)
	assert.Equal(t, now.Truncate(time.Second), got)
}

func TestCaller(t *testing.T) {
	ctx := context.Background()
	_, ok := Caller(ctx)
	assert.False(t, ok)

	_, ok = Caller(WithCaller(ctx, nil))
	assert.False(t, ok)

	alice := NewAddress([]byte("alice"))
	bob := NewAddress([]byte("bob"))
	ctx = WithCaller(ctx, alice)
	got, ok := Caller(ctx)
	assert.True(t, ok)
	assert.Equal(t, alice, got)

	// a nested invocation is attributed to the new caller
	got, _ = Caller(WithCaller(ctx, bob))
	assert.Equal(t, bob, got)
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	ctx := WithBlockTime(context.Background(), now)

	cases := map[string]struct {
		at   UnixTime
		want bool
	}{
		"in the past":   {at: AsUnixTime(now.Add(-time.Second)), want: true},
		"exactly now":   {at: AsUnixTime(now), want: true},
		"in the future": {at: AsUnixTime(now.Add(time.Second)), want: false},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, IsExpired(ctx, tc.at))
		})
	}
}
