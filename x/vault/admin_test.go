package vault

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/store"
	"github.com/mohankour/ValoraVault/valoratest"
	vassert "github.com/mohankour/ValoraVault/valoratest/assert"
)

const day = 24 * time.Hour

func TestAdminOperationsRequireAdmin(t *testing.T) {
	cases := map[string]func(f *fixture, ctx valora.Context) error{
		"update fee": func(f *fixture, ctx valora.Context) error {
			return f.ledger.UpdateFee(ctx, 5)
		},
		"update lock duration": func(f *fixture, ctx valora.Context) error {
			return f.ledger.UpdateLockDuration(ctx, valora.AsUnixDuration(7*day))
		},
		"transfer ownership": func(f *fixture, ctx valora.Context) error {
			return f.ledger.TransferOwnership(ctx, f.bob)
		},
		"emergency withdraw": func(f *fixture, ctx valora.Context) error {
			return f.ledger.EmergencyWithdraw(ctx)
		},
	}

	for testName, run := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.ledger.Deposit(f.ctx(f.alice, genesisTime), 100))
			before := f.snapshot()

			vassert.IsErr(t, ErrNotAuthorized, run(f, f.ctx(f.alice, genesisTime)))
			vassert.IsErr(t, ErrNotAuthorized, run(f, f.ctx(nil, genesisTime)))
			assert.Equal(t, before, f.snapshot())

			vassert.Nil(t, run(f, f.ctx(f.admin, genesisTime)))
		})
	}
}

func TestUpdateFee(t *testing.T) {
	cases := map[string]struct {
		rate    uint32
		wantErr *errors.Error
	}{
		"free":          {rate: 0},
		"maximum":       {rate: MaxFeeRate},
		"above maximum": {rate: MaxFeeRate + 1, wantErr: ErrFeeTooHigh},
		"way too high":  {rate: 100, wantErr: ErrFeeTooHigh},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			err := f.ledger.UpdateFee(f.ctx(f.admin, genesisTime), tc.rate)
			conf, cerr := f.ledger.Configuration()
			require.NoError(t, cerr)

			if tc.wantErr != nil {
				vassert.IsErr(t, tc.wantErr, err)
				assert.Equal(t, DefaultFeeRate, conf.FeeRate)
				assert.Empty(t, f.events())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.rate, conf.FeeRate)
			events := f.events()
			require.Len(t, events, 1)
			assert.Equal(t, EventFeeUpdated, events[0].Kind)
			assert.Equal(t, f.admin, events[0].Subject)
			assert.Equal(t, int64(DefaultFeeRate), events[0].Old)
			assert.Equal(t, int64(tc.rate), events[0].New)
		})
	}
}

func TestUpdateLockDuration(t *testing.T) {
	cases := map[string]struct {
		duration valora.UnixDuration
		wantErr  *errors.Error
	}{
		"one day":            {duration: MinLockDuration},
		"one year":           {duration: MaxLockDuration},
		"a second too short": {duration: MinLockDuration - 1, wantErr: ErrDurationTooShort},
		"zero":               {duration: 0, wantErr: ErrDurationTooShort},
		"negative":           {duration: -10, wantErr: ErrDurationTooShort},
		"a second too long":  {duration: MaxLockDuration + 1, wantErr: ErrDurationTooLong},
		"beyond 32 bits": {
			duration: valora.AsUnixDuration((1<<32 + 24*60*60) * time.Second),
			wantErr:  ErrDurationTooLong,
		},
		"beyond 31 bits": {
			duration: valora.AsUnixDuration((1<<31 + 10) * time.Second),
			wantErr:  ErrDurationTooLong,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			err := f.ledger.UpdateLockDuration(f.ctx(f.admin, genesisTime), tc.duration)
			conf, cerr := f.ledger.Configuration()
			require.NoError(t, cerr)

			if tc.wantErr != nil {
				vassert.IsErr(t, tc.wantErr, err)
				assert.Equal(t, DefaultLockDuration, conf.LockDuration)
				assert.Empty(t, f.events())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.duration, conf.LockDuration)
			events := f.events()
			require.Len(t, events, 1)
			assert.Equal(t, EventLockDurationUpdated, events[0].Kind)
			assert.Equal(t, int64(DefaultLockDuration), events[0].Old)
			assert.Equal(t, int64(tc.duration), events[0].New)
		})
	}
}

func TestLockDurationAppliesRetroactively(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Deposit(f.ctx(f.alice, genesisTime), 100))

	afterOneDay := f.ctx(f.alice, genesisTime.Add(day))
	vassert.IsErr(t, ErrStillLocked, f.ledger.Withdraw(afterOneDay))

	require.NoError(t, f.ledger.UpdateLockDuration(f.ctx(f.admin, genesisTime.Add(time.Hour)), MinLockDuration))
	stats, err := f.ledger.UserStats(f.alice)
	require.NoError(t, err)
	assert.Equal(t, valora.AsUnixTime(genesisTime.Add(day)), stats.UnlockTime)

	require.NoError(t, f.ledger.Withdraw(afterOneDay))
	assert.Equal(t, int64(0), f.balance(f.alice))
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx(f.admin, genesisTime)

	vassert.IsErr(t, ErrZeroAddress, f.ledger.TransferOwnership(ctx, nil))
	vassert.IsErr(t, ErrZeroAddress, f.ledger.TransferOwnership(ctx, make(valora.Address, valora.AddressLength)))
	vassert.IsErr(t, errors.ErrInput, f.ledger.TransferOwnership(ctx, valora.Address{0x01, 0x02}))
	assert.Empty(t, f.events())

	require.NoError(t, f.ledger.TransferOwnership(ctx, f.bob))
	conf, err := f.ledger.Configuration()
	require.NoError(t, err)
	assert.Equal(t, f.bob, conf.Admin)

	// the previous admin lost every privilege
	vassert.IsErr(t, ErrNotAuthorized, f.ledger.UpdateFee(ctx, 5))
	require.NoError(t, f.ledger.UpdateFee(f.ctx(f.bob, genesisTime), 5))

	// fees follow the admin
	require.NoError(t, f.ledger.Deposit(f.ctx(f.alice, genesisTime), 100))
	assert.Equal(t, int64(10005), f.wallet(f.bob))
	assert.Equal(t, int64(0), f.wallet(f.admin))

	byOld, err := f.ledger.EventsBySubject(f.admin)
	require.NoError(t, err)
	require.Len(t, byOld, 1)
	assert.Equal(t, EventOwnershipTransferred, byOld[0].Kind)
	assert.Equal(t, f.admin, byOld[0].Subject)
	assert.Equal(t, f.bob, byOld[0].Counterparty)

	byNew, err := f.ledger.EventsBySubject(f.bob)
	require.NoError(t, err)
	require.Len(t, byNew, 2)
	assert.Equal(t, byOld[0], byNew[0])
	assert.Equal(t, EventFeeUpdated, byNew[1].Kind)
}

func TestEmergencyWithdraw(t *testing.T) {
	f := newFixture(t)
	adminCtx := f.ctx(f.admin, genesisTime)

	vassert.IsErr(t, ErrNoFunds, f.ledger.EmergencyWithdraw(adminCtx))

	require.NoError(t, f.ledger.Deposit(f.ctx(f.alice, genesisTime), 100))
	require.NoError(t, f.ledger.Deposit(f.ctx(f.bob, genesisTime), 200))
	// value that reached the ledger address without a deposit
	require.NoError(t, f.bank.IssueCoins(f.db, f.ledger.Address(), 7))
	vassert.Nil(t, f.ledger.CheckInvariant())
	feesPaid := f.wallet(f.admin)

	require.NoError(t, f.ledger.EmergencyWithdraw(adminCtx))
	assert.Equal(t, feesPaid+98+196+7, f.wallet(f.admin))

	held, err := f.ledger.ContractBalance()
	require.NoError(t, err)
	assert.Equal(t, int64(0), held)

	// books are left untouched
	assert.Equal(t, int64(98), f.balance(f.alice))
	assert.Equal(t, int64(196), f.balance(f.bob))
	assert.Equal(t, int64(294), f.total())
	vassert.IsErr(t, errors.ErrState, f.ledger.CheckInvariant())

	events := f.events()
	last := events[len(events)-1]
	assert.Equal(t, EventEmergencyWithdrawal, last.Kind)
	assert.Equal(t, f.admin, last.Subject)
	assert.Equal(t, int64(301), last.Amount)

	// accounts can no longer be paid
	err = f.ledger.Withdraw(f.ctx(f.alice, genesisTime.Add(lock)))
	vassert.IsErr(t, ErrWithdrawalTransferFailed, err)
	assert.Equal(t, int64(98), f.balance(f.alice))

	vassert.IsErr(t, ErrNoFunds, f.ledger.EmergencyWithdraw(adminCtx))
}

func TestEmergencyWithdrawRejectedByAdmin(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Deposit(f.ctx(f.alice, genesisTime), 100))
	f.bank.RegisterReceiver(f.admin, &valoratest.Recipient{Err: errors.ErrState})
	before := f.snapshot()

	err := f.ledger.EmergencyWithdraw(f.ctx(f.admin, genesisTime))
	vassert.IsErr(t, ErrWithdrawalTransferFailed, err)
	assert.Equal(t, before, f.snapshot())
}

func TestDirectTransferRejected(t *testing.T) {
	f := newFixture(t)
	before := f.snapshot()

	cache := f.db.CacheWrap()
	err := f.bank.Transfer(f.ctx(f.alice, genesisTime), cache, f.alice, f.ledger.Address(), 10)
	vassert.IsErr(t, ErrDirectTransferRejected, err)
	cache.Discard()

	assert.Equal(t, before, f.snapshot())

	vassert.IsErr(t, ErrDirectTransferRejected, f.ledger.Receive(f.ctx(f.bob, genesisTime), f.db, f.bob, 1))
}

func TestTimeUntilUnlock(t *testing.T) {
	f := newFixture(t)

	left, err := f.ledger.TimeUntilUnlock(f.ctx(nil, genesisTime), f.alice)
	require.NoError(t, err)
	assert.Equal(t, valora.UnixDuration(0), left)

	require.NoError(t, f.ledger.Deposit(f.ctx(f.alice, genesisTime), 100))

	cases := map[string]struct {
		at   time.Time
		want valora.UnixDuration
	}{
		"right after deposit": {at: genesisTime, want: DefaultLockDuration},
		"half way":            {at: genesisTime.Add(15 * day), want: DefaultLockDuration / 2},
		"one second left":     {at: genesisTime.Add(lock - time.Second), want: 1},
		"at unlock time":      {at: genesisTime.Add(lock), want: 0},
		"long after":          {at: genesisTime.Add(400 * day), want: 0},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			left, err := f.ledger.TimeUntilUnlock(f.ctx(nil, tc.at), f.alice)
			require.NoError(t, err)
			assert.Equal(t, tc.want, left)
		})
	}
}

func TestUserStats(t *testing.T) {
	f := newFixture(t)

	stats, err := f.ledger.UserStats(f.bob)
	require.NoError(t, err)
	assert.Equal(t, UserStats{UnlockTime: valora.UnixTime(0).Add(lock)}, stats)

	require.NoError(t, f.ledger.Deposit(f.ctx(f.bob, genesisTime), 1000))
	require.NoError(t, f.ledger.WithdrawPartial(f.ctx(f.bob, genesisTime.Add(lock)), 500))

	stats, err = f.ledger.UserStats(f.bob)
	require.NoError(t, err)
	assert.Equal(t, UserStats{
		Balance:           480,
		LifetimeDeposited: 980,
		UnlockTime:        valora.AsUnixTime(genesisTime.Add(lock)),
	}, stats)
}

func TestDeployOnce(t *testing.T) {
	f := newFixture(t)
	vassert.IsErr(t, errors.ErrState, f.ledger.Deploy(f.ctx(f.bob, genesisTime)))

	conf, err := f.ledger.Configuration()
	require.NoError(t, err)
	assert.Equal(t, NewConfiguration(f.admin), conf)
}

func TestNotDeployed(t *testing.T) {
	f := newFixture(t)
	other := NewLedger(store.MemStore(), f.bank, valoratest.RandomAddr(t))

	vassert.IsErr(t, errors.ErrNotFound, other.Deposit(f.ctx(f.alice, genesisTime), 10))
	vassert.IsErr(t, errors.ErrUnauthorized, other.Deploy(f.ctx(nil, genesisTime)))
}
