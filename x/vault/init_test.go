package vault

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/store"
	"github.com/mohankour/ValoraVault/valoratest"
	vassert "github.com/mohankour/ValoraVault/valoratest/assert"
	"github.com/mohankour/ValoraVault/x/cash"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"cash": [
			{"address": "b1ca7e78f74423ae01da3b51e676934d9105f282", "amount": 500}
		],
		"conf": {
			"vault": {
				"admin": "b1ca7e78f74423ae01da3b51e676934d9105f282",
				"fee_rate": 5,
				"lock_duration": "168h"
			}
		}
	}`
	var opts valora.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, cash.Initializer{}.FromGenesis(opts, db))
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	admin := valoratest.ParseAddress(t, "b1ca7e78f74423ae01da3b51e676934d9105f282")
	ledger := NewLedger(db, cash.NewController(), valora.NewAddress([]byte("vault")))
	conf, err := ledger.Configuration()
	require.NoError(t, err)
	assert.Equal(t, Configuration{
		Schema:       configSchema,
		Admin:        admin,
		FeeRate:      5,
		LockDuration: 7 * MinLockDuration,
	}, conf)

	// the genesis admin is funded and pays the fee to itself
	require.NoError(t, ledger.Deposit(valoratest.Ctx(genesisTime, admin), 100))
	balance, err := ledger.CheckBalance(admin)
	require.NoError(t, err)
	assert.Equal(t, int64(95), balance)

	vassert.IsErr(t, errors.ErrState, ledger.Deploy(valoratest.Ctx(genesisTime, admin)))
}

func TestGenesisDefaults(t *testing.T) {
	const genesis = `{"conf": {"vault": {"admin": "b1ca7e78f74423ae01da3b51e676934d9105f282"}}}`
	var opts valora.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))
	conf, err := loadConfig(db)
	require.NoError(t, err)
	assert.Equal(t, DefaultFeeRate, conf.FeeRate)
	assert.Equal(t, DefaultLockDuration, conf.LockDuration)
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"no configuration": {
			genesis: `{}`,
			wantErr: errors.ErrNotFound,
		},
		"no admin": {
			genesis: `{"conf": {"vault": {"fee_rate": 1}}}`,
			wantErr: ErrZeroAddress,
		},
		"fee out of bounds": {
			genesis: `{"conf": {"vault": {"admin": "b1ca7e78f74423ae01da3b51e676934d9105f282", "fee_rate": 50}}}`,
			wantErr: ErrFeeTooHigh,
		},
		"lock out of bounds": {
			genesis: `{"conf": {"vault": {"admin": "b1ca7e78f74423ae01da3b51e676934d9105f282", "lock_duration": 60}}}`,
			wantErr: ErrDurationTooShort,
		},
		"lock beyond 32 bits as string": {
			genesis: `{"conf": {"vault": {"admin": "b1ca7e78f74423ae01da3b51e676934d9105f282", "lock_duration": "4295053696s"}}}`,
			wantErr: ErrDurationTooLong,
		},
		"lock beyond 32 bits as seconds": {
			genesis: `{"conf": {"vault": {"admin": "b1ca7e78f74423ae01da3b51e676934d9105f282", "lock_duration": 4295053696}}}`,
			wantErr: ErrDurationTooLong,
		},
		"malformed admin": {
			genesis: `{"conf": {"vault": {"admin": "not an address"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts valora.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))
			err := Initializer{}.FromGenesis(opts, store.MemStore())
			vassert.IsErr(t, tc.wantErr, err)
		})
	}
}
