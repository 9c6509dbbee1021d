package cash

import (
	"encoding/json"
	"testing"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitState(t *testing.T) {
	addr := valora.Address("12345678901234567890")
	accts := []GenesisAccount{{Address: addr, Amount: 1500}}
	bz, err := json.Marshal(accts)
	require.NoError(t, err)

	// hardcode
	bz2 := []byte(`[{"address":"0102030405060708090021222324252627282930", "amount": 50}]`)
	addr2 := valora.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x30}

	cases := map[string]struct {
		opts    valora.Options
		wantErr *errors.Error
		acct    valora.Address
		amount  int64
	}{
		"no data": {
			opts: valora.Options{},
		},
		"other extension data": {
			opts: valora.Options{"foo": []byte(`"bar"`)},
		},
		"bad format": {
			opts:    valora.Options{"cash": []byte(`[{"amount": "lots"}]`)},
			wantErr: errors.ErrInput,
		},
		"missing address": {
			opts:    valora.Options{"cash": []byte(`[{"amount": 123}]`)},
			wantErr: errors.ErrInput,
		},
		"negative amount": {
			opts:    valora.Options{"cash": []byte(`[{"address":"0102030405060708090021222324252627282930", "amount": -1}]`)},
			wantErr: errors.ErrAmount,
		},
		"marshaled account": {
			opts:   valora.Options{"cash": bz},
			acct:   addr,
			amount: 1500,
		},
		"hardcoded account": {
			opts:   valora.Options{"cash": bz2},
			acct:   addr2,
			amount: 50,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			err := Initializer{}.FromGenesis(tc.opts, kv)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.acct == nil {
				return
			}
			got, err := NewController().Balance(kv, tc.acct)
			require.NoError(t, err)
			assert.Equal(t, tc.amount, got)
		})
	}
}
