package cash

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use valora.Address, so address in hex, not base64
type GenesisAccount struct {
	Address valora.Address `json:"address"`
	Amount  int64          `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ valora.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts valora.Options, kv valora.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := saveWallet(kv, acct.Address, NewWallet(acct.Amount)); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
