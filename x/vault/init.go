package vault

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/gconf"
)

// Initializer fulfils the Initializer interface to load the ledger
// configuration from the genesis file. Parameters missing from the genesis
// file take their default value, the admin is required.
//
//   {"conf": {"vault": {"admin": "...", "fee_rate": 2, "lock_duration": "720h"}}}
type Initializer struct{}

var _ valora.Initializer = Initializer{}

// FromGenesis validates and stores the ledger configuration.
func (Initializer) FromGenesis(opts valora.Options, kv valora.KVStore) error {
	conf := NewConfiguration(nil)
	return gconf.InitConfig(kv, opts, configPkg, &conf)
}
