package app

import (
	"encoding/json"
	"io/ioutil"
	"regexp"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/x/cash"
)

// IsValidChainID is the RegExp to ensure valid chain IDs
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// Genesis file format.
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState valora.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrNotFound, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	return gen, nil
}

// SaveGenesis writes the genesis file, readable only by the owner.
func SaveGenesis(filePath string, gen Genesis) error {
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filePath, raw, 0600)
}

// GenesisParams are the ledger parameters written to the genesis file.
type GenesisParams struct {
	Admin        valora.Address      `json:"admin"`
	FeeRate      uint32              `json:"fee_rate"`
	LockDuration valora.UnixDuration `json:"lock_duration"`
}

// NewGenesis builds the application state understood by the cash and vault
// initializers.
func NewGenesis(chainID string, params GenesisParams, accounts []cash.GenesisAccount) (Genesis, error) {
	cashState, err := json.Marshal(accounts)
	if err != nil {
		return Genesis{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	conf, err := json.Marshal(map[string]GenesisParams{"vault": params})
	if err != nil {
		return Genesis{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	return Genesis{
		ChainID: chainID,
		AppState: valora.Options{
			"cash": cashState,
			"conf": conf,
		},
	}, nil
}
