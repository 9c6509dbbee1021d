package vault

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

const modelSchema uint32 = 1

var (
	accountPrefix = []byte("vault:acct:")
	totalKey      = []byte("vault:total")
)

// Account is the ledger record of a single depositor. It is created by the
// first deposit and never removed.
type Account struct {
	Schema  uint32 `json:"schema"`
	Balance int64  `json:"balance"`
	// LastDeposit is overwritten by every deposit and is the base of the
	// unlock time.
	LastDeposit valora.UnixTime `json:"last_deposit"`
	// LifetimeDeposited is the sum of all net deposits ever made.
	LifetimeDeposited int64 `json:"lifetime_deposited"`
}

// Validate ensures the account can be persisted.
func (a *Account) Validate() error {
	if a.Schema != modelSchema {
		return errors.Wrapf(errors.ErrModel, "unknown schema %d", a.Schema)
	}
	if a.Balance < 0 {
		return errors.Wrap(errors.ErrModel, "negative balance")
	}
	if a.LifetimeDeposited < a.Balance {
		return errors.Wrap(errors.ErrModel, "balance exceeds lifetime deposits")
	}
	return a.LastDeposit.Validate()
}

// totalDeposits is the aggregate of all account balances.
type totalDeposits struct {
	Schema uint32
	Amount int64
}

func accountKey(addr valora.Address) []byte {
	return append(append([]byte{}, accountPrefix...), addr...)
}

func loadAccount(db valora.ReadOnlyKVStore, addr valora.Address) (Account, error) {
	acct := Account{Schema: modelSchema}
	raw, err := db.Get(accountKey(addr))
	if err != nil {
		return acct, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return acct, nil
	}
	if err := cdc.UnmarshalBinaryBare(raw, &acct); err != nil {
		return acct, errors.Wrap(errors.ErrModel, err.Error())
	}
	return acct, nil
}

func saveAccount(db valora.KVStore, addr valora.Address, acct Account) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	raw, err := cdc.MarshalBinaryBare(acct)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(accountKey(addr), raw)
}

func loadTotal(db valora.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(totalKey)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return 0, nil
	}
	var t totalDeposits
	if err := cdc.UnmarshalBinaryBare(raw, &t); err != nil {
		return 0, errors.Wrap(errors.ErrModel, err.Error())
	}
	return t.Amount, nil
}

func saveTotal(db valora.KVStore, amount int64) error {
	if amount < 0 {
		return errors.Wrap(errors.ErrModel, "negative aggregate")
	}
	raw, err := cdc.MarshalBinaryBare(totalDeposits{Schema: modelSchema, Amount: amount})
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(totalKey, raw)
}

// addAmount sums two non-negative amounts, failing on overflow.
func addAmount(a, b int64) (int64, error) {
	c := a + b
	if c < a {
		return 0, errors.ErrOverflow.Newf("%d + %d", a, b)
	}
	return c, nil
}

// prefixEnd returns the first key after every key starting with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
