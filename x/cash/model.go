package cash

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

// BucketName is where we store the balances
const BucketName = "cash"

const walletSchema uint32 = 1

// Wallet holds the balance of a single address.
type Wallet struct {
	Schema uint32 `json:"schema"`
	Amount int64  `json:"amount"`
}

// NewWallet returns a wallet holding the given amount.
func NewWallet(amount int64) *Wallet {
	return &Wallet{Schema: walletSchema, Amount: amount}
}

// Validate makes sure the wallet can be persisted.
func (w *Wallet) Validate() error {
	if w.Schema != walletSchema {
		return errors.Wrapf(errors.ErrModel, "unknown schema %d", w.Schema)
	}
	if w.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

// Add increases the balance, failing on overflow.
func (w *Wallet) Add(amount int64) error {
	sum, err := addInt64(w.Amount, amount)
	if err != nil {
		return err
	}
	if sum < 0 {
		return errors.Wrap(errors.ErrInsufficientAmount, "balance cannot go below zero")
	}
	w.Amount = sum
	return nil
}

func addInt64(a, b int64) (int64, error) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, errors.ErrOverflow.Newf("%d + %d", a, b)
	}
	return c, nil
}

// NewKey constructs the database key of the wallet owned by given address.
func NewKey(addr valora.Address) []byte {
	return append([]byte(BucketName+":"), addr...)
}

func loadWallet(db valora.ReadOnlyKVStore, addr valora.Address) (*Wallet, error) {
	raw, err := db.Get(NewKey(addr))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	var w Wallet
	if err := cdc.UnmarshalBinaryBare(raw, &w); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &w, nil
}

func saveWallet(db valora.KVStore, addr valora.Address, w *Wallet) error {
	if err := w.Validate(); err != nil {
		return err
	}
	raw, err := cdc.MarshalBinaryBare(w)
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return db.Set(NewKey(addr), raw)
}
