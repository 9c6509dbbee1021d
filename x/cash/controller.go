package cash

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

// Balancer is a subset of Controller used by code that only reads wallets.
type Balancer interface {
	Balance(db valora.ReadOnlyKVStore, addr valora.Address) (int64, error)
}

// Controller is the functionality needed by other extensions to move value.
type Controller interface {
	Balancer
	MoveCoins(db valora.KVStore, src, dest valora.Address, amount int64) error
	IssueCoins(db valora.KVStore, dest valora.Address, amount int64) error
	Transfer(ctx valora.Context, db valora.KVStore, src, dest valora.Address, amount int64) error
}

// Receiver is code owned by an address that is run every time value is
// transferred to that address. Returning an error rejects the transfer.
//
// A receiver is called with the caller set to its own address, so any
// invocation it makes is attributed to the recipient.
type Receiver interface {
	Receive(ctx valora.Context, db valora.KVStore, from valora.Address, amount int64) error
}

// ReceiverFunc allows to use a function as a Receiver.
type ReceiverFunc func(ctx valora.Context, db valora.KVStore, from valora.Address, amount int64) error

// Receive calls the function.
func (f ReceiverFunc) Receive(ctx valora.Context, db valora.KVStore, from valora.Address, amount int64) error {
	return f(ctx, db, from, amount)
}

// BaseController is a simple implementation of Controller.
type BaseController struct {
	receivers map[string]Receiver
}

var _ Controller = (*BaseController)(nil)

// NewController returns a controller with no receivers registered.
func NewController() *BaseController {
	return &BaseController{
		receivers: make(map[string]Receiver),
	}
}

// RegisterReceiver sets the code run when value is transferred to addr.
// Registering a nil receiver removes it.
func (c *BaseController) RegisterReceiver(addr valora.Address, r Receiver) {
	if r == nil {
		delete(c.receivers, string(addr))
		return
	}
	c.receivers[string(addr)] = r
}

// Balance returns the amount held by the given address. Unknown addresses
// hold nothing.
func (c *BaseController) Balance(db valora.ReadOnlyKVStore, addr valora.Address) (int64, error) {
	w, err := loadWallet(db, addr)
	if err != nil || w == nil {
		return 0, err
	}
	return w.Amount, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c *BaseController) MoveCoins(db valora.KVStore, src, dest valora.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %d", amount)
	}

	sender, err := loadWallet(db, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	if sender.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", sender.Amount, amount)
	}

	recipient, err := loadWallet(db, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if recipient == nil {
		recipient = NewWallet(0)
	}

	if err := sender.Add(-amount); err != nil {
		return err
	}
	// sending to self must not duplicate value
	if src.Equals(dest) {
		recipient = sender
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	if err := saveWallet(db, src, sender); err != nil {
		return err
	}
	return saveWallet(db, dest, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c *BaseController) IssueCoins(db valora.KVStore, dest valora.Address, amount int64) error {
	recipient, err := loadWallet(db, dest)
	if err != nil {
		return err
	}
	if recipient == nil {
		recipient = NewWallet(0)
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return saveWallet(db, dest, recipient)
}

// Transfer moves the coins and runs the receiver registered for dest, if
// any. A receiver error or panic fails the transfer. Coins already moved are
// not restored, the caller is expected to run on a cache wrap and discard it.
func (c *BaseController) Transfer(ctx valora.Context, db valora.KVStore, src, dest valora.Address, amount int64) (err error) {
	if err := c.MoveCoins(db, src, dest, amount); err != nil {
		return err
	}
	r, ok := c.receivers[string(dest)]
	if !ok {
		return nil
	}

	defer errors.Recover(&err)
	ctx = valora.WithCaller(ctx, dest)
	if err := r.Receive(ctx, db, src, amount); err != nil {
		return errors.Wrapf(err, "receiver %s", dest)
	}
	return nil
}
