package valoratest

import (
	"github.com/mohankour/ValoraVault"
)

// Received is a single call made to a Recipient.
type Received struct {
	From   valora.Address
	Amount int64
}

// Recipient is a scripted receiver of value transfers. It records every
// transfer and then runs OnReceive if set. Err is returned when set,
// otherwise the result of OnReceive. When Panic is set the recipient panics
// with it after recording.
type Recipient struct {
	Calls     []Received
	Err       error
	Panic     interface{}
	OnReceive func(ctx valora.Context, db valora.KVStore) error
}

// Receive implements cash.Receiver.
func (r *Recipient) Receive(ctx valora.Context, db valora.KVStore, from valora.Address, amount int64) error {
	r.Calls = append(r.Calls, Received{From: from, Amount: amount})
	if r.Panic != nil {
		panic(r.Panic)
	}
	var err error
	if r.OnReceive != nil {
		err = r.OnReceive(ctx, db)
	}
	if r.Err != nil {
		return r.Err
	}
	return err
}
