package vault

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

// UserStats is the composite view of an account.
type UserStats struct {
	Balance           int64           `json:"balance"`
	LifetimeDeposited int64           `json:"lifetime_deposited"`
	UnlockTime        valora.UnixTime `json:"unlock_time"`
}

// Configuration returns the current ledger parameters.
func (l *Ledger) Configuration() (Configuration, error) {
	return loadConfig(l.active())
}

// CheckBalance returns the withdrawable balance of addr. Addresses that never
// deposited have a zero balance.
func (l *Ledger) CheckBalance(addr valora.Address) (int64, error) {
	acct, err := loadAccount(l.active(), addr)
	return acct.Balance, err
}

// TimeUntilUnlock returns how long addr must wait before withdrawing, zero
// if it can withdraw now.
func (l *Ledger) TimeUntilUnlock(ctx valora.Context, addr valora.Address) (valora.UnixDuration, error) {
	db := l.active()
	conf, err := loadConfig(db)
	if err != nil {
		return 0, err
	}
	acct, err := loadAccount(db, addr)
	if err != nil {
		return 0, err
	}
	left := conf.UnlockTime(acct.LastDeposit) - valora.Now(ctx)
	if left <= 0 {
		return 0, nil
	}
	return valora.UnixDuration(left), nil
}

// UserStats returns the balance, lifetime deposits and unlock time of addr.
// The unlock time is computed with the current lock duration.
func (l *Ledger) UserStats(addr valora.Address) (UserStats, error) {
	db := l.active()
	conf, err := loadConfig(db)
	if err != nil {
		return UserStats{}, err
	}
	acct, err := loadAccount(db, addr)
	if err != nil {
		return UserStats{}, err
	}
	return UserStats{
		Balance:           acct.Balance,
		LifetimeDeposited: acct.LifetimeDeposited,
		UnlockTime:        conf.UnlockTime(acct.LastDeposit),
	}, nil
}

// ContractBalance returns the value held by the ledger address. This is the
// wallet balance, not the aggregate of the accounts.
func (l *Ledger) ContractBalance() (int64, error) {
	return l.bank.Balance(l.active(), l.addr)
}

// TotalDeposits returns the aggregate of all account balances as tracked by
// the ledger.
func (l *Ledger) TotalDeposits() (int64, error) {
	return loadTotal(l.active())
}

// Accounts returns every account record, keyed by the hex address.
func (l *Ledger) Accounts() (map[string]Account, error) {
	db := l.active()
	iter, err := db.Iterator(accountPrefix, prefixEnd(accountPrefix))
	if err != nil {
		return nil, err
	}
	defer iter.Release()

	accounts := make(map[string]Account)
	for {
		key, value, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			return accounts, nil
		}
		if err != nil {
			return nil, err
		}
		var acct Account
		if err := cdc.UnmarshalBinaryBare(value, &acct); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		addr := valora.Address(key[len(accountPrefix):])
		accounts[addr.String()] = acct
	}
}

// Events returns the audit log, oldest first.
func (l *Ledger) Events() ([]Event, error) {
	return Events(l.active())
}

// EventsBySubject returns every event mentioning addr, oldest first.
func (l *Ledger) EventsBySubject(addr valora.Address) ([]Event, error) {
	return EventsBySubject(l.active(), addr)
}

// CheckInvariant verifies the aggregate total equals the sum of all
// balances and that the ledger address holds at least that much. The second
// check fails after EmergencyWithdraw.
func (l *Ledger) CheckInvariant() error {
	total, err := l.TotalDeposits()
	if err != nil {
		return err
	}
	accounts, err := l.Accounts()
	if err != nil {
		return err
	}
	var sum int64
	for _, acct := range accounts {
		if sum, err = addAmount(sum, acct.Balance); err != nil {
			return err
		}
	}
	if sum != total {
		return errors.ErrState.Newf("aggregate %d, sum of balances %d", total, sum)
	}
	held, err := l.ContractBalance()
	if err != nil {
		return err
	}
	if held < total {
		return errors.ErrState.Newf("insolvent: holds %d, owes %d", held, total)
	}
	return nil
}
