package vault

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/x/cash"
)

// CashController is the value-transfer primitive the ledger relies on. The
// ledger registers itself as the receiver of its own address.
type CashController interface {
	cash.Controller
	RegisterReceiver(addr valora.Address, r cash.Receiver)
}

// Ledger is a single vault instance. All state lives in the store, the
// ledger only owns the reentrancy latch and the stack of cache wraps of the
// invocations in progress.
type Ledger struct {
	db   valora.CacheableKVStore
	bank CashController
	addr valora.Address

	latched bool
	// stack holds one frame per invocation in progress. Nested
	// invocations build on top of the outer one, queries read the top.
	stack []frame
}

var _ cash.Receiver = (*Ledger)(nil)

// NewLedger returns a ledger holding its value under addr and keeping its
// state in db.
func NewLedger(db valora.CacheableKVStore, bank CashController, addr valora.Address) *Ledger {
	l := &Ledger{
		db:   db,
		bank: bank,
		addr: addr,
	}
	bank.RegisterReceiver(addr, l)
	return l
}

// Address returns the address holding the deposited value.
func (l *Ledger) Address() valora.Address {
	return l.addr
}

// Deploy creates the ledger configuration with the caller as administrator
// and the default fee rate and lock duration. A ledger can be deployed only
// once, either with Deploy or from the genesis file.
func (l *Ledger) Deploy(ctx valora.Context) error {
	return l.atomic(ctx, "deploy", func(db valora.KVStore) error {
		admin, ok := valora.Caller(ctx)
		if !ok {
			return errors.Wrap(errors.ErrUnauthorized, "no caller")
		}
		if _, err := loadConfig(db); !errors.ErrNotFound.Is(err) {
			if err != nil {
				return err
			}
			return errors.Wrap(errors.ErrState, "ledger already deployed")
		}
		return saveConfig(db, NewConfiguration(admin))
	})
}

// Deposit credits the caller with amount net of the fee. The value is taken
// from the caller's wallet and the fee is paid to the administrator before
// any state changes.
func (l *Ledger) Deposit(ctx valora.Context, amount int64) error {
	return l.guarded(ctx, "deposit", func(db valora.KVStore) error {
		if amount <= 0 {
			return ErrInvalidAmount.Newf("deposit of %d", amount)
		}
		user, err := caller(ctx)
		if err != nil {
			return err
		}
		conf, err := loadConfig(db)
		if err != nil {
			return err
		}

		fee := FeeOf(amount, conf.FeeRate)
		net := amount - fee
		if net == 0 {
			return ErrDepositTooSmall.Newf("%d at %d%% leaves nothing", amount, conf.FeeRate)
		}

		// The deposited value comes with the invocation.
		if err := l.bank.MoveCoins(db, user, l.addr, amount); err != nil {
			return errors.Wrap(err, "deposit value")
		}
		if fee > 0 {
			if err := l.bank.Transfer(ctx, db, l.addr, conf.Admin, fee); err != nil {
				return errors.Wrap(ErrFeeTransferFailed, err.Error())
			}
		}

		now := valora.Now(ctx)
		acct, err := loadAccount(db, user)
		if err != nil {
			return err
		}
		if acct.Balance, err = addAmount(acct.Balance, net); err != nil {
			return err
		}
		if acct.LifetimeDeposited, err = addAmount(acct.LifetimeDeposited, net); err != nil {
			return err
		}
		acct.LastDeposit = now
		if err := saveAccount(db, user, acct); err != nil {
			return err
		}
		if err := l.adjustTotal(db, net); err != nil {
			return err
		}

		l.onCommit(func() {
			depositedTotal.Add(float64(net))
			feesTotal.Add(float64(fee))
		})
		_, err = emit(db, Event{
			Kind:    EventDeposit,
			Subject: user,
			Amount:  net,
			Fee:     fee,
			Time:    now,
		})
		return err
	})
}

// Withdraw pays out the whole balance of the caller once it is unlocked.
func (l *Ledger) Withdraw(ctx valora.Context) error {
	return l.guarded(ctx, "withdraw", func(db valora.KVStore) error {
		user, conf, acct, err := l.withdrawable(ctx, db)
		if err != nil {
			return err
		}
		if acct.Balance == 0 {
			return ErrNoBalance.Newf("account %s", user)
		}
		if err := checkUnlocked(ctx, conf, acct); err != nil {
			return err
		}
		return l.payout(ctx, db, "withdraw", user, acct, acct.Balance)
	})
}

// WithdrawPartial pays out amount from the caller's unlocked balance. The
// deposit timestamp is left untouched.
func (l *Ledger) WithdrawPartial(ctx valora.Context, amount int64) error {
	return l.guarded(ctx, "withdraw_partial", func(db valora.KVStore) error {
		if amount <= 0 {
			return ErrInvalidAmount.Newf("withdrawal of %d", amount)
		}
		user, conf, acct, err := l.withdrawable(ctx, db)
		if err != nil {
			return err
		}
		if amount > acct.Balance {
			return ErrInsufficientBalance.Newf("have %d, requested %d", acct.Balance, amount)
		}
		if err := checkUnlocked(ctx, conf, acct); err != nil {
			return err
		}
		return l.payout(ctx, db, "withdraw_partial", user, acct, amount)
	})
}

func (l *Ledger) withdrawable(ctx valora.Context, db valora.KVStore) (valora.Address, Configuration, Account, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, Configuration{}, Account{}, err
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, conf, Account{}, err
	}
	acct, err := loadAccount(db, user)
	return user, conf, acct, err
}

// payout updates the books first and transfers last.
func (l *Ledger) payout(ctx valora.Context, db valora.KVStore, op string, user valora.Address, acct Account, amount int64) error {
	acct.Balance -= amount
	if err := saveAccount(db, user, acct); err != nil {
		return err
	}
	if err := l.adjustTotal(db, -amount); err != nil {
		return err
	}
	if err := l.bank.Transfer(ctx, db, l.addr, user, amount); err != nil {
		return errors.Wrap(ErrWithdrawalTransferFailed, err.Error())
	}
	l.onCommit(func() {
		withdrawnTotal.WithLabelValues(op).Add(float64(amount))
	})
	_, err := emit(db, Event{
		Kind:    EventWithdrawal,
		Subject: user,
		Amount:  amount,
		Time:    valora.Now(ctx),
	})
	return err
}

func checkUnlocked(ctx valora.Context, conf Configuration, acct Account) error {
	unlock := conf.UnlockTime(acct.LastDeposit)
	if !valora.IsExpired(ctx, unlock) {
		return ErrStillLocked.Newf("unlocks at %s", unlock)
	}
	return nil
}

func (l *Ledger) adjustTotal(db valora.KVStore, delta int64) error {
	total, err := loadTotal(db)
	if err != nil {
		return err
	}
	if delta > 0 {
		if total, err = addAmount(total, delta); err != nil {
			return err
		}
	} else {
		total += delta
	}
	return saveTotal(db, total)
}

// UpdateFee sets the deposit fee rate, in percent.
func (l *Ledger) UpdateFee(ctx valora.Context, rate uint32) error {
	return l.atomic(ctx, "update_fee", func(db valora.KVStore) error {
		conf, err := authorize(ctx, db)
		if err != nil {
			return err
		}
		if err := validateFeeRate(rate); err != nil {
			return err
		}
		old := conf.FeeRate
		conf.FeeRate = rate
		if err := saveConfig(db, conf); err != nil {
			return err
		}
		_, err = emit(db, Event{
			Kind:    EventFeeUpdated,
			Subject: conf.Admin,
			Old:     int64(old),
			New:     int64(rate),
			Time:    valora.Now(ctx),
		})
		return err
	})
}

// UpdateLockDuration sets the lock duration. The new value applies to all
// accounts, including those that deposited before the change.
func (l *Ledger) UpdateLockDuration(ctx valora.Context, d valora.UnixDuration) error {
	return l.atomic(ctx, "update_lock_duration", func(db valora.KVStore) error {
		conf, err := authorize(ctx, db)
		if err != nil {
			return err
		}
		if err := validateLockDuration(d); err != nil {
			return err
		}
		old := conf.LockDuration
		conf.LockDuration = d
		if err := saveConfig(db, conf); err != nil {
			return err
		}
		_, err = emit(db, Event{
			Kind:    EventLockDurationUpdated,
			Subject: conf.Admin,
			Old:     int64(old),
			New:     int64(d),
			Time:    valora.Now(ctx),
		})
		return err
	})
}

// TransferOwnership hands the administrator role to another address.
func (l *Ledger) TransferOwnership(ctx valora.Context, admin valora.Address) error {
	return l.atomic(ctx, "transfer_ownership", func(db valora.KVStore) error {
		conf, err := authorize(ctx, db)
		if err != nil {
			return err
		}
		if admin.IsZero() {
			return ErrZeroAddress.New("new admin")
		}
		if err := admin.Validate(); err != nil {
			return errors.Wrap(err, "new admin")
		}
		old := conf.Admin
		conf.Admin = admin
		if err := saveConfig(db, conf); err != nil {
			return err
		}
		_, err = emit(db, Event{
			Kind:         EventOwnershipTransferred,
			Subject:      old,
			Counterparty: admin,
			Time:         valora.Now(ctx),
		})
		return err
	})
}

// EmergencyWithdraw moves everything the ledger address holds to the
// administrator. Accounts and the aggregate total are left as they are, so
// the ledger is insolvent afterwards.
func (l *Ledger) EmergencyWithdraw(ctx valora.Context) error {
	return l.atomic(ctx, "emergency_withdraw", func(db valora.KVStore) error {
		conf, err := authorize(ctx, db)
		if err != nil {
			return err
		}
		release, err := l.acquire()
		if err != nil {
			return err
		}
		defer release()

		amount, err := l.bank.Balance(db, l.addr)
		if err != nil {
			return err
		}
		if amount == 0 {
			return ErrNoFunds.New("ledger holds nothing")
		}
		if err := l.bank.Transfer(ctx, db, l.addr, conf.Admin, amount); err != nil {
			return errors.Wrap(ErrWithdrawalTransferFailed, err.Error())
		}
		l.onCommit(func() {
			withdrawnTotal.WithLabelValues("emergency_withdraw").Add(float64(amount))
			valora.GetLogger(ctx).Error("vault drained, account balances are no longer backed", "amount", amount)
		})
		_, err = emit(db, Event{
			Kind:    EventEmergencyWithdrawal,
			Subject: conf.Admin,
			Amount:  amount,
			Time:    valora.Now(ctx),
		})
		return err
	})
}

// Receive rejects every transfer to the ledger address that is not made by
// Deposit.
func (l *Ledger) Receive(ctx valora.Context, db valora.KVStore, from valora.Address, amount int64) error {
	err := ErrDirectTransferRejected.Newf("%d from %s", amount, from)
	recordOperation("receive", err)
	return err
}

func caller(ctx valora.Context) (valora.Address, error) {
	addr, ok := valora.Caller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return addr, nil
}

// authorize loads the configuration and ensures the caller is the admin.
func authorize(ctx valora.Context, db valora.ReadOnlyKVStore) (Configuration, error) {
	conf, err := loadConfig(db)
	if err != nil {
		return conf, err
	}
	addr, ok := valora.Caller(ctx)
	if !ok || !addr.Equals(conf.Admin) {
		return conf, ErrNotAuthorized.Newf("caller %s", addr)
	}
	return conf, nil
}

// FeeOf returns floor(amount * rate / 100) without overflowing.
func FeeOf(amount int64, rate uint32) int64 {
	r := int64(rate)
	return (amount/100)*r + (amount%100)*r/100
}
