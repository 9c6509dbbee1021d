package vault

import (
	"github.com/mohankour/ValoraVault/errors"
)

// vault takes 1100-1120
var (
	ErrInvalidAmount            = errors.Register(1100, "invalid amount")
	ErrDepositTooSmall          = errors.Register(1101, "deposit too small")
	ErrFeeTransferFailed        = errors.Register(1102, "fee transfer failed")
	ErrNoBalance                = errors.Register(1103, "no balance")
	ErrStillLocked              = errors.Register(1104, "funds still locked")
	ErrInsufficientBalance      = errors.Register(1105, "insufficient balance")
	ErrWithdrawalTransferFailed = errors.Register(1106, "withdrawal transfer failed")
	ErrNotAuthorized            = errors.Register(1107, "not authorized")
	ErrFeeTooHigh               = errors.Register(1108, "fee too high")
	ErrDurationTooShort         = errors.Register(1109, "lock duration too short")
	ErrDurationTooLong          = errors.Register(1110, "lock duration too long")
	ErrZeroAddress              = errors.Register(1111, "zero address")
	ErrNoFunds                  = errors.Register(1112, "no funds")
	ErrReentrant                = errors.Register(1113, "reentrant call")
	ErrDirectTransferRejected   = errors.Register(1114, "direct transfer rejected")
)
