package vault

import (
	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/gconf"
)

const (
	// MaxFeeRate is the highest fee, in percent, that can be configured.
	MaxFeeRate uint32 = 10
	// DefaultFeeRate is used when a ledger is deployed without configuration.
	DefaultFeeRate uint32 = 2

	// MinLockDuration and MaxLockDuration bound the lock duration.
	MinLockDuration = valora.UnixDuration(24 * 60 * 60)
	MaxLockDuration = valora.UnixDuration(365 * 24 * 60 * 60)
	// DefaultLockDuration is used when a ledger is deployed without configuration.
	DefaultLockDuration = valora.UnixDuration(30 * 24 * 60 * 60)
)

const (
	configPkg    = "vault"
	configSchema = 1
)

var _ gconf.Configuration = (*Configuration)(nil)

// Configuration holds the administrator controlled parameters of the ledger.
type Configuration struct {
	Schema uint32 `json:"schema,omitempty"`
	// Admin is the only address allowed to change the configuration and
	// to drain the ledger.
	Admin valora.Address `json:"admin"`
	// FeeRate is the percentage of every deposit routed to the admin.
	FeeRate uint32 `json:"fee_rate"`
	// LockDuration is the time that must pass since the most recent
	// deposit before an account can withdraw.
	LockDuration valora.UnixDuration `json:"lock_duration"`
}

// NewConfiguration returns the configuration a freshly deployed ledger uses.
func NewConfiguration(admin valora.Address) Configuration {
	return Configuration{
		Schema:       configSchema,
		Admin:        admin,
		FeeRate:      DefaultFeeRate,
		LockDuration: DefaultLockDuration,
	}
}

// Validate checks every parameter is within its bounds.
func (c *Configuration) Validate() error {
	if c.Schema != configSchema {
		return errors.Wrapf(errors.ErrModel, "unknown schema %d", c.Schema)
	}
	if c.Admin.IsZero() {
		return errors.Wrap(ErrZeroAddress, "admin")
	}
	if err := c.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if err := validateFeeRate(c.FeeRate); err != nil {
		return err
	}
	return validateLockDuration(c.LockDuration)
}

func validateFeeRate(rate uint32) error {
	if rate > MaxFeeRate {
		return ErrFeeTooHigh.Newf("%d%% exceeds %d%%", rate, MaxFeeRate)
	}
	return nil
}

func validateLockDuration(d valora.UnixDuration) error {
	switch {
	case d < MinLockDuration:
		return ErrDurationTooShort.Newf("%s is below %s", d, MinLockDuration)
	case d > MaxLockDuration:
		return ErrDurationTooLong.Newf("%s exceeds %s", d, MaxLockDuration)
	}
	return nil
}

// Marshal serializes the configuration for gconf.
func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

// Unmarshal loads the configuration serialized with Marshal.
func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

// UnlockTime returns when funds deposited at given time become withdrawable.
func (c Configuration) UnlockTime(deposited valora.UnixTime) valora.UnixTime {
	return deposited.Add(c.LockDuration.Duration())
}

func loadConfig(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, configPkg, &conf); err != nil {
		return conf, errors.Wrap(err, "ledger configuration")
	}
	return conf, nil
}

func saveConfig(db gconf.Store, conf Configuration) error {
	return gconf.Save(db, configPkg, &conf)
}
