package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/x/vault"
)

var (
	execFrom string
	execTime string
)

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Run a single ledger invocation and commit it",
	Long: `Exec runs one ledger operation on behalf of --from at --time (RFC3339,
the current time when not set). The state is committed only if the operation
succeeds. On failure the registered error code is printed.

  vaultd exec deposit 100 --from alice
  vaultd exec withdraw --from alice --time 2024-04-01T00:00:00Z`,
}

func init() {
	execCmd.PersistentFlags().StringVar(&execFrom, "from", "", "caller key name or address")
	execCmd.PersistentFlags().StringVar(&execTime, "time", "", "block time, RFC3339 (default now)")

	execCmd.AddCommand(
		invocation("deposit <amount>", "Deposit value, net of the fee", 1,
			func(ctx valora.Context, l *vault.Ledger, args []string) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				return l.Deposit(ctx, amount)
			}),
		invocation("withdraw", "Withdraw the whole unlocked balance", 0,
			func(ctx valora.Context, l *vault.Ledger, args []string) error {
				return l.Withdraw(ctx)
			}),
		invocation("withdraw-partial <amount>", "Withdraw part of the unlocked balance", 1,
			func(ctx valora.Context, l *vault.Ledger, args []string) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				return l.WithdrawPartial(ctx, amount)
			}),
		invocation("update-fee <percent>", "Set the deposit fee rate (admin)", 1,
			func(ctx valora.Context, l *vault.Ledger, args []string) error {
				rate, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return errors.Wrap(errors.ErrInput, err.Error())
				}
				return l.UpdateFee(ctx, uint32(rate))
			}),
		invocation("update-lock-duration <duration>", "Set the lock duration, ie. 72h (admin)", 1,
			func(ctx valora.Context, l *vault.Ledger, args []string) error {
				d, err := time.ParseDuration(args[0])
				if err != nil {
					return errors.Wrap(errors.ErrInput, err.Error())
				}
				return l.UpdateLockDuration(ctx, valora.AsUnixDuration(d))
			}),
		invocation("transfer-ownership <new admin>", "Hand the administrator role over (admin)", 1,
			func(ctx valora.Context, l *vault.Ledger, args []string) error {
				admin, err := resolveAddress(args[0])
				if err != nil {
					return errors.Wrap(errors.ErrInput, err.Error())
				}
				return l.TransferOwnership(ctx, admin)
			}),
		invocation("emergency-withdraw", "Move everything the vault holds to the admin (admin)", 0,
			func(ctx valora.Context, l *vault.Ledger, args []string) error {
				return l.EmergencyWithdraw(ctx)
			}),
	)
}

type ledgerFunc func(ctx valora.Context, l *vault.Ledger, args []string) error

// invocation builds an exec subcommand running fn as a committed invocation.
func invocation(use, short string, nargs int, fn ledgerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if execFrom == "" {
				return fmt.Errorf("--from is required")
			}
			caller, err := resolveAddress(execFrom)
			if err != nil {
				return err
			}
			now, err := blockTime(execTime)
			if err != nil {
				return err
			}

			a, closeStore, err := openApp()
			if err != nil {
				return err
			}
			defer closeStore()

			res, err := a.Exec(caller, now, func(ctx valora.Context, l *vault.Ledger) error {
				return fn(ctx, l, args)
			})
			if err != nil {
				logger.Error("invocation failed", "invocation", res.ID, "code", errors.Code(err), "err", err)
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInput, err.Error())
	}
	return amount, nil
}

func blockTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return t, errors.Wrap(errors.ErrInput, err.Error())
	}
	return t, nil
}
