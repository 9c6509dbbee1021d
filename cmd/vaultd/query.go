package main

import (
	"github.com/spf13/cobra"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/x/vault"
)

var queryTime string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Read the committed ledger state",
}

func init() {
	queryCmd.PersistentFlags().StringVar(&queryTime, "time", "", "time used for unlock computations, RFC3339 (default now)")

	queryCmd.AddCommand(
		query("balance <address>", "Withdrawable balance of an account", 1,
			func(ctx valora.Context, l *vault.Ledger, addr valora.Address) (interface{}, error) {
				balance, err := l.CheckBalance(addr)
				return map[string]int64{"balance": balance}, err
			}),
		query("unlock <address>", "Time left until the account can withdraw", 1,
			func(ctx valora.Context, l *vault.Ledger, addr valora.Address) (interface{}, error) {
				left, err := l.TimeUntilUnlock(ctx, addr)
				return map[string]interface{}{"seconds": int64(left), "left": left.String()}, err
			}),
		query("stats <address>", "Balance, lifetime deposits and unlock time", 1,
			func(ctx valora.Context, l *vault.Ledger, addr valora.Address) (interface{}, error) {
				return l.UserStats(addr)
			}),
		query("contract-balance", "Value held by the vault address", 0,
			func(ctx valora.Context, l *vault.Ledger, _ valora.Address) (interface{}, error) {
				held, err := l.ContractBalance()
				return map[string]int64{"balance": held}, err
			}),
		query("config", "Ledger parameters", 0,
			func(ctx valora.Context, l *vault.Ledger, _ valora.Address) (interface{}, error) {
				return l.Configuration()
			}),
		query("accounts", "Every account record", 0,
			func(ctx valora.Context, l *vault.Ledger, _ valora.Address) (interface{}, error) {
				return l.Accounts()
			}),
		query("invariant", "Check the aggregate and the held value against the balances", 0,
			func(ctx valora.Context, l *vault.Ledger, _ valora.Address) (interface{}, error) {
				total, err := l.TotalDeposits()
				if err != nil {
					return nil, err
				}
				res := map[string]interface{}{"total_deposits": total, "ok": true}
				if err := l.CheckInvariant(); err != nil {
					res["ok"] = false
					res["error"] = err.Error()
				}
				return res, nil
			}),
	)
}

type queryFunc func(ctx valora.Context, l *vault.Ledger, addr valora.Address) (interface{}, error)

// query builds a query subcommand. When nargs is 1 the argument is
// resolved to an address.
func query(use, short string, nargs int, fn queryFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr valora.Address
			if nargs == 1 {
				var err error
				if addr, err = resolveAddress(args[0]); err != nil {
					return err
				}
			}
			now, err := blockTime(queryTime)
			if err != nil {
				return err
			}

			a, closeStore, err := openApp()
			if err != nil {
				return err
			}
			defer closeStore()

			var out interface{}
			err = a.Query(now, func(ctx valora.Context, l *vault.Ledger) error {
				var err error
				out, err = fn(ctx, l, addr)
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}
