package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/app"
	"github.com/mohankour/ValoraVault/x/cash"
	"github.com/mohankour/ValoraVault/x/vault"
)

var (
	initChainID  string
	initAdmin    string
	initFeeRate  uint32
	initLock     time.Duration
	initAccounts []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the genesis file and initialize the ledger state",
	Long: `Init writes genesis.json to the home directory and commits the initial
state: the funded wallets and the ledger configuration.

  vaultd init --admin alice --account alice=1000 --account bob=500

If genesis.json already exists it is used as is and the flags are ignored.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initChainID, "chain-id", "valora-local", "chain identifier")
	initCmd.Flags().StringVar(&initAdmin, "admin", "", "administrator key name or address")
	initCmd.Flags().Uint32Var(&initFeeRate, "fee-rate", vault.DefaultFeeRate, "deposit fee in percent")
	initCmd.Flags().DurationVar(&initLock, "lock-duration", vault.DefaultLockDuration.Duration(), "time funds stay locked after a deposit")
	initCmd.Flags().StringArrayVar(&initAccounts, "account", nil, "initial wallet as <key name or address>=<amount>, repeatable")
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(homeDir(), 0700); err != nil {
		return err
	}
	genFile := filepath.Join(homeDir(), genesisFile)

	gen, err := app.LoadGenesis(genFile)
	if err == nil {
		logger.Info("found genesis file", "path", genFile)
	} else {
		gen, err = genesisFromFlags()
		if err != nil {
			return err
		}
		if err := app.SaveGenesis(genFile, gen); err != nil {
			return err
		}
		logger.Info("generated genesis file", "path", genFile)
	}

	a, closeStore, err := openApp()
	if err != nil {
		return err
	}
	defer closeStore()
	id, err := a.InitChain(gen)
	if err != nil {
		return err
	}
	return printJSON(cmd, map[string]interface{}{
		"chain_id": gen.ChainID,
		"version":  id.Version,
	})
}

func genesisFromFlags() (app.Genesis, error) {
	if initAdmin == "" {
		return app.Genesis{}, fmt.Errorf("--admin is required")
	}
	admin, err := resolveAddress(initAdmin)
	if err != nil {
		return app.Genesis{}, err
	}
	var accounts []cash.GenesisAccount
	for _, raw := range initAccounts {
		acct, err := parseAccount(raw)
		if err != nil {
			return app.Genesis{}, err
		}
		accounts = append(accounts, acct)
	}
	params := app.GenesisParams{
		Admin:        admin,
		FeeRate:      initFeeRate,
		LockDuration: valora.AsUnixDuration(initLock),
	}
	return app.NewGenesis(initChainID, params, accounts)
}

func parseAccount(raw string) (cash.GenesisAccount, error) {
	chunks := strings.SplitN(raw, "=", 2)
	if len(chunks) != 2 {
		return cash.GenesisAccount{}, fmt.Errorf("account %q: want <address>=<amount>", raw)
	}
	addr, err := resolveAddress(chunks[0])
	if err != nil {
		return cash.GenesisAccount{}, err
	}
	amount, err := strconv.ParseInt(chunks[1], 10, 64)
	if err != nil {
		return cash.GenesisAccount{}, fmt.Errorf("account %q: %w", raw, err)
	}
	return cash.GenesisAccount{Address: addr, Amount: amount}, nil
}
