package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/mohankour/ValoraVault/app"
	"github.com/mohankour/ValoraVault/store/iavl"
)

const (
	flagHome     = "home"
	flagLogLevel = "log-level"
	storeName    = "vault"
	genesisFile  = "genesis.json"
)

var logger log.Logger

var rootCmd = &cobra.Command{
	Use:   "vaultd",
	Short: "Time-locked custodial vault ledger",
	Long: `vaultd keeps a single asset vault ledger in a local store.

Every exec command is a single ledger invocation. It is committed as a new
store version when it succeeds and leaves the state untouched otherwise.

Flags can be set in $HOME/.vaultd/config.yaml or with VAULTD_ prefixed
environment variables, for example VAULTD_LOG_LEVEL=debug.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.AddConfigPath(viper.GetString(flagHome))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("read config: %w", err)
			}
		}

		l, err := newLogger(viper.GetString(flagLogLevel))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".vaultd")
	rootCmd.PersistentFlags().String(flagHome, defaultHome, "directory to store files under")
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level: debug, info, error or none")

	viper.SetEnvPrefix("VAULTD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag(flagHome, rootCmd.PersistentFlags().Lookup(flagHome))
	_ = viper.BindPFlag(flagLogLevel, rootCmd.PersistentFlags().Lookup(flagLogLevel))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger(level string) (log.Logger, error) {
	option, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	l := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "vaultd")
	return log.NewFilter(l, option), nil
}

func homeDir() string {
	return viper.GetString(flagHome)
}

// openApp loads the committed state from the home directory. The returned
// function releases the store.
func openApp() (*app.App, func(), error) {
	dir := filepath.Join(homeDir(), "data")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, nil, err
	}
	kv := iavl.NewCommitStore(dir, storeName)
	a, err := app.New(kv, logger)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	return a, kv.Close, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return err
}
