package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/crypto"
)

var keysForce bool

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the keys controlling ledger addresses",
}

var keysNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Generate a key and store it under the home directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(keysDir(), 0700); err != nil {
			return err
		}
		key, err := crypto.GenPrivateKey()
		if err != nil {
			return err
		}
		if err := crypto.SavePrivateKey(key, keyFile(args[0]), keysForce); err != nil {
			return err
		}
		logger.Info("key created", "name", args[0])
		return printKey(cmd, args[0], key.Address())
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the address controlled by a stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := crypto.LoadPrivateKey(keyFile(args[0]))
		if err != nil {
			return err
		}
		return printKey(cmd, args[0], key.Address())
	},
}

func init() {
	keysNewCmd.Flags().BoolVar(&keysForce, "force", false, "overwrite an existing key")
	keysCmd.AddCommand(keysNewCmd)
	keysCmd.AddCommand(keysShowCmd)
}

func keysDir() string {
	return filepath.Join(homeDir(), "keys")
}

func keyFile(name string) string {
	return filepath.Join(keysDir(), name+".key")
}

func printKey(cmd *cobra.Command, name string, addr valora.Address) error {
	b32, err := addr.Bech32()
	if err != nil {
		return err
	}
	return printJSON(cmd, map[string]string{
		"name":   name,
		"hex":    addr.String(),
		"bech32": b32,
	})
}

// resolveAddress accepts the name of a stored key or an address in any
// format valora.ParseAddress understands.
func resolveAddress(s string) (valora.Address, error) {
	if key, err := crypto.LoadPrivateKey(keyFile(s)); err == nil {
		return key.Address(), nil
	}
	addr, err := valora.ParseAddress(s)
	if err != nil {
		return nil, fmt.Errorf("%q is neither a key name nor an address: %w", s, err)
	}
	return addr, nil
}
