// vaultd keeps a ledger on a local persistent store and runs one
// invocation per command.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
