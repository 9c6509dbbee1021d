// Package valoratest provides helpers for testing code built on the ledger
// primitives: keys and addresses, invocation contexts and scripted
// recipients for value transfers.
package valoratest
