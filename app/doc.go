/*
Package app hosts a ledger on a persistent store.

Every invocation runs on the deliver cache of a CommitStore. A successful
invocation is committed as a new store version, a failed one leaves the
committed state untouched. The genesis file provides the initial wallets and
the ledger configuration.
*/
package app
