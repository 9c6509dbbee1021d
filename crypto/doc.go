/*
Package crypto holds the ed25519 keys that control ledger addresses and
their on-disk encoding.
*/
package crypto
