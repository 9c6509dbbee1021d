/*
Package valora defines the interfaces and small value types shared by the
ValoraVault extensions: addresses, block time, the invocation context,
key-value storage and genesis options.

Every invocation of the ledger runs with a context carrying the authenticated
caller, the current block time and a logger. There should exist two functions
for every XYZ of type T that we want to support in Context:

  WithXYZ(Context, T) Context
  XYZ(Context) (val T, ok bool)

State lives in a KVStore. Writes of one invocation are grouped in a
KVCacheWrap which is written to the parent store only when the invocation
succeeds, and discarded otherwise.
*/
package valora
