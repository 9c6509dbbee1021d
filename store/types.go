package store

import "github.com/mohankour/ValoraVault"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = valora.ReadOnlyKVStore
	SetDeleter       = valora.SetDeleter
	KVStore          = valora.KVStore
	Batch            = valora.Batch
	Iterator         = valora.Iterator
	CacheableKVStore = valora.CacheableKVStore
	KVCacheWrap      = valora.KVCacheWrap
	CommitKVStore    = valora.CommitKVStore
	CommitID         = valora.CommitID
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}
