package app

import (
	"encoding/binary"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining the deliver
// cache and returning useful state info.
type CommitStore struct {
	committed valora.CommitKVStore
	deliver   valora.KVCacheWrap
}

// NewCommitStore loads the latest version of the store and sets up the
// deliver cache.
func NewCommitStore(store valora.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current version and hash.
func (cs *CommitStore) CommitInfo() (valora.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it to disk.
// It then regenerates a new deliver cache.
func (cs *CommitStore) Commit() (valora.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return valora.CommitID{}, err
	}
	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}
	cs.deliver = cs.committed.CacheWrap()
	return res, nil
}

// Reset drops everything written to the deliver cache since the last commit.
func (cs *CommitStore) Reset() {
	cs.deliver.Discard()
	cs.deliver = cs.committed.CacheWrap()
}

// DeliverStore returns the store invocations must run on.
func (cs *CommitStore) DeliverStore() valora.CacheableKVStore {
	return cs.deliver
}

// _vv: is a prefix for application internal data
const (
	chainIDKey  = "_vv:chainID"
	lastTimeKey = "_vv:lastTime"
)

func loadChainID(kv valora.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores the chain id. It fails if one is already set or the
// name is not valid.
func saveChainID(kv valora.KVStore, chainID string) error {
	if !IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if exists {
		return errors.Wrap(errors.ErrState, "chain already initialized")
	}
	return kv.Set(k, []byte(chainID))
}

// loadLastTime returns the time of the most recent committed invocation, or
// zero if nothing was committed yet.
func loadLastTime(kv valora.ReadOnlyKVStore) (valora.UnixTime, error) {
	v, err := kv.Get([]byte(lastTimeKey))
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if v == nil {
		return 0, nil
	}
	if len(v) != 8 {
		return 0, errors.Wrapf(errors.ErrState, "last time of %d bytes", len(v))
	}
	return valora.UnixTime(binary.BigEndian.Uint64(v)), nil
}

// saveLastTime records the time of an invocation. Time never goes backwards.
func saveLastTime(kv valora.KVStore, t valora.UnixTime) error {
	last, err := loadLastTime(kv)
	if err != nil {
		return err
	}
	if t < last {
		return errors.Wrapf(errors.ErrInput, "time %s is before the last invocation at %s", t, last)
	}
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(t))
	return kv.Set([]byte(lastTimeKey), raw)
}
