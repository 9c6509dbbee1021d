package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/mohankour/ValoraVault/errors"
)

// ascendBtree returns all cached items (set and deleted) within the
// [start, end) range in ascending order. A nil boundary is unbounded.
func ascendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}

	if start == nil && end == nil {
		bt.Ascend(collect)
	} else if start == nil { // end != nil
		bt.AscendLessThan(bkey{end}, collect)
	} else if end == nil { // start != nil
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	} else { // both != nil
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// cacheIterator joins our results with those of the parent,
// taking into consideration overwrites and deletes...
type cacheIterator struct {
	items     []keyer
	idx       int
	ascending bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []keyer, parent Iterator, ascending bool) (*cacheIterator, error) {
	iter := &cacheIterator{
		items:     items,
		ascending: ascending,
		parent:    parent,
	}
	if err := iter.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return iter, nil
}

// Next returns the next key/value pair, skipping everything deleted in the
// cache. ErrIteratorDone is returned once both sources are consumed.
func (i *cacheIterator) Next() ([]byte, []byte, error) {
	for {
		src := i.firstKey()
		switch src {
		case none:
			return nil, nil, errors.ErrIteratorDone
		case parent:
			key, value := i.parentKey, i.parentVal
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		item := i.items[i.idx]
		i.idx++
		// cache overwrites the parent value
		if src == both {
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
		}
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
		// deleted in the cache, keep going
	}
}

// Release releases the Iterator.
func (i *cacheIterator) Release() {
	i.parent.Release()
	i.items = nil
}

func (i *cacheIterator) advanceParent() error {
	if i.parentDone {
		return nil
	}
	key, value, err := i.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		i.parentDone = true
		i.parentKey, i.parentVal = nil, nil
		return nil
	}
	if err != nil {
		return err
	}
	i.parentKey, i.parentVal = key, value
	return nil
}

// firstKey selects the source with the next key in iteration order.
func (i *cacheIterator) firstKey() source {
	usValid := i.idx < len(i.items)
	// if only one or none is valid, it is clear which to use
	if i.parentDone {
		if !usValid {
			return none
		}
		return us
	} else if !usValid {
		return parent
	}

	// both are valid... compare keys....
	cmp := bytes.Compare(i.parentKey, i.items[i.idx].Key())
	if !i.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
