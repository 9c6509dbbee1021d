package store

import (
	"testing"

	"github.com/mohankour/ValoraVault/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertGetHas(t *testing.T, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

// TestBTreeCacheGetSet does basic sanity checks on our cache
//
// Other tests should handle deletes, setting same value,
// iterating over ranges, and general fuzzing
func TestBTreeCacheGetSet(t *testing.T) {
	// devnull is a black hole... just to keep our types proper
	devnull := BTreeCacheable{EmptyKVStore{}}

	// base is the root of our data, we can layer on top and
	// all queries should work
	base := devnull.CacheWrap()

	// make sure the btree is empty at start but returns results
	// that are writen to it
	k, v := []byte("french"), []byte("fry")
	assertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	assertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	assertGetHas(t, cache, k2, nil, false)
	require.NoError(t, cache.Set(k2, v2))
	assertGetHas(t, cache, k2, v2, true)
	assertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assertGetHas(t, base, k, v, true)
	assertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	assertGetHas(t, c2, k, v, true)
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	assertGetHas(t, base, k3, nil, false)

	// and commit another
	c3 := base.CacheWrap()
	assertGetHas(t, c3, k2, v2, true)
	require.NoError(t, c3.Delete(k))
	require.NoError(t, c3.Write())

	// make sure it commits proper
	assertGetHas(t, base, k, nil, false)
	assertGetHas(t, base, k2, v2, true)
	assertGetHas(t, base, k3, nil, false)
}

func TestDiscardedWrapCannotLeak(t *testing.T) {
	base := MemStore()
	wrap := base.CacheWrap()
	require.NoError(t, wrap.Set([]byte("a"), []byte("1")))
	wrap.Discard()

	// a write after discard must not resurrect the dropped operations
	require.NoError(t, wrap.Write())
	assertGetHas(t, base, []byte("a"), nil, false)
}

func collect(t *testing.T, it Iterator) []Model {
	t.Helper()
	defer it.Release()

	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, Model{Key: k, Value: v})
	}
}

func TestCacheIteratorMergesParent(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("e"), []byte("cache-e")))
	require.NoError(t, cache.Delete([]byte("c")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"everything": {
			want: []Model{
				{Key: []byte("a"), Value: []byte("base-a")},
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("e"), Value: []byte("cache-e")},
				{Key: []byte("g"), Value: []byte("base-g")},
			},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("g"),
			want: []Model{
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("e"), Value: []byte("cache-e")},
			},
		},
		"reverse": {
			reverse: true,
			want: []Model{
				{Key: []byte("g"), Value: []byte("base-g")},
				{Key: []byte("e"), Value: []byte("cache-e")},
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("a"), Value: []byte("base-a")},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, collect(t, it))
		})
	}
}

func TestNestedRollback(t *testing.T) {
	Convey("Given a store with a committed value", t, func() {
		base := MemStore()
		key := []byte("balance")
		So(base.Set(key, []byte("100")), ShouldBeNil)

		Convey("an invocation writes through nested wraps", func() {
			outer := base.CacheWrap()
			So(outer.Set(key, []byte("60")), ShouldBeNil)

			inner := outer.CacheWrap()
			So(inner.Set(key, []byte("0")), ShouldBeNil)

			Convey("discarding the inner wrap keeps the outer changes", func() {
				inner.Discard()
				got, err := outer.Get(key)
				So(err, ShouldBeNil)
				So(string(got), ShouldEqual, "60")
			})

			Convey("discarding the outer wrap drops everything", func() {
				So(inner.Write(), ShouldBeNil)
				outer.Discard()
				got, err := base.Get(key)
				So(err, ShouldBeNil)
				So(string(got), ShouldEqual, "100")
			})

			Convey("writing both layers reaches the base", func() {
				So(inner.Write(), ShouldBeNil)
				So(outer.Write(), ShouldBeNil)
				got, err := base.Get(key)
				So(err, ShouldBeNil)
				So(string(got), ShouldEqual, "0")
			})
		})
	})
}
