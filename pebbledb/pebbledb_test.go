// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pebbledb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/kv"
)

func TestPebbleDB(t *testing.T) {
	disk, err := New(filepath.Join(t.TempDir(), "db"), Options{})
	require.NoError(t, err)
	defer disk.Close()

	memdb, err := NewMem()
	require.NoError(t, err)
	defer memdb.Close()

	for _, db := range []*PebbleDB{disk, memdb} {
		require.NoError(t, db.Put([]byte("k"), []byte("v")))

		v, err := db.Get([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), v)

		has, err := db.Has([]byte("k"))
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has([]byte("missing"))
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete([]byte("k")))
		_, err = db.Get([]byte("k"))
		assert.True(t, db.IsNotFound(err))
	}
}

func TestPebbleDBBulkSnapshotIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	for _, k := range []string{"b", "c", "a"} {
		require.NoError(t, bulk.Put([]byte(k), []byte(k)))
	}
	require.NoError(t, bulk.Delete([]byte("c")))
	require.NoError(t, bulk.Write())

	snap := db.Snapshot()
	defer snap.Release()
	require.NoError(t, db.Put([]byte("a"), []byte("changed")))

	v, err := snap.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), v)

	var keys []string
	require.NoError(t, kv.ForEach(db, kv.Range{}, func(k, _ []byte) bool {
		keys = append(keys, string(k))
		return true
	}))
	assert.Equal(t, []string{"a", "b"}, keys)

	it := db.Iterate(kv.Range{Start: []byte("b")})
	defer it.Release()
	require.True(t, it.Prev())
	assert.Equal(t, []byte("b"), it.Key())
	assert.False(t, it.Next())
	assert.NoError(t, it.Error())
}
