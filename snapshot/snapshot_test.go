// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pebbledb"
)

func fill(t *testing.T, store kv.Store, n int) {
	for i := range n {
		require.NoError(t, store.Put(fmt.Appendf(nil, "key-%04d", i), fmt.Appendf(nil, "value-%d", i*i)))
	}
}

func dump(t *testing.T, store kv.Store) map[string]string {
	m := make(map[string]string)
	require.NoError(t, kv.ForEach(store, kv.Range{}, func(k, v []byte) bool {
		m[string(k)] = string(v)
		return true
	}))
	return m
}

func TestExportImport(t *testing.T) {
	src, err := lvldb.NewMem()
	require.NoError(t, err)
	defer src.Close()
	fill(t, src, 500)

	var buf bytes.Buffer
	exported, err := Export(src, &buf)
	require.NoError(t, err)
	assert.Equal(t, 500, exported.Entries)

	// restore into the other backend
	dst, err := pebbledb.NewMem()
	require.NoError(t, err)
	defer dst.Close()

	imported, err := Import(bytes.NewReader(buf.Bytes()), dst)
	require.NoError(t, err)
	assert.Equal(t, exported, imported)
	assert.Equal(t, dump(t, src), dump(t, dst))

	// a second import is refused
	_, err = Import(bytes.NewReader(buf.Bytes()), dst)
	assert.Equal(t, ErrNotEmpty, err)

	// the content is the same whatever the backend
	again, err := Export(dst, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Equal(t, exported.Checksum, again.Checksum)
}

func TestEmptyStore(t *testing.T) {
	src, err := lvldb.NewMem()
	require.NoError(t, err)
	defer src.Close()

	var buf bytes.Buffer
	stats, err := Export(src, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)

	dst, err := lvldb.NewMem()
	require.NoError(t, err)
	defer dst.Close()
	stats, err = Import(&buf, dst)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestCorruption(t *testing.T) {
	src, err := lvldb.NewMem()
	require.NoError(t, err)
	defer src.Close()
	fill(t, src, 20)

	var buf bytes.Buffer
	_, err = Export(src, &buf)
	require.NoError(t, err)

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	plain, err := dec.DecodeAll(buf.Bytes(), nil)
	require.NoError(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()

	tampered := bytes.Replace(plain, []byte("value-361"), []byte("value-999"), 1)
	require.NotEqual(t, plain, tampered)

	tests := []struct {
		name string
		data []byte
		err  string
	}{
		{"tampered", enc.EncodeAll(tampered, nil), ErrChecksum.Error()},
		{"truncated", enc.EncodeAll(plain[:len(plain)-40], nil), ""},
		{"trailing", enc.EncodeAll(append(append([]byte(nil), plain...), 0x80), nil), "trailing data after snapshot"},
		{"not zstd", []byte("hello"), ""},
	}
	for _, tt := range tests {
		dst, err := lvldb.NewMem()
		require.NoError(t, err)

		_, err = Import(bytes.NewReader(tt.data), dst)
		assert.Error(t, err, tt.name)
		if tt.err != "" {
			assert.ErrorContains(t, err, tt.err, tt.name)
		}
		assert.Empty(t, dump(t, dst), tt.name)
		dst.Close()
	}
}
