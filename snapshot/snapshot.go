// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package snapshot dumps a kv store to a portable stream and restores it.
//
// The stream is zstd compressed. Inside, a header is followed by every kv
// pair in key order and a trailer carrying the blake3 checksum of all the
// preceding items. Every item is rlp encoded.
package snapshot

import (
	"bytes"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
)

const (
	magic   = "stakepool-snapshot"
	version = 1
)

var logger = log.WithContext("pkg", "snapshot")

var (
	// ErrChecksum is returned when a stream does not match its trailer.
	ErrChecksum = errors.New("snapshot checksum mismatch")
	// ErrNotEmpty is returned when importing into a store holding data.
	ErrNotEmpty = errors.New("target store is not empty")
)

type header struct {
	Magic   string
	Version uint
}

// record is a kv pair. A record with an empty key is the trailer and
// holds the checksum as its value.
type record struct {
	Key   []byte
	Value []byte
}

// Stats summarizes an export or import.
type Stats struct {
	Entries  int
	Checksum [32]byte
}

// Export writes every pair of store to w.
func Export(store kv.Store, w io.Writer) (*Stats, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, errors.Wrap(err, "create encoder")
	}
	hasher := blake3.New()
	out := io.MultiWriter(enc, hasher)

	if err := rlp.Encode(out, &header{Magic: magic, Version: version}); err != nil {
		enc.Close()
		return nil, err
	}

	var (
		stats   Stats
		callErr error
	)
	if err := kv.ForEach(store, kv.Range{}, func(key, val []byte) bool {
		if callErr = rlp.Encode(out, &record{Key: key, Value: val}); callErr != nil {
			return false
		}
		stats.Entries++
		return true
	}); err != nil {
		enc.Close()
		return nil, errors.Wrap(err, "iterate store")
	}
	if callErr != nil {
		enc.Close()
		return nil, callErr
	}

	hasher.Sum(stats.Checksum[:0])
	if err := rlp.Encode(enc, &record{Value: stats.Checksum[:]}); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "flush encoder")
	}
	logger.Debug("exported snapshot", "entries", stats.Entries, "checksum", stats.Checksum)
	return &stats, nil
}

// Import restores a stream written by Export into an empty store. Nothing is
// written unless the whole stream is valid.
func Import(r io.Reader, store kv.Store) (*Stats, error) {
	if empty, err := isEmpty(store); err != nil {
		return nil, err
	} else if !empty {
		return nil, ErrNotEmpty
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "create decoder")
	}
	defer dec.Close()

	var (
		stream = rlp.NewStream(dec, 0)
		hasher = blake3.New()
		bulk   = store.Bulk()
		stats  Stats
	)

	raw, err := stream.Raw()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	var h header
	if err := rlp.DecodeBytes(raw, &h); err != nil {
		return nil, errors.Wrap(err, "decode header")
	}
	if h.Magic != magic {
		return nil, errors.New("not a snapshot stream")
	}
	if h.Version != version {
		return nil, errors.Errorf("unsupported snapshot version %d", h.Version)
	}
	hasher.Write(raw)

	for {
		raw, err := stream.Raw()
		if err != nil {
			if err == io.EOF {
				return nil, errors.New("snapshot truncated")
			}
			return nil, errors.Wrap(err, "read record")
		}
		var rec record
		if err := rlp.DecodeBytes(raw, &rec); err != nil {
			return nil, errors.Wrap(err, "decode record")
		}
		if len(rec.Key) == 0 {
			hasher.Sum(stats.Checksum[:0])
			if !bytes.Equal(rec.Value, stats.Checksum[:]) {
				return nil, ErrChecksum
			}
			break
		}
		hasher.Write(raw)
		if err := bulk.Put(rec.Key, rec.Value); err != nil {
			return nil, err
		}
		stats.Entries++
	}
	if _, err := stream.Raw(); err != io.EOF {
		return nil, errors.New("trailing data after snapshot")
	}

	if err := bulk.Write(); err != nil {
		return nil, errors.Wrap(err, "write store")
	}
	logger.Debug("imported snapshot", "entries", stats.Entries, "checksum", stats.Checksum)
	return &stats, nil
}

func isEmpty(store kv.Store) (bool, error) {
	empty := true
	err := kv.ForEach(store, kv.Range{}, func([]byte, []byte) bool {
		empty = false
		return false
	})
	return empty, err
}
