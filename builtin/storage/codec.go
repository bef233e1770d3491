// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/u128"
)

// Codec converts values to and from their stored bytes. Decode must accept
// an empty input and return the zero value.
type Codec[T any] interface {
	Encode(v T) []byte
	Decode(raw []byte) (T, error)
}

// U128 stores 16 little-endian bytes.
type U128 struct{}

func (U128) Encode(v u128.Int) []byte { return v.BytesLE() }

func (U128) Decode(raw []byte) (u128.Int, error) {
	if len(raw) > u128.Size {
		return u128.Zero, errors.Errorf("u128 value has %d bytes", len(raw))
	}
	return u128.FromBytesLE(raw), nil
}

// U64 stores 8 little-endian bytes.
type U64 struct{}

func (U64) Encode(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

func (U64) Decode(raw []byte) (uint64, error) {
	if len(raw) > 8 {
		return 0, errors.Errorf("u64 value has %d bytes", len(raw))
	}
	var buf [8]byte
	copy(buf[:], raw)
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ID stores an asset id as two 16-byte little-endian integers.
type ID struct{}

func (ID) Encode(v asset.ID) []byte { return v.Bytes() }

func (ID) Decode(raw []byte) (asset.ID, error) {
	if len(raw) == 0 {
		return asset.ID{}, nil
	}
	return asset.BytesToID(raw)
}

// String stores the raw utf-8 bytes.
type String struct{}

func (String) Encode(v string) []byte { return []byte(v) }

func (String) Decode(raw []byte) (string, error) { return string(raw), nil }
