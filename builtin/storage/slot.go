// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/u128"
)

// Slot is a single typed value stored under a fixed key.
type Slot[T any] struct {
	context *Context
	key     []byte
	codec   Codec[T]
}

func NewSlot[T any](context *Context, key string, codec Codec[T]) *Slot[T] {
	return &Slot[T]{context: context, key: []byte(key), codec: codec}
}

func NewUint128(context *Context, key string) *Slot[u128.Int] {
	return NewSlot[u128.Int](context, key, U128{})
}

func NewUint64(context *Context, key string) *Slot[uint64] {
	return NewSlot[uint64](context, key, U64{})
}

func NewID(context *Context, key string) *Slot[asset.ID] {
	return NewSlot[asset.ID](context, key, ID{})
}

func NewString(context *Context, key string) *Slot[string] {
	return NewSlot[string](context, key, String{})
}

// Key returns the storage key.
func (s *Slot[T]) Key() string {
	return string(s.key)
}

func (s *Slot[T]) Get() (value T, err error) {
	raw, err := s.context.load(s.key)
	if err != nil {
		return value, err
	}
	return s.codec.Decode(raw)
}

func (s *Slot[T]) Set(value T) error {
	return s.context.store(s.key, s.codec.Encode(value))
}

// AddSaturating adds delta to a u128 slot, clamping at the maximum.
func AddSaturating(s *Slot[u128.Int], delta u128.Int) error {
	v, err := s.Get()
	if err != nil {
		return err
	}
	return s.Set(v.SaturatingAdd(delta))
}

// SubSaturating subtracts delta from a u128 slot, clamping at zero.
func SubSaturating(s *Slot[u128.Int], delta u128.Int) error {
	v, err := s.Get()
	if err != nil {
		return err
	}
	return s.Set(v.SaturatingSub(delta))
}
