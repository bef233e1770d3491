// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/vechain/stakepool/asset"
)

// Mapping is a family of slots keyed by asset id, stored under
// "{prefix}/{block}:{tx}".
type Mapping[T any] struct {
	context *Context
	prefix  string
	codec   Codec[T]
}

func NewMapping[T any](context *Context, prefix string, codec Codec[T]) *Mapping[T] {
	return &Mapping[T]{context: context, prefix: prefix, codec: codec}
}

// At returns the slot of id.
func (m *Mapping[T]) At(id asset.ID) *Slot[T] {
	return NewSlot(m.context, m.prefix+"/"+id.String(), m.codec)
}

func (m *Mapping[T]) Get(id asset.ID) (T, error) {
	return m.At(id).Get()
}

func (m *Mapping[T]) Set(id asset.ID, value T) error {
	return m.At(id).Set(value)
}
