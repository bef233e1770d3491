// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/kv"
)

// Buckets of the persisted state.
const (
	StorageBucket  kv.Bucket = "s"
	BalanceBucket  kv.Bucket = "b"
	InstanceBucket kv.Bucket = "i"
	InitBucket     kv.Bucket = "n"
	MetaBucket     kv.Bucket = "m"
)

var sequenceName = []byte("sequence")

type (
	storageKey struct {
		contract asset.ID
		key      string
	}
	balanceKey struct {
		holder asset.ID
		id     asset.ID
	}
	instanceKey asset.ID
	initKey     asset.ID
	sequenceKey struct{}
)

// dbKey maps a journal key to its persisted key.
func dbKey(key any) []byte {
	switch k := key.(type) {
	case storageKey:
		return StorageBucket.Key(append(k.contract.Bytes(), k.key...))
	case balanceKey:
		return BalanceBucket.Key(append(k.holder.Bytes(), k.id.Bytes()...))
	case instanceKey:
		return InstanceBucket.Key(asset.ID(k).Bytes())
	case initKey:
		return InitBucket.Key(asset.ID(k).Bytes())
	case sequenceKey:
		return MetaBucket.Key(sequenceName)
	}
	panic("state: unexpected key type")
}
