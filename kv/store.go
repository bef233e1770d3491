// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value abstraction every backend of the pool
// host implements. Contract storage, balances, receipts and chain
// properties all live in one Store, separated by Bucket prefixes.
package kv

type (
	// Getter reads values. A missing key is reported by an error for which
	// IsNotFound returns true.
	Getter interface {
		Get(key []byte) ([]byte, error)
		Has(key []byte) (bool, error)
		IsNotFound(err error) bool
	}

	// Putter writes values.
	Putter interface {
		Put(key, val []byte) error
		Delete(key []byte) error
	}

	// Snapshot is a consistent read view that must be released.
	Snapshot interface {
		Getter
		Release()
	}

	// Bulk batches writes until Write. With auto flush enabled large
	// batches are written in pieces and lose atomicity.
	Bulk interface {
		Putter
		EnableAutoFlush()
		Write() error
	}

	// Iterator walks pairs in key order. Key and Value are only valid until
	// the next move.
	Iterator interface {
		First() bool
		Last() bool
		Next() bool
		Prev() bool
		Key() []byte
		Value() []byte
		Release()
		Error() error
	}

	// Store is a complete backend.
	Store interface {
		Getter
		Putter

		Snapshot() Snapshot
		Bulk() Bulk
		Iterate(r Range) Iterator
	}

	// StoreCloser is a store owning resources such as open files.
	StoreCloser interface {
		Store
		Close() error
	}
)

// Range selects keys in [Start, Limit). Nil bounds are open.
type Range struct {
	Start []byte
	Limit []byte
}

// ForEach visits every pair in r in key order until fn returns false.
// The slices passed to fn are only valid during the call.
func ForEach(src Store, r Range, fn func(key, val []byte) bool) error {
	it := src.Iterate(r)
	defer it.Release()

	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Error()
}
