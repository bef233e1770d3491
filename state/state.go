// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/stackedmap"
	"github.com/vechain/stakepool/u128"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying error.
func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the world state on top of a kv getter.
type State struct {
	src   kv.Getter
	cache *lru.Cache // shared read cache of persisted values, may be nil
	fill  bool       // store reads are added to cache
	sm    *stackedmap.StackedMap[any, []byte]
}

// New create state object. Values read from src are added to cache, so
// the caller must not commit to src while the state is in use.
func New(src kv.Getter, cache *lru.Cache) *State {
	return newState(src, cache, true)
}

func newState(src kv.Getter, cache *lru.Cache, fill bool) *State {
	s := &State{src: src, cache: cache, fill: fill && cache != nil}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) ([]byte, bool, error) {
	k := dbKey(key)
	if s.cache != nil {
		if v, ok := s.cache.Get(string(k)); ok {
			metricStateAccess().AddWithLabel(1, map[string]string{"type": "read", "target": "cache"})
			return v.([]byte), true, nil
		}
	}
	metricStateAccess().AddWithLabel(1, map[string]string{"type": "read", "target": "store"})
	v, err := s.src.Get(k)
	if err != nil {
		if !s.src.IsNotFound(err) {
			return nil, false, err
		}
		v = nil
	}
	if s.fill {
		s.cache.Add(string(k), v)
	}
	return v, true, nil
}

func (s *State) get(key any) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// GetStorage returns the raw value stored by contract under key.
// The returned slice must not be modified. Nil means absent.
func (s *State) GetStorage(contract asset.ID, key []byte) ([]byte, error) {
	return s.get(storageKey{contract, string(key)})
}

// SetStorage sets the raw value of key in contract storage.
// An empty value deletes the key.
func (s *State) SetStorage(contract asset.ID, key, value []byte) {
	s.sm.Put(storageKey{contract, string(key)}, append([]byte(nil), value...))
}

// GetBalance returns the amount of asset id held by holder.
func (s *State) GetBalance(holder, id asset.ID) (u128.Int, error) {
	v, err := s.get(balanceKey{holder, id})
	if err != nil {
		return u128.Zero, err
	}
	return u128.FromBytesLE(v), nil
}

// SetBalance set balance of asset id for holder.
func (s *State) SetBalance(holder, id asset.ID, balance u128.Int) {
	var v []byte
	if !balance.IsZero() {
		v = balance.BytesLE()
	}
	s.sm.Put(balanceKey{holder, id}, v)
}

// GetTemplate returns the template an instance was created from.
// The second result is false if no such instance exists.
func (s *State) GetTemplate(instance asset.ID) (u128.Int, bool, error) {
	v, err := s.get(instanceKey(instance))
	if err != nil {
		return u128.Zero, false, err
	}
	if len(v) == 0 {
		return u128.Zero, false, nil
	}
	return u128.FromBytesLE(v), true, nil
}

// SetTemplate records instance as created from template.
func (s *State) SetTemplate(instance asset.ID, template u128.Int) {
	s.sm.Put(instanceKey(instance), template.BytesLE())
}

// IsInitialized returns whether the contract has passed its initialization guard.
func (s *State) IsInitialized(contract asset.ID) (bool, error) {
	v, err := s.get(initKey(contract))
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// SetInitialized marks the contract as initialized.
func (s *State) SetInitialized(contract asset.ID) {
	s.sm.Put(initKey(contract), []byte{1})
}

// NextSequence allocates the next instance sequence number, starting at 1.
func (s *State) NextSequence() (u128.Int, error) {
	v, err := s.get(sequenceKey{})
	if err != nil {
		return u128.Zero, err
	}
	next, overflow := u128.FromBytesLE(v).Add(u128.One)
	if overflow {
		return u128.Zero, &Error{fmt.Errorf("sequence exhausted")}
	}
	s.sm.Put(sequenceKey{}, next.BytesLE())
	return next, nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object holding the net changes since creation.
func (s *State) Stage() *Stage {
	changes := make(map[string][]byte)
	s.sm.Journal(func(k any, v []byte) bool {
		changes[string(dbKey(k))] = v
		return true
	})
	return &Stage{changes: changes}
}
