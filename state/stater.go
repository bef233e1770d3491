// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/stakepool/kv"
)

const defaultCacheSize = 4096

// Stater is the state creator.
type Stater struct {
	store kv.Store
	cache *lru.Cache
}

// NewStater create a new stater. cacheSize <= 0 selects the default size.
func NewStater(store kv.Store, cacheSize int) *Stater {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, _ := lru.New(cacheSize)
	return &Stater{store, cache}
}

// NewState creates the state a transaction executes on. Its store reads
// fill the shared cache, so it must not be used concurrently with Commit.
func (s *Stater) NewState() *State {
	return newState(s.store, s.cache, true)
}

// NewReadState creates a state for readers running alongside the
// committing writer. It reads through the shared cache but never fills it.
func (s *Stater) NewReadState() *State {
	return newState(s.store, s.cache, false)
}

// Commit writes the stage atomically into the store, together with the
// writes of the extra functions. The cache is refreshed once the write
// has landed.
func (s *Stater) Commit(stage *Stage, extra ...func(kv.Putter) error) error {
	bulk := s.store.Bulk()
	if err := stage.Commit(bulk); err != nil {
		return err
	}
	for _, fn := range extra {
		if err := fn(bulk); err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	for k, v := range stage.changes {
		if len(v) == 0 {
			v = nil
		}
		s.cache.Add(k, v)
	}
	return nil
}

// Store returns the underlying store.
func (s *Stater) Store() kv.Store {
	return s.store
}
