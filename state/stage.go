// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/vechain/stakepool/kv"
)

// Stage abstracts the pending changes of a state.
type Stage struct {
	changes map[string][]byte
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.changes)
}

func (s *Stage) sortedKeys() []string {
	keys := make([]string, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hash computes a digest of the change set, independent of write order.
func (s *Stage) Hash() [32]byte {
	h, _ := blake2b.New256(nil)
	var buf bytes.Buffer
	for _, k := range s.sortedKeys() {
		buf.Reset()
		writeChunk(&buf, []byte(k))
		writeChunk(&buf, s.changes[k])
		h.Write(buf.Bytes())
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func writeChunk(buf *bytes.Buffer, b []byte) {
	n := len(b)
	buf.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	buf.Write(b)
}

// Commit writes all changes into the putter.
func (s *Stage) Commit(putter kv.Putter) error {
	for _, k := range s.sortedKeys() {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = putter.Delete([]byte(k))
		} else {
			err = putter.Put([]byte(k), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	return nil
}
