// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix giving a logical namespace inside a store.
type Bucket string

// Key returns the full key of key inside the bucket.
func (b Bucket) Key(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// Range returns the full range of r inside the bucket. An empty limit
// extends to the end of the bucket.
func (b Bucket) Range(r Range) Range {
	out := Range{Start: b.Key(r.Start)}
	if len(r.Limit) == 0 {
		out.Limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		out.Limit = b.Key(r.Limit)
	}
	return out
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketGetter{b, src}, bucketPutter{b, src}, src}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.Key(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.Key(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.b.Key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.b.Key(key)) }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s *bucketStore) Snapshot() Snapshot {
	snapshot := s.src.Snapshot()
	return &bucketSnapshot{bucketGetter{s.bucketGetter.b, snapshot}, snapshot}
}

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &bucketBulk{bucketPutter{s.bucketPutter.b, bulk}, bulk}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	return &bucketIterator{s.src.Iterate(s.bucketGetter.b.Range(r)), len(s.bucketGetter.b)}
}

type bucketSnapshot struct {
	bucketGetter
	src Snapshot
}

func (s *bucketSnapshot) Release() { s.src.Release() }

type bucketBulk struct {
	bucketPutter
	src Bulk
}

func (b *bucketBulk) EnableAutoFlush() { b.src.EnableAutoFlush() }
func (b *bucketBulk) Write() error     { return b.src.Write() }

// bucketIterator strips the bucket prefix from keys.
type bucketIterator struct {
	Iterator
	prefixLen int
}

func (it *bucketIterator) Key() []byte { return it.Iterator.Key()[it.prefixLen:] }
