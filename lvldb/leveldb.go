// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/stakepool/kv"
)

var _ kv.StoreCloser = (*LevelDB)(nil)

// Options tunes a persistent store. Sizes below 16 are raised to 16.
type Options struct {
	CacheSize              int // MiB, split between block cache and write buffers
	OpenFilesCacheCapacity int
}

// bulks with auto flush enabled are written once they reach this size
const autoFlushSize = 4 * opt.MiB

var (
	writeOpt = opt.WriteOptions{}
	readOpt  = opt.ReadOptions{}
)

// LevelDB is a kv.StoreCloser backed by goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the store at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	return openLevelDB(stg, opts.CacheSize, opts.OpenFilesCacheCapacity)
}

// NewMem returns an empty in-memory store, used by tests and scenario runs.
func NewMem() (*LevelDB, error) {
	return openLevelDB(storage.NewMemStorage(), 0, 0)
}

func openLevelDB(stg storage.Storage, cacheSize, openFilesCacheCapacity int) (*LevelDB, error) {
	cacheSize = max(cacheSize, 16)
	openFilesCacheCapacity = max(openFilesCacheCapacity, 16)

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: openFilesCacheCapacity,
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db}, nil
}

// IsNotFound reports whether err is the missing key error of Get.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

// Snapshot returns a consistent read-only view of the current content.
func (ldb *LevelDB) Snapshot() kv.Snapshot {
	snap, err := ldb.db.GetSnapshot()
	if err != nil {
		return &errSnapshot{err}
	}
	return &struct {
		kv.GetFunc
		kv.HasFunc
		kv.IsNotFoundFunc
		kv.ReleaseFunc
	}{
		func(key []byte) ([]byte, error) { return snap.Get(key, &readOpt) },
		func(key []byte) (bool, error) { return snap.Has(key, &readOpt) },
		ldb.IsNotFound,
		snap.Release,
	}
}

// Bulk returns a batch written by Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{db: ldb.db, batch: new(leveldb.Batch)}
}

// Iterate walks the keys of r in ascending order.
func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &readOpt)
}

// Close releases the database. Later operations fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

type bulk struct {
	db        *leveldb.DB
	batch     *leveldb.Batch
	autoFlush bool
}

func (b *bulk) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return b.maybeFlush()
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return b.maybeFlush()
}

func (b *bulk) EnableAutoFlush() {
	b.autoFlush = true
}

func (b *bulk) maybeFlush() error {
	if b.autoFlush && len(b.batch.Dump()) >= autoFlushSize {
		return b.Write()
	}
	return nil
}

func (b *bulk) Write() error {
	if b.batch.Len() == 0 {
		return nil
	}
	if err := b.db.Write(b.batch, &writeOpt); err != nil {
		return err
	}
	b.batch.Reset()
	return nil
}

// errSnapshot is returned when no snapshot could be taken.
type errSnapshot struct {
	err error
}

func (s *errSnapshot) Get([]byte) ([]byte, error) { return nil, s.err }
func (s *errSnapshot) Has([]byte) (bool, error)   { return false, s.err }
func (s *errSnapshot) IsNotFound(error) bool      { return false }
func (s *errSnapshot) Release()                   {}
