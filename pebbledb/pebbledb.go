// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pebbledb implements kv.Store on cockroachdb pebble.
package pebbledb

import (
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
)

var (
	_ kv.StoreCloser = (*PebbleDB)(nil)

	logger = log.WithContext("pkg", "pebbledb")
)

// bulks with auto flush enabled are committed once they reach this size
const autoFlushSize = 4 << 20

// Options options for creating pebble instance.
type Options struct {
	CacheSize    int // MB
	MaxOpenFiles int
}

// errorOnlyLogger routes pebble errors to the package logger and drops the rest.
type errorOnlyLogger struct{}

func (errorOnlyLogger) Infof(string, ...any) {}
func (errorOnlyLogger) Fatalf(format string, args ...any) {
	logger.Crit("pebble fatal", "msg", errors.Errorf(format, args...))
}
func (errorOnlyLogger) Errorf(format string, args ...any) {
	logger.Error("pebble error", "msg", errors.Errorf(format, args...))
}

// PebbleDB wraps a pebble database.
type PebbleDB struct {
	db    *pebble.DB
	cache *pebble.Cache
}

// New opens the database at path, creating it if not exists.
func New(path string, opts Options) (*PebbleDB, error) {
	return open(path, opts, nil)
}

// NewMem creates a pebble database in memory.
func NewMem() (*PebbleDB, error) {
	return open("", Options{}, vfs.NewMem())
}

func open(path string, opts Options, fs vfs.FS) (*PebbleDB, error) {
	if opts.CacheSize < 16 {
		opts.CacheSize = 16
	}
	if opts.MaxOpenFiles < 16 {
		opts.MaxOpenFiles = 16
	}
	cache := pebble.NewCache(int64(opts.CacheSize) << 20)
	db, err := pebble.Open(path, &pebble.Options{
		Cache:                       cache,
		MaxOpenFiles:                opts.MaxOpenFiles,
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 2,
		Logger:                      errorOnlyLogger{},
		FS:                          fs,
	})
	if err != nil {
		cache.Unref()
		return nil, errors.Wrap(err, "open pebble db")
	}
	return &PebbleDB{db: db, cache: cache}, nil
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (p *PebbleDB) IsNotFound(err error) bool {
	return errors.Is(err, pebble.ErrNotFound)
}

// Get retrieve value for given key.
func (p *PebbleDB) Get(key []byte) ([]byte, error) {
	return get(p.db, key)
}

// Has returns whether a key exists.
func (p *PebbleDB) Has(key []byte) (bool, error) {
	return has(p.db, key)
}

// Put save value fo give key.
func (p *PebbleDB) Put(key, val []byte) error {
	return p.db.Set(key, val, pebble.Sync)
}

// Delete deletes the give key and its value.
func (p *PebbleDB) Delete(key []byte) error {
	return p.db.Delete(key, pebble.Sync)
}

// Snapshot returns a consistent read-only view of the current content.
func (p *PebbleDB) Snapshot() kv.Snapshot {
	snap := p.db.NewSnapshot()
	return &struct {
		kv.GetFunc
		kv.HasFunc
		kv.IsNotFoundFunc
		kv.ReleaseFunc
	}{
		func(key []byte) ([]byte, error) { return get(snap, key) },
		func(key []byte) (bool, error) { return has(snap, key) },
		p.IsNotFound,
		func() { _ = snap.Close() },
	}
}

// Bulk creates a batch for writing ops.
func (p *PebbleDB) Bulk() kv.Bulk {
	return &bulk{db: p.db, batch: p.db.NewBatch()}
}

// Iterate create a iterator by range.
func (p *PebbleDB) Iterate(r kv.Range) kv.Iterator {
	it, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: r.Start,
		UpperBound: r.Limit,
	})
	return &iterator{it: it, err: err}
}

// Close closes the database.
func (p *PebbleDB) Close() error {
	err := p.db.Close()
	p.cache.Unref()
	return err
}

// reader is satisfied by both *pebble.DB and *pebble.Snapshot.
type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
}

func get(r reader, key []byte) ([]byte, error) {
	val, closer, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// the value is only valid until the closer is closed
	return append([]byte(nil), val...), nil
}

func has(r reader, key []byte) (bool, error) {
	_, closer, err := r.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, closer.Close()
}

type bulk struct {
	db        *pebble.DB
	batch     *pebble.Batch
	autoFlush bool
}

func (b *bulk) Put(key, val []byte) error {
	if err := b.batch.Set(key, val, nil); err != nil {
		return err
	}
	return b.maybeFlush()
}

func (b *bulk) Delete(key []byte) error {
	if err := b.batch.Delete(key, nil); err != nil {
		return err
	}
	return b.maybeFlush()
}

func (b *bulk) EnableAutoFlush() {
	b.autoFlush = true
}

func (b *bulk) maybeFlush() error {
	if b.autoFlush && b.batch.Len() >= autoFlushSize {
		return b.Write()
	}
	return nil
}

func (b *bulk) Write() error {
	if b.batch.Empty() {
		return nil
	}
	if err := b.batch.Commit(pebble.Sync); err != nil {
		return err
	}
	_ = b.batch.Close()
	b.batch = b.db.NewBatch()
	return nil
}

// iterator adapts pebble's iterator, which must be positioned explicitly,
// to the leveldb style where the first Next lands on the first pair.
type iterator struct {
	it      *pebble.Iterator
	err     error
	started bool
}

func (i *iterator) First() bool {
	if i.it == nil {
		return false
	}
	i.started = true
	return i.it.First()
}

func (i *iterator) Last() bool {
	if i.it == nil {
		return false
	}
	i.started = true
	return i.it.Last()
}

func (i *iterator) Next() bool {
	if !i.started {
		return i.First()
	}
	if i.it == nil {
		return false
	}
	return i.it.Next()
}

func (i *iterator) Prev() bool {
	if !i.started {
		return i.Last()
	}
	if i.it == nil {
		return false
	}
	return i.it.Prev()
}

func (i *iterator) Key() []byte {
	if i.it == nil || !i.it.Valid() {
		return nil
	}
	return i.it.Key()
}

func (i *iterator) Value() []byte {
	if i.it == nil || !i.it.Valid() {
		return nil
	}
	return i.it.Value()
}

func (i *iterator) Release() {
	if i.it != nil {
		if err := i.it.Close(); err != nil && i.err == nil {
			i.err = err
		}
		i.it = nil
	}
}

func (i *iterator) Error() error {
	if i.err != nil {
		return i.err
	}
	if i.it != nil {
		return i.it.Error()
	}
	return nil
}
