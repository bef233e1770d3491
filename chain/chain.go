// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain executes transactions in height order against the persisted
// state and keeps their receipts.
package chain

import (
	"encoding/binary"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/fuel"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

// Buckets used by the chain, next to the state buckets.
const (
	TxBucket      kv.Bucket = "t"
	ReceiptBucket kv.Bucket = "r"
	PropBucket    kv.Bucket = "p"
)

var (
	logger = log.WithContext("pkg", "chain")

	headHeightKey = []byte("head-height")

	errNotFound = errors.New("not found")
	// ErrKnownTx is returned when a transaction was executed before.
	ErrKnownTx = errors.New("known transaction")
)

// IsNotFound returns whether err is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// Options configures a Chain.
type Options struct {
	// StateCacheSize is the size of the state read cache.
	StateCacheSize int
	// ReceiptCacheSize is the number of receipts kept in memory.
	ReceiptCacheSize int
	// QueryFuelLimit bounds read-only queries.
	QueryFuelLimit uint64
}

// Chain executes transactions and stores the results.
//
// It's thread-safe.
type Chain struct {
	store    kv.Store
	stater   *state.Stater
	registry runtime.Registry
	opts     Options

	txs      kv.Store
	receipts kv.Store
	props    kv.Store

	mu        sync.RWMutex
	head      uint64
	rcptCache *lru.Cache
}

// New opens a chain over store, resuming from the persisted head height.
func New(store kv.Store, registry runtime.Registry, opts Options) (*Chain, error) {
	if opts.ReceiptCacheSize <= 0 {
		opts.ReceiptCacheSize = 2048
	}
	if opts.QueryFuelLimit == 0 {
		opts.QueryFuelLimit = runtime.DefaultFuelLimit
	}
	cache, err := lru.New(opts.ReceiptCacheSize)
	if err != nil {
		return nil, err
	}

	c := &Chain{
		store:     store,
		stater:    state.NewStater(store, opts.StateCacheSize),
		registry:  registry,
		opts:      opts,
		txs:       TxBucket.NewStore(store),
		receipts:  ReceiptBucket.NewStore(store),
		props:     PropBucket.NewStore(store),
		rcptCache: cache,
	}

	val, err := c.props.Get(headHeightKey)
	if err != nil {
		if !c.props.IsNotFound(err) {
			return nil, errors.Wrap(err, "load head height")
		}
	} else {
		c.head = binary.BigEndian.Uint64(val)
	}
	metricHeadHeight().Set(int64(c.head))
	return c, nil
}

// Height returns the height of the latest executed transaction.
func (c *Chain) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.head
}

// Store returns the underlying store.
func (c *Chain) Store() kv.Store {
	return c.store
}

// Execute runs trx at the next height.
func (c *Chain) Execute(trx *tx.Transaction) (*tx.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execute(trx, c.head+1)
}

// ExecuteAt runs trx at the given height, which must not be below the head.
func (c *Chain) ExecuteAt(height uint64, trx *tx.Transaction) (*tx.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if height < c.head {
		return nil, errors.Errorf("height %d is below head %d", height, c.head)
	}
	return c.execute(trx, height)
}

func (c *Chain) execute(trx *tx.Transaction, height uint64) (*tx.Receipt, error) {
	id := trx.ID()
	if has, err := c.receipts.Has(id[:]); err != nil {
		return nil, err
	} else if has {
		return nil, ErrKnownTx
	}

	st := c.stater.NewState()
	rt := runtime.New(c.registry, st, height)
	receipt, err := rt.ExecuteTransaction(trx)
	if err != nil {
		return nil, err
	}

	txData, err := rlp.EncodeToBytes(trx)
	if err != nil {
		return nil, err
	}
	rcptData, err := tx.EncodeReceipt(receipt)
	if err != nil {
		return nil, err
	}

	if err := c.stater.Commit(st.Stage(), func(w kv.Putter) error {
		if err := w.Put(TxBucket.Key(id[:]), txData); err != nil {
			return err
		}
		if err := w.Put(ReceiptBucket.Key(id[:]), rcptData); err != nil {
			return err
		}
		return w.Put(PropBucket.Key(headHeightKey), binary.BigEndian.AppendUint64(nil, height))
	}); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	c.head = height
	c.rcptCache.Add(id, receipt)
	metricHeadHeight().Set(int64(height))
	logger.Debug("executed tx",
		"id", id,
		"height", height,
		"target", trx.Target(),
		"reverted", receipt.Reverted,
		"fuel", receipt.FuelUsed,
	)
	return receipt, nil
}

// Query runs a read-only call at the head height. Contract failures are
// returned as errors. Queries never observe a partially committed
// transaction.
func (c *Chain) Query(caller, target asset.ID, inputs []u128.Int) (*runtime.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rt := runtime.New(c.registry, c.stater.NewReadState(), c.head)
	return rt.Call(caller, target, inputs, nil, fuel.New(c.opts.QueryFuelLimit), true)
}

// NewState returns a state over the committed data. Its changes are never
// persisted.
func (c *Chain) NewState() *state.State {
	return c.stater.NewReadState()
}

// Balance returns the amount of id held by holder.
func (c *Chain) Balance(holder, id asset.ID) (u128.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stater.NewReadState().GetBalance(holder, id)
}

// GetReceipt returns the receipt of a transaction.
func (c *Chain) GetReceipt(id tx.ID) (*tx.Receipt, error) {
	if cached, ok := c.rcptCache.Get(id); ok {
		metricCacheHitMiss().AddWithLabel(1, map[string]string{"type": "receipt", "event": "hit"})
		return cached.(*tx.Receipt), nil
	}
	metricCacheHitMiss().AddWithLabel(1, map[string]string{"type": "receipt", "event": "miss"})

	data, err := c.receipts.Get(id[:])
	if err != nil {
		if c.receipts.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	receipt, err := tx.DecodeReceipt(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode receipt")
	}
	c.rcptCache.Add(id, receipt)
	return receipt, nil
}

// GetTransaction returns an executed transaction.
func (c *Chain) GetTransaction(id tx.ID) (*tx.Transaction, error) {
	data, err := c.txs.Get(id[:])
	if err != nil {
		if c.txs.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	var trx tx.Transaction
	if err := rlp.DecodeBytes(data, &trx); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &trx, nil
}
