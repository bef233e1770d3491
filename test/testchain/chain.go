// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain wires an in-memory chain with genesis tokens and
// helpers to drive pools from tests.
package testchain

import (
	"fmt"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/pool"
	"github.com/vechain/stakepool/builtin/vault"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

// Chain is a chain over an in-memory store with two genesis tokens.
type Chain struct {
	*chain.Chain

	db *lvldb.LevelDB
	// Staking and Reward are the genesis tokens.
	Staking asset.ID
	Reward  asset.ID
}

// DefaultGenesis is the development genesis.
func DefaultGenesis() *genesis.Genesis {
	return genesis.Dev()
}

// NewDefault creates a Chain with DefaultGenesis.
func NewDefault() (*Chain, error) {
	return New(DefaultGenesis())
}

// New creates a Chain. The first two genesis tokens become the staking and
// reward assets.
func New(gene *genesis.Genesis) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	ids, err := gene.Build(db)
	if err != nil {
		return nil, err
	}
	c, err := chain.New(db, builtin.Registry{}, chain.Options{})
	if err != nil {
		return nil, err
	}
	tc := &Chain{Chain: c, db: db}
	if len(ids) > 0 {
		tc.Staking = ids[0]
	}
	if len(ids) > 1 {
		tc.Reward = ids[1]
	}
	return tc, nil
}

// Close releases the store.
func (c *Chain) Close() error {
	return c.db.Close()
}

// Send executes a call at height, failing on host errors but not on
// reverts.
func (c *Chain) Send(height uint64, b *tx.Builder) (*tx.Receipt, error) {
	return c.ExecuteAt(height, b.Nonce(datagen.RandUint64()).Build())
}

// mustSucceed turns a reverted receipt into an error.
func mustSucceed(r *tx.Receipt, err error) (*tx.Receipt, error) {
	if err != nil {
		return nil, err
	}
	if r.Reverted {
		return r, fmt.Errorf("reverted (%s): %s", r.RevertKind, r.RevertReason)
	}
	return r, nil
}

// PoolParams configures DeployPool.
type PoolParams struct {
	StartHeight   uint64
	EndHeight     uint64
	MaxTotalStake u128.Int
	Reward        u128.Int
}

// DeployPool creates and configures a pool funded by owner. It returns the
// pool id; the owner receives the pool's owner token.
func (c *Chain) DeployPool(height uint64, owner asset.ID, p PoolParams) (asset.ID, error) {
	msg := pool.Initialize{
		StartHeight:   p.StartHeight,
		EndHeight:     p.EndHeight,
		VaultTemplate: builtin.Vault.Number,
		RewardToken:   c.Reward,
		StakingToken:  c.Staking,
		MaxTotalStake: p.MaxTotalStake,
	}
	b := tx.NewBuilder(owner, builtin.Pool.Factory()).Input(pool.Inputs(msg)...)
	if !p.Reward.IsZero() {
		b.Transfer(c.Reward, p.Reward)
	}
	r, err := mustSucceed(c.Send(height, b))
	if err != nil {
		return asset.ID{}, err
	}
	if len(r.Created) == 0 {
		return asset.ID{}, fmt.Errorf("no pool created")
	}
	return r.Created[0], nil
}

// Stake stakes amount of the staking token and returns the vault id.
func (c *Chain) Stake(height uint64, staker, poolID asset.ID, amount u128.Int) (asset.ID, *tx.Receipt, error) {
	b := tx.NewBuilder(staker, poolID).Opcode(pool.OpStake).Transfer(c.Staking, amount)
	r, err := c.Send(height, b)
	if err != nil {
		return asset.ID{}, nil, err
	}
	if r.Reverted || len(r.Created) == 0 {
		return asset.ID{}, r, nil
	}
	return r.Created[0], r, nil
}

// Unstake presents the vault receipt held by holder.
func (c *Chain) Unstake(height uint64, holder, vaultID asset.ID) (*tx.Receipt, error) {
	b := tx.NewBuilder(holder, vaultID).Opcode(vault.OpUnstake).Transfer(vaultID, u128.One)
	return c.Send(height, b)
}

// Withdraw sweeps the pool reward with the owner token.
func (c *Chain) Withdraw(height uint64, owner, poolID asset.ID) (*tx.Receipt, error) {
	b := tx.NewBuilder(owner, poolID).Opcode(pool.OpWithdraw).Transfer(poolID, u128.One)
	return c.Send(height, b)
}

// Attributes queries the attributes document of target as seen by caller.
func (c *Chain) Attributes(caller, target asset.ID) (string, error) {
	resp, err := c.Query(caller, target, []u128.Int{u128.From64(pool.OpGetAttributes)})
	if err != nil {
		return "", err
	}
	return string(resp.Data), nil
}

// MustBalance returns the balance or panics.
func (c *Chain) MustBalance(holder, id asset.ID) u128.Int {
	b, err := c.Balance(holder, id)
	if err != nil {
		panic(err)
	}
	return b
}
