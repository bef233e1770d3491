// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/pool"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

func M(a ...any) []any {
	return a
}

var (
	accounts = genesis.DevAccounts()
	owner    = accounts[0]
	alice    = accounts[1]
	bob      = accounts[2]
	carol    = accounts[3]
)

var defaultParams = testchain.PoolParams{
	StartHeight:   100,
	EndHeight:     1100,
	MaxTotalStake: u128.From64(1000),
	Reward:        u128.From64(500),
}

func newPool(t *testing.T, params testchain.PoolParams) (*testchain.Chain, asset.ID) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { tc.Close() })

	poolID, err := tc.DeployPool(1, owner, params)
	require.NoError(t, err)
	return tc, poolID
}

func query(t *testing.T, tc *testchain.Chain, caller, target asset.ID, op uint64) []byte {
	resp, err := tc.Query(caller, target, []u128.Int{u128.From64(op)})
	require.NoError(t, err)
	return resp.Data
}

func mustStake(t *testing.T, tc *testchain.Chain, height uint64, staker, poolID asset.ID, amount uint64) asset.ID {
	vault, r, err := tc.Stake(height, staker, poolID, u128.From64(amount))
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	return vault
}

func slot(t *testing.T, tc *testchain.Chain, poolID asset.ID, key string) u128.Int {
	raw, err := tc.NewState().GetStorage(poolID, []byte(key))
	require.NoError(t, err)
	return u128.FromBytesLE(raw)
}

func totalWeight(t *testing.T, tc *testchain.Chain, poolID asset.ID) u128.Int {
	return slot(t, tc, poolID, "/total_stake_weight")
}

// totals returns the stake weight, amount and blocks summed by the pool.
func totals(t *testing.T, tc *testchain.Chain, poolID asset.ID) []u128.Int {
	return []u128.Int{
		totalWeight(t, tc, poolID),
		slot(t, tc, poolID, "/total_stake_amount"),
		slot(t, tc, poolID, "/total_stake_blocks"),
	}
}

func sums(weight, amount, blocks uint64) []u128.Int {
	return []u128.Int{u128.From64(weight), u128.From64(amount), u128.From64(blocks)}
}

func TestScenario(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)

	assert.Equal(t, u128.One, tc.MustBalance(owner, poolID))
	assert.Equal(t, u128.From64(500), tc.MustBalance(owner, tc.Reward))
	assert.Equal(t, u128.From64(500), tc.MustBalance(poolID, tc.Reward))

	vaultA := mustStake(t, tc, 200, alice, poolID, 200)
	vaultB := mustStake(t, tc, 600, bob, poolID, 300)

	tests := []struct {
		ret      any
		expected any
	}{
		{tc.MustBalance(alice, vaultA), u128.One},
		{tc.MustBalance(alice, tc.Staking), u128.From64(800)},
		{tc.MustBalance(vaultA, tc.Staking), u128.From64(200)},
		{tc.MustBalance(vaultB, tc.Staking), u128.From64(300)},
		{tc.MustBalance(poolID, tc.Staking), u128.Zero},
		{totalWeight(t, tc, poolID), u128.From64(330000)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}

	attrs, err := tc.Attributes(vaultA, poolID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"stake_block":200,"stake_amount":"200","stake_blocks":"900","total_reward":"272","claimed_reward":"0"}`, attrs)

	attrs, err = tc.Attributes(alice, poolID)
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`{
		"start_block":100,"end_block":1100,
		"staking_token":"%s","reward_token":"%s",
		"max_total_stake":"1000","total_stake_amount":"500",
		"total_reward_amount":"500","claimable_reward_amount":"500"
	}`, tc.Staking, tc.Reward), attrs)

	// claims at the end height
	r, err := tc.Unstake(1100, alice, vaultA)
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	assert.Equal(t, asset.Parcel{
		{ID: tc.Reward, Value: u128.From64(272)},
		{ID: tc.Staking, Value: u128.From64(200)},
	}, r.Parcel)

	r, err = tc.Unstake(1101, bob, vaultB)
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	assert.Equal(t, asset.Parcel{
		{ID: tc.Reward, Value: u128.From64(227)},
		{ID: tc.Staking, Value: u128.From64(300)},
	}, r.Parcel)

	tests = []struct {
		ret      any
		expected any
	}{
		{tc.MustBalance(alice, tc.Reward), u128.From64(1272)},
		{tc.MustBalance(alice, tc.Staking), u128.From64(1000)},
		{tc.MustBalance(bob, tc.Reward), u128.From64(1227)},
		{tc.MustBalance(bob, tc.Staking), u128.From64(1000)},
		{tc.MustBalance(alice, vaultA), u128.Zero},
		{tc.MustBalance(poolID, tc.Reward), u128.One},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}

	// the vault proxies the attributes of its own position
	attrs, err = tc.Attributes(alice, vaultA)
	require.NoError(t, err)
	assert.JSONEq(t, `{"stake_block":200,"stake_amount":"200","stake_blocks":"900","total_reward":"272","claimed_reward":"272"}`, attrs)

	// the owner sweeps the rounding dust after the claim window
	r, err = tc.Withdraw(1100+pool.ClaimWindowBlocks-1, owner, poolID)
	require.NoError(t, err)
	assert.True(t, r.Reverted)
	assert.Equal(t, "window", r.RevertKind)

	r, err = tc.Withdraw(1100+pool.ClaimWindowBlocks, owner, poolID)
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	assert.Equal(t, asset.Parcel{
		{ID: poolID, Value: u128.One},
		{ID: tc.Reward, Value: u128.One},
	}, r.Parcel)
	assert.Equal(t, u128.From64(501), tc.MustBalance(owner, tc.Reward))
	assert.Equal(t, u128.Zero, tc.MustBalance(poolID, tc.Reward))
}

func TestStakingWindow(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)

	_, r, err := tc.Stake(99, alice, poolID, u128.From64(10))
	require.NoError(t, err)
	assert.Equal(t, M(true, "window"), M(r.Reverted, r.RevertKind))

	vault := mustStake(t, tc, 100, alice, poolID, 10)
	late := mustStake(t, tc, 1098, bob, poolID, 10)

	_, r, err = tc.Stake(1099, carol, poolID, u128.From64(10))
	require.NoError(t, err)
	assert.Equal(t, M(true, "window"), M(r.Reverted, r.RevertKind))
	assert.Equal(t, u128.From64(1000), tc.MustBalance(carol, tc.Staking))

	attrs, err := tc.Attributes(late, poolID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"stake_block":1098,"stake_amount":"10","stake_blocks":"2","total_reward":"0","claimed_reward":"0"}`, attrs)

	// past the claim window only the principal comes back
	r, err = tc.Unstake(1100+pool.ClaimWindowBlocks, alice, vault)
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	assert.Equal(t, asset.Parcel{{ID: tc.Staking, Value: u128.From64(10)}}, r.Parcel)
	assert.Equal(t, u128.From64(1000), tc.MustBalance(alice, tc.Reward))
	assert.Equal(t, u128.From64(500), tc.MustBalance(poolID, tc.Reward))
}

func TestCapEnforcement(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)

	mustStake(t, tc, 200, alice, poolID, 600)

	_, r, err := tc.Stake(201, bob, poolID, u128.From64(401))
	require.NoError(t, err)
	assert.Equal(t, M(true, "capacity"), M(r.Reverted, r.RevertKind))
	assert.Equal(t, u128.From64(1000), tc.MustBalance(bob, tc.Staking))
	assert.Equal(t, u128.From64(540000), totalWeight(t, tc, poolID))

	count := query(t, tc, alice, poolID, pool.OpGetTotalSupply)
	assert.Equal(t, u128.One, u128.FromBytesLE(count))

	// filling up to the cap exactly is fine
	mustStake(t, tc, 202, bob, poolID, 400)

	_, r, err = tc.Stake(203, carol, poolID, u128.One)
	require.NoError(t, err)
	assert.Equal(t, M(true, "capacity"), M(r.Reverted, r.RevertKind))

	// staking nothing is rejected
	r, err = tc.Send(204, tx.NewBuilder(carol, poolID).Opcode(pool.OpStake))
	require.NoError(t, err)
	assert.Equal(t, M(true, "state"), M(r.Reverted, r.RevertKind))
}

func TestSingleShotClaim(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)

	vaultA := mustStake(t, tc, 200, alice, poolID, 200)
	mustStake(t, tc, 600, bob, poolID, 300)

	r, err := tc.Unstake(1100, alice, vaultA)
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)

	// the receipt was consumed by the vault
	r, err = tc.Unstake(1101, alice, vaultA)
	require.NoError(t, err)
	assert.True(t, r.Reverted)
	assert.Equal(t, u128.From64(228), tc.MustBalance(poolID, tc.Reward))

	// nobody can ask the pool directly on behalf of the vault
	_, err = tc.Send(1102, tx.NewBuilder(vaultA, poolID).Opcode(pool.OpUnstake))
	assert.ErrorIs(t, err, runtime.ErrInvalidCaller)
	assert.Equal(t, u128.From64(228), tc.MustBalance(poolID, tc.Reward))
	assert.Equal(t, u128.Zero, tc.MustBalance(vaultA, tc.Reward))

	// not a staker
	r, err = tc.Send(1103, tx.NewBuilder(alice, poolID).Opcode(pool.OpUnstake))
	require.NoError(t, err)
	assert.Equal(t, M(true, "state"), M(r.Reverted, r.RevertKind))
}

func TestEarlyWithdrawal(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)

	vaultA := mustStake(t, tc, 200, alice, poolID, 200)
	vaultC := mustStake(t, tc, 300, carol, poolID, 100)
	vaultB := mustStake(t, tc, 600, bob, poolID, 300)
	assert.Equal(t, sums(180000+80000+150000, 200+100+300, 900+800+500), totals(t, tc, poolID))

	r, err := tc.Unstake(700, carol, vaultC)
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	assert.Equal(t, asset.Parcel{{ID: tc.Staking, Value: u128.From64(100)}}, r.Parcel)
	assert.Equal(t, sums(330000, 500, 1400), totals(t, tc, poolID))
	assert.Equal(t, u128.From64(1000), tc.MustBalance(carol, tc.Staking))

	// the withdrawn position is kept for reporting but earns nothing
	attrs, err := tc.Attributes(vaultC, poolID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"stake_block":300,"stake_amount":"100","stake_blocks":"800","total_reward":"0","claimed_reward":"0"}`, attrs)

	// and cannot leave twice
	r, err = tc.Unstake(701, carol, vaultC)
	require.NoError(t, err)
	assert.True(t, r.Reverted)
	_, err = tc.Send(701, tx.NewBuilder(vaultC, poolID).Opcode(pool.OpUnstake))
	assert.ErrorIs(t, err, runtime.ErrInvalidCaller)
	assert.Equal(t, sums(330000, 500, 1400), totals(t, tc, poolID))

	for _, tt := range []struct {
		holder, vault asset.ID
		reward        uint64
	}{
		{alice, vaultA, 272},
		{bob, vaultB, 227},
	} {
		r, err := tc.Unstake(1100, tt.holder, tt.vault)
		require.NoError(t, err)
		require.False(t, r.Reverted, r.RevertReason)
		assert.Equal(t, u128.From64(tt.reward), r.Parcel.Amount(tc.Reward))
	}
}

func TestVaultOnlyUnstake(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)

	vaultA := mustStake(t, tc, 200, alice, poolID, 200)
	mustStake(t, tc, 600, bob, poolID, 300)

	// a transaction naming the vault as caller would exit the position
	// early or pull the reward into the vault
	for _, height := range []uint64{300, 1100} {
		_, err := tc.Send(height, tx.NewBuilder(vaultA, poolID).Opcode(pool.OpUnstake))
		assert.ErrorIs(t, err, runtime.ErrInvalidCaller)
	}
	assert.Equal(t, u128.From64(330000), totalWeight(t, tc, poolID))
	assert.Equal(t, u128.From64(200), tc.MustBalance(vaultA, tc.Staking))

	// the holder still gets principal and reward
	r, err := tc.Unstake(1100, alice, vaultA)
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	assert.Equal(t, asset.Parcel{
		{ID: tc.Reward, Value: u128.From64(272)},
		{ID: tc.Staking, Value: u128.From64(200)},
	}, r.Parcel)
	assert.Equal(t, u128.From64(1000), tc.MustBalance(alice, tc.Staking))
	assert.Equal(t, u128.Zero, tc.MustBalance(vaultA, tc.Staking))
}

func TestWeightConservation(t *testing.T) {
	params := defaultParams
	params.MaxTotalStake = u128.Max
	tc, poolID := newPool(t, params)

	type position struct {
		holder, vault  asset.ID
		amount, blocks uint64
	}
	var (
		open                   []position
		weight, amount, blocks uint64
		height                 uint64 = 100
	)
	for range 40 {
		height += datagen.RandUint64N(1, 20)
		if height > 1098 {
			break
		}
		if len(open) > 0 && datagen.RandIntN(3) == 0 {
			i := datagen.RandIntN(len(open))
			p := open[i]
			r, err := tc.Unstake(height, p.holder, p.vault)
			require.NoError(t, err)
			require.False(t, r.Reverted, r.RevertReason)
			weight -= p.amount * p.blocks
			amount -= p.amount
			blocks -= p.blocks
			open = append(open[:i], open[i+1:]...)
		} else {
			p := position{
				holder: accounts[datagen.RandIntN(len(accounts))],
				amount: datagen.RandUint64N(1, 20),
				blocks: 1100 - height,
			}
			p.vault = mustStake(t, tc, height, p.holder, poolID, p.amount)
			weight += p.amount * p.blocks
			amount += p.amount
			blocks += p.blocks
			open = append(open, p)
		}
		require.Equal(t, sums(weight, amount, blocks), totals(t, tc, poolID))
	}

	// every remaining position claims; the pool never pays more than funded
	var paid uint64
	for _, p := range open {
		r, err := tc.Unstake(1100, p.holder, p.vault)
		require.NoError(t, err)
		require.False(t, r.Reverted, r.RevertReason)
		paid += r.Parcel.Amount(tc.Reward).Uint64()
	}
	assert.LessOrEqual(t, paid, uint64(500))
	if len(open) > 0 {
		assert.LessOrEqual(t, uint64(500)-paid, uint64(len(open)))
	}
}

func TestOnlyOwner(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)
	height := 1100 + pool.ClaimWindowBlocks

	tests := []struct {
		name   string
		parcel asset.Parcel
	}{
		{"nothing", nil},
		{"wrong asset", asset.Parcel{{ID: tc.Reward, Value: u128.One}}},
		{"extra asset", asset.Parcel{{ID: poolID, Value: u128.One}, {ID: tc.Reward, Value: u128.One}}},
	}
	for _, tt := range tests {
		r, err := tc.Send(height, tx.NewBuilder(owner, poolID).Opcode(pool.OpWithdraw).Parcel(tt.parcel))
		require.NoError(t, err)
		assert.Equal(t, M(true, "authorization"), M(r.Reverted, r.RevertKind), tt.name)
	}
	assert.Equal(t, u128.From64(500), tc.MustBalance(poolID, tc.Reward))
}

func TestInitialization(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)

	// a second initialize is rejected
	msg := pool.Initialize{StartHeight: 1, EndHeight: 2, VaultTemplate: builtin.Vault.Number}
	r, err := tc.Send(2, tx.NewBuilder(owner, poolID).Input(pool.Inputs(msg)...))
	require.NoError(t, err)
	assert.Equal(t, M(true, "configuration"), M(r.Reverted, r.RevertKind))

	// zero heights leave the pool unconfigured and hand back the assets
	r, err = tc.Send(3, tx.NewBuilder(owner, builtin.Pool.Factory()).
		Input(pool.Inputs(pool.Initialize{})...).
		Transfer(tc.Reward, u128.From64(10)))
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	assert.Equal(t, asset.Parcel{{ID: tc.Reward, Value: u128.From64(10)}}, r.Parcel)
	require.Len(t, r.Created, 1)
	idle := r.Created[0]

	_, r, err = tc.Stake(200, alice, idle, u128.From64(10))
	require.NoError(t, err)
	assert.Equal(t, M(true, "configuration"), M(r.Reverted, r.RevertKind))

	// funds other than the reward are passed through
	params := defaultParams
	params.Reward = u128.From64(100)
	other, err := tc.DeployPool(201, owner, params)
	require.NoError(t, err)
	r, err = tc.Send(202, tx.NewBuilder(owner, builtin.Pool.Factory()).
		Input(pool.Inputs(pool.Initialize{
			StartHeight:   100,
			EndHeight:     1100,
			VaultTemplate: builtin.Vault.Number,
			RewardToken:   tc.Reward,
			StakingToken:  tc.Staking,
			MaxTotalStake: u128.From64(1),
		})...).
		Transfer(tc.Reward, u128.From64(7)).
		Transfer(other, u128.One))
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	assert.Equal(t, asset.Parcel{
		{ID: other, Value: u128.One},
		{ID: r.Created[0], Value: u128.One},
	}, r.Parcel)

	// a staking asset without a name cannot back a pool
	r, err = tc.Send(203, tx.NewBuilder(owner, builtin.Pool.Factory()).
		Input(pool.Inputs(pool.Initialize{
			StartHeight:   100,
			EndHeight:     1100,
			VaultTemplate: builtin.Vault.Number,
			RewardToken:   tc.Reward,
			StakingToken:  asset.NewID(2, 999),
		})...))
	require.NoError(t, err)
	assert.Equal(t, M(true, "external-call"), M(r.Reverted, r.RevertKind))
}

func TestVaultMustBeCreatedInstance(t *testing.T) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { tc.Close() })

	// the token template answers its initializer with the incoming stake
	// first, so the first transfer is not the new instance
	r, err := tc.Send(1, tx.NewBuilder(owner, builtin.Pool.Factory()).
		Input(pool.Inputs(pool.Initialize{
			StartHeight:   100,
			EndHeight:     1100,
			VaultTemplate: builtin.Token.Number,
			RewardToken:   tc.Reward,
			StakingToken:  tc.Staking,
			MaxTotalStake: u128.From64(1000),
		})...).
		Transfer(tc.Reward, u128.From64(500)))
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	poolID := r.Created[0]

	vault, r, err := tc.Stake(200, alice, poolID, u128.From64(10))
	require.NoError(t, err)
	assert.Equal(t, M(true, "external-call"), M(r.Reverted, r.RevertKind))
	assert.Equal(t, asset.ID{}, vault)
	assert.Equal(t, u128.From64(1000), tc.MustBalance(alice, tc.Staking))
	assert.Equal(t, sums(0, 0, 0), totals(t, tc, poolID))
}

func TestMetadata(t *testing.T) {
	tc, poolID := newPool(t, defaultParams)
	vault := mustStake(t, tc, 200, alice, poolID, 10)
	mustStake(t, tc, 201, bob, poolID, 10)

	tests := []struct {
		ret      any
		expected any
	}{
		{string(query(t, tc, alice, poolID, pool.OpGetName)), "DIESEL Staking"},
		{string(query(t, tc, alice, poolID, pool.OpGetSymbol)), "SLP"},
		{u128.FromBytesLE(query(t, tc, alice, poolID, pool.OpGetTotalSupply)), u128.From64(2)},
		{string(query(t, tc, alice, poolID, pool.OpGetCollectionIdentifier)), poolID.String()},
		{query(t, tc, alice, poolID, pool.OpGetData), pool.Image()},
		{string(query(t, tc, alice, vault, 99)), "DIESEL Staking #1"},
		{string(query(t, tc, alice, vault, 100)), "SLP #1"},
		{u128.FromBytesLE(query(t, tc, alice, vault, 101)), u128.One},
		{string(query(t, tc, alice, vault, 998)), poolID.String()},
		{u128.FromBytesLE(query(t, tc, alice, vault, 999)), u128.One},
		{query(t, tc, alice, vault, 1000), pool.Image()},
		{string(query(t, tc, alice, vault, 1001)), "image/png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}

	_, err := tc.Query(alice, poolID, []u128.Int{u128.From64(7)})
	assert.ErrorContains(t, err, "unknown opcode 7")
}
