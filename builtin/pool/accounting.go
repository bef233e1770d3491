// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/stakepool/builtin/storage"
	"github.com/vechain/stakepool/u128"
)

// Totals are the pool-wide aggregates. Blocks, amount and weight only cover
// positions that were not withdrawn early.
type Totals struct {
	StakingCount u128.Int
	StakeBlocks  u128.Int
	StakeAmount  u128.Int
	StakeWeight  u128.Int
	RewardAmount u128.Int
}

// accountingService manages the pool-wide totals.
type accountingService struct {
	stakingCount *storage.Slot[u128.Int]
	stakeBlocks  *storage.Slot[u128.Int]
	stakeAmount  *storage.Slot[u128.Int]
	stakeWeight  *storage.Slot[u128.Int]
	rewardAmount *storage.Slot[u128.Int]
}

func newAccountingService(sctx *storage.Context) *accountingService {
	return &accountingService{
		stakingCount: storage.NewUint128(sctx, "/staking_count"),
		stakeBlocks:  storage.NewUint128(sctx, "/total_stake_blocks"),
		stakeAmount:  storage.NewUint128(sctx, "/total_stake_amount"),
		stakeWeight:  storage.NewUint128(sctx, "/total_stake_weight"),
		rewardAmount: storage.NewUint128(sctx, "/total_reward_amount"),
	}
}

// Reset zeroes the totals and records the funded reward.
func (s *accountingService) Reset(reward u128.Int) error {
	if err := s.rewardAmount.Set(reward); err != nil {
		return err
	}
	for _, slot := range []*storage.Slot[u128.Int]{s.stakingCount, s.stakeBlocks, s.stakeAmount, s.stakeWeight} {
		if err := slot.Set(u128.Zero); err != nil {
			return err
		}
	}
	return nil
}

func (s *accountingService) Get() (*Totals, error) {
	var (
		t   Totals
		err error
	)
	if t.StakingCount, err = s.stakingCount.Get(); err != nil {
		return nil, err
	}
	if t.StakeBlocks, err = s.stakeBlocks.Get(); err != nil {
		return nil, err
	}
	if t.StakeAmount, err = s.stakeAmount.Get(); err != nil {
		return nil, err
	}
	if t.StakeWeight, err = s.stakeWeight.Get(); err != nil {
		return nil, err
	}
	if t.RewardAmount, err = s.rewardAmount.Get(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *accountingService) StakingCount() (u128.Int, error) {
	return s.stakingCount.Get()
}

func (s *accountingService) StakeAmount() (u128.Int, error) {
	return s.stakeAmount.Get()
}

// NextIndex bumps the staking count and returns it. The sequence restarts
// at 1 when it would overflow.
func (s *accountingService) NextIndex() (u128.Int, error) {
	count, err := s.stakingCount.Get()
	if err != nil {
		return u128.Zero, err
	}
	next, overflow := count.Add(u128.One)
	if overflow {
		next = u128.One
	}
	return next, s.stakingCount.Set(next)
}

// AddPosition adds the contribution of a new position.
func (s *accountingService) AddPosition(blocks, amount u128.Int) error {
	if err := storage.AddSaturating(s.stakeBlocks, blocks); err != nil {
		return err
	}
	if err := storage.AddSaturating(s.stakeAmount, amount); err != nil {
		return err
	}
	return storage.AddSaturating(s.stakeWeight, blocks.SaturatingMul(amount))
}

// RemovePosition takes back the contribution of a position leaving early.
func (s *accountingService) RemovePosition(blocks, amount u128.Int) error {
	if err := storage.SubSaturating(s.stakeBlocks, blocks); err != nil {
		return err
	}
	if err := storage.SubSaturating(s.stakeAmount, amount); err != nil {
		return err
	}
	return storage.SubSaturating(s.stakeWeight, blocks.SaturatingMul(amount))
}
