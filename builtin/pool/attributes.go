// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/u128"
)

// PoolAttributes is rendered for callers without a position.
type PoolAttributes struct {
	StartBlock            uint64   `json:"start_block"`
	EndBlock              uint64   `json:"end_block"`
	StakingToken          asset.ID `json:"staking_token"`
	RewardToken           asset.ID `json:"reward_token"`
	MaxTotalStake         u128.Int `json:"max_total_stake"`
	TotalStakeAmount      u128.Int `json:"total_stake_amount"`
	TotalRewardAmount     u128.Int `json:"total_reward_amount"`
	ClaimableRewardAmount u128.Int `json:"claimable_reward_amount"`
}

// PositionAttributes is rendered for a caller holding a position.
type PositionAttributes struct {
	StakeBlock    uint64   `json:"stake_block"`
	StakeAmount   u128.Int `json:"stake_amount"`
	StakeBlocks   u128.Int `json:"stake_blocks"`
	TotalReward   u128.Int `json:"total_reward"`
	ClaimedReward u128.Int `json:"claimed_reward"`
}

// Attributes returns the JSON document describing the caller's position,
// or the pool itself when the caller is not a staker.
func (p *Pool) Attributes() ([]byte, error) {
	pos, err := p.positionService.Get(p.ctx.Caller)
	if err != nil {
		return nil, err
	}
	if pos.IsStaker() {
		reward, err := p.calcReward(pos)
		if err != nil {
			return nil, err
		}
		return marshal(&PositionAttributes{
			StakeBlock:    pos.StakeBlock,
			StakeAmount:   pos.StakeAmount,
			StakeBlocks:   pos.StakeBlocks,
			TotalReward:   reward,
			ClaimedReward: pos.ClaimedReward,
		})
	}

	cfg, err := p.configService.Get()
	if err != nil {
		return nil, err
	}
	totals, err := p.accountingService.Get()
	if err != nil {
		return nil, err
	}
	claimable, err := p.env.Balance(p.ctx.Myself, cfg.RewardToken)
	if err != nil {
		return nil, err
	}
	return marshal(&PoolAttributes{
		StartBlock:            cfg.StartHeight,
		EndBlock:              cfg.EndHeight,
		StakingToken:          cfg.StakingToken,
		RewardToken:           cfg.RewardToken,
		MaxTotalStake:         cfg.MaxTotalStake,
		TotalStakeAmount:      totals.StakeAmount,
		TotalRewardAmount:     totals.RewardAmount,
		ClaimableRewardAmount: claimable,
	})
}

func marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	return data, errors.Wrap(err, "marshal attributes")
}
