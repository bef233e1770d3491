// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/storage"
	"github.com/vechain/stakepool/u128"
)

// Position is the record of one stake, keyed by the id of its vault.
// Positions are never deleted.
type Position struct {
	StakeBlock    uint64
	StakeAmount   u128.Int
	StakeBlocks   u128.Int
	ClaimedReward u128.Int
	// ExitBlock is the height of an early withdrawal, zero if none.
	ExitBlock uint64
}

// IsStaker reports whether the record belongs to an opened position.
func (p *Position) IsStaker() bool {
	return p.StakeBlock != 0 && !p.StakeAmount.IsZero()
}

// Exited reports whether the position was withdrawn before the end.
func (p *Position) Exited() bool {
	return p.ExitBlock != 0
}

// Weight returns amount × blocks. ok is false when the product overflows.
func (p *Position) Weight() (u128.Int, bool) {
	w, overflow := p.StakeBlocks.Mul(p.StakeAmount)
	return w, !overflow
}

type positionService struct {
	stakeBlock    *storage.Mapping[u128.Int]
	stakeAmount   *storage.Mapping[u128.Int]
	stakeBlocks   *storage.Mapping[u128.Int]
	claimedReward *storage.Mapping[u128.Int]
	exitBlock     *storage.Mapping[uint64]
}

func newPositionService(sctx *storage.Context) *positionService {
	return &positionService{
		stakeBlock:    storage.NewMapping[u128.Int](sctx, "/stake_block", storage.U128{}),
		stakeAmount:   storage.NewMapping[u128.Int](sctx, "/stake_amount", storage.U128{}),
		stakeBlocks:   storage.NewMapping[u128.Int](sctx, "/stake_blocks", storage.U128{}),
		claimedReward: storage.NewMapping[u128.Int](sctx, "/user_claimed_reward", storage.U128{}),
		exitBlock:     storage.NewMapping[uint64](sctx, "/user_exit_block", storage.U64{}),
	}
}

// Get loads the position of id. A missing position reads as zero.
func (s *positionService) Get(id asset.ID) (*Position, error) {
	var p Position

	block, err := s.stakeBlock.Get(id)
	if err != nil {
		return nil, err
	}
	if block.IsUint64() {
		p.StakeBlock = block.Uint64()
	} else {
		p.StakeBlock = ^uint64(0)
	}
	if p.StakeAmount, err = s.stakeAmount.Get(id); err != nil {
		return nil, err
	}
	if p.StakeBlocks, err = s.stakeBlocks.Get(id); err != nil {
		return nil, err
	}
	if p.ClaimedReward, err = s.claimedReward.Get(id); err != nil {
		return nil, err
	}
	if p.ExitBlock, err = s.exitBlock.Get(id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Open writes a new position.
func (s *positionService) Open(id asset.ID, p *Position) error {
	if err := s.stakeBlock.Set(id, u128.From64(p.StakeBlock)); err != nil {
		return err
	}
	if err := s.stakeAmount.Set(id, p.StakeAmount); err != nil {
		return err
	}
	return s.stakeBlocks.Set(id, p.StakeBlocks)
}

func (s *positionService) SetClaimed(id asset.ID, reward u128.Int) error {
	return s.claimedReward.Set(id, reward)
}

func (s *positionService) SetExited(id asset.ID, height uint64) error {
	return s.exitBlock.Set(id, height)
}
