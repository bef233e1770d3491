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

// Config is the immutable configuration written by initialize.
type Config struct {
	StartHeight    uint64
	EndHeight      uint64
	VaultTemplate  u128.Int
	RewardToken    asset.ID
	StakingToken   asset.ID
	MaxTotalStake  u128.Int
	CollectionName string
}

// ClaimDeadline is the first height at which rewards can no longer be
// claimed and the owner may withdraw what is left.
func (c *Config) ClaimDeadline() uint64 {
	if c.EndHeight > ^uint64(0)-ClaimWindowBlocks {
		return ^uint64(0)
	}
	return c.EndHeight + ClaimWindowBlocks
}

// configService stores the pool configuration.
type configService struct {
	startHeight    *storage.Slot[uint64]
	endHeight      *storage.Slot[uint64]
	vaultTemplate  *storage.Slot[u128.Int]
	rewardToken    *storage.Slot[asset.ID]
	stakingToken   *storage.Slot[asset.ID]
	maxTotalStake  *storage.Slot[u128.Int]
	collectionName *storage.Slot[string]
}

func newConfigService(sctx *storage.Context) *configService {
	return &configService{
		startHeight:    storage.NewUint64(sctx, "/start_height"),
		endHeight:      storage.NewUint64(sctx, "/end_height"),
		vaultTemplate:  storage.NewUint128(sctx, "/vault_template_id"),
		rewardToken:    storage.NewID(sctx, "/reward_token_id"),
		stakingToken:   storage.NewID(sctx, "/staking_token_id"),
		maxTotalStake:  storage.NewUint128(sctx, "/max_total_stake"),
		collectionName: storage.NewString(sctx, "/collection_name"),
	}
}

// IsConfigured reports whether a non-trivial initialize has run.
func (s *configService) IsConfigured() (bool, error) {
	end, err := s.endHeight.Get()
	return end != 0, err
}

func (s *configService) Get() (*Config, error) {
	var (
		cfg Config
		err error
	)
	if cfg.StartHeight, err = s.startHeight.Get(); err != nil {
		return nil, err
	}
	if cfg.EndHeight, err = s.endHeight.Get(); err != nil {
		return nil, err
	}
	if cfg.VaultTemplate, err = s.vaultTemplate.Get(); err != nil {
		return nil, err
	}
	if cfg.RewardToken, err = s.rewardToken.Get(); err != nil {
		return nil, err
	}
	if cfg.StakingToken, err = s.stakingToken.Get(); err != nil {
		return nil, err
	}
	if cfg.MaxTotalStake, err = s.maxTotalStake.Get(); err != nil {
		return nil, err
	}
	if cfg.CollectionName, err = s.collectionName.Get(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *configService) Set(cfg *Config) error {
	if err := s.rewardToken.Set(cfg.RewardToken); err != nil {
		return err
	}
	if err := s.stakingToken.Set(cfg.StakingToken); err != nil {
		return err
	}
	if err := s.vaultTemplate.Set(cfg.VaultTemplate); err != nil {
		return err
	}
	if err := s.maxTotalStake.Set(cfg.MaxTotalStake); err != nil {
		return err
	}
	if err := s.startHeight.Set(cfg.StartHeight); err != nil {
		return err
	}
	if err := s.endHeight.Set(cfg.EndHeight); err != nil {
		return err
	}
	return s.collectionName.Set(cfg.CollectionName)
}

func (s *configService) StakingToken() (asset.ID, error) {
	return s.stakingToken.Get()
}

func (s *configService) CollectionName() (string, error) {
	return s.collectionName.Get()
}
