// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool implements the staking pool contract. Stakers lock the
// staking asset until the end of the staking window and then claim a share
// of the funded reward proportional to amount × remaining blocks at the
// time they joined.
package pool

import (
	_ "embed"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/guard"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/storage"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/u128"
)

const (
	// ClaimWindowBlocks is the length of the claim window after the end
	// height, seven days of 144 blocks.
	ClaimWindowBlocks uint64 = 144 * 7
	// CollectionSymbol is the symbol of the pool and the prefix of vault symbols.
	CollectionSymbol = "SLP"
	// CollectionSuffix is appended to the staking asset name.
	CollectionSuffix = " Staking"
)

var logger = log.WithContext("pkg", "pool")

//go:embed assets/vault.png
var collectionImage []byte

// Image returns the image served for the collection and its vaults.
func Image() []byte {
	return append([]byte(nil), collectionImage...)
}

// Contract is the runtime entry point of the pool template.
var Contract runtime.Contract = runtime.ContractFunc(Execute)

// Execute decodes and runs one call.
func Execute(env runtime.Env) (*runtime.Response, error) {
	msg, err := Decode(env.Context().Inputs)
	if err != nil {
		metricCalls().AddWithLabel(1, map[string]string{"op": "invalid", "outcome": "reverted"})
		return nil, err
	}
	resp, err := New(env).Handle(msg)
	outcome := "success"
	if err != nil {
		outcome = "reverted"
	}
	metricCalls().AddWithLabel(1, map[string]string{"op": opName(msg), "outcome": outcome})
	return resp, err
}

// Pool implements the pool opcodes against one instance.
type Pool struct {
	env runtime.Env
	ctx *runtime.Context

	configService     *configService
	accountingService *accountingService
	positionService   *positionService
}

// New binds a pool to the running instance of env.
func New(env runtime.Env) *Pool {
	ctx := env.Context()
	sctx := storage.NewContext(ctx.Myself, env.State(), env.Fuel())
	return &Pool{
		env:               env,
		ctx:               ctx,
		configService:     newConfigService(sctx),
		accountingService: newAccountingService(sctx),
		positionService:   newPositionService(sctx),
	}
}

// Handle dispatches msg.
func (p *Pool) Handle(msg Message) (*runtime.Response, error) {
	switch m := msg.(type) {
	case Initialize:
		return p.Initialize(m)
	case Stake:
		return p.Stake()
	case Unstake:
		return p.Unstake()
	case Withdraw:
		return p.Withdraw()
	case GetName:
		return p.withData(p.Name())
	case GetSymbol:
		return p.withData([]byte(CollectionSymbol), nil)
	case GetTotalSupply:
		count, err := p.accountingService.StakingCount()
		return p.withData(count.BytesLE(), err)
	case GetCollectionIdentifier:
		return p.withData([]byte(p.ctx.Myself.String()), nil)
	case GetData:
		return p.withData(Image(), nil)
	case GetAttributes:
		return p.withData(p.Attributes())
	default:
		return nil, reverts.Newf(reverts.Configuration, "unhandled message %T", msg)
	}
}

//
// Initialization
//

// Initialize configures the pool. Zero heights or template leave the pool
// unconfigured and hand back the incoming assets.
func (p *Pool) Initialize(m Initialize) (*runtime.Response, error) {
	if err := p.env.ObserveInitialization(); err != nil {
		return nil, err
	}
	if m.StartHeight == 0 || m.EndHeight == 0 || m.VaultTemplate.IsZero() {
		logger.Debug("pool left unconfigured", "pool", p.ctx.Myself)
		return runtime.Forward(p.ctx), nil
	}

	name, err := p.stakingTokenName(m.StakingToken)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		StartHeight:    m.StartHeight,
		EndHeight:      m.EndHeight,
		VaultTemplate:  m.VaultTemplate,
		RewardToken:    m.RewardToken,
		StakingToken:   m.StakingToken,
		MaxTotalStake:  m.MaxTotalStake,
		CollectionName: name + CollectionSuffix,
	}
	if err := p.configService.Set(cfg); err != nil {
		return nil, err
	}

	reward, _, rest, overflow := p.ctx.Incoming.Partition(m.RewardToken)
	if overflow {
		return nil, reverts.NewRequireError(reverts.Capacity, "reward amount overflows")
	}
	if err := p.accountingService.Reset(reward); err != nil {
		return nil, err
	}

	logger.Debug("pool configured",
		"pool", p.ctx.Myself,
		"start", cfg.StartHeight,
		"end", cfg.EndHeight,
		"reward", reward,
		"collection", cfg.CollectionName,
	)
	return &runtime.Response{
		Parcel: append(rest, asset.Transfer{ID: p.ctx.Myself, Value: u128.One}),
	}, nil
}

func (p *Pool) stakingTokenName(token asset.ID) (string, error) {
	resp, err := p.env.StaticCall(token, []u128.Int{u128.From64(OpGetName)}, 0)
	if err != nil {
		return "", guard.External(err, "failed to query name of %s", token)
	}
	return guard.Text(resp.Data, "staking asset name")
}

// config loads the configuration, failing when the pool was never
// configured.
func (p *Pool) config() (*Config, error) {
	configured, err := p.configService.IsConfigured()
	if err != nil {
		return nil, err
	}
	if !configured {
		return nil, reverts.NewRequireError(reverts.Configuration, "pool is not configured")
	}
	return p.configService.Get()
}

//
// Staking
//

// Stake opens a position for the incoming staking asset and returns the
// vault that represents it.
func (p *Pool) Stake() (*runtime.Response, error) {
	cfg, err := p.config()
	if err != nil {
		return nil, err
	}

	amount, stakes, rest, overflow := p.ctx.Incoming.Partition(cfg.StakingToken)
	if overflow {
		return nil, reverts.NewRequireError(reverts.Capacity, "staked amount overflows")
	}
	if err := p.validateStake(cfg, amount); err != nil {
		return nil, err
	}

	index, err := p.accountingService.NextIndex()
	if err != nil {
		return nil, err
	}
	vault, err := p.createVault(cfg, index, stakes)
	if err != nil {
		return nil, err
	}

	height := p.ctx.Height
	pos := &Position{
		StakeBlock:  height,
		StakeAmount: amount,
		StakeBlocks: u128.From64(cfg.EndHeight - height),
	}
	if err := p.positionService.Open(vault.ID, pos); err != nil {
		return nil, err
	}
	if err := p.accountingService.AddPosition(pos.StakeBlocks, pos.StakeAmount); err != nil {
		return nil, err
	}

	logger.Debug("staked",
		"pool", p.ctx.Myself,
		"vault", vault.ID,
		"index", index,
		"amount", amount,
		"blocks", pos.StakeBlocks,
	)
	return &runtime.Response{Parcel: append(rest, vault)}, nil
}

func (p *Pool) validateStake(cfg *Config, amount u128.Int) error {
	height := p.ctx.Height
	if height < cfg.StartHeight {
		return reverts.NewRequireError(reverts.Window, "staking has not started yet")
	}
	// staking closes two blocks before the end
	if cfg.EndHeight < 2 || height > cfg.EndHeight-2 {
		return reverts.NewRequireError(reverts.Window, "staking period has ended")
	}
	if amount.IsZero() {
		return reverts.NewRequireError(reverts.State, "no staking asset supplied")
	}

	total, err := p.accountingService.StakeAmount()
	if err != nil {
		return err
	}
	next, overflow := total.Add(amount)
	if overflow || next.Cmp(cfg.MaxTotalStake) > 0 {
		return reverts.NewRequireError(reverts.Capacity, "total staking amount exceeds maximum limit")
	}
	return nil
}

// createVault instantiates the vault template, moving the staked assets to
// the new instance. The first transfer of the response must be a unit of
// the instance just created.
func (p *Pool) createVault(cfg *Config, index u128.Int, stakes asset.Parcel) (asset.Transfer, error) {
	factory := asset.ID{Block: asset.BlockFactory, Tx: cfg.VaultTemplate}
	inputs := []u128.Int{u128.Zero, index}

	resp, err := p.env.Call(factory, inputs, stakes, 0)
	if err != nil {
		return asset.Transfer{}, guard.External(err, "failed to create staking position")
	}
	if len(resp.Parcel) == 0 || resp.Parcel[0].ID != resp.Instance {
		return asset.Transfer{}, reverts.NewRequireError(reverts.ExternalCall, "failed to create staking position")
	}
	return resp.Parcel[0], nil
}

// Unstake closes the position of the caller. Before the end height it is an
// early withdrawal; inside the claim window the reward is paid once; after
// the window nothing is paid. The response data carries the staking asset
// id so that the vault can release the principal.
func (p *Pool) Unstake() (*runtime.Response, error) {
	cfg, err := p.config()
	if err != nil {
		return nil, err
	}

	caller := p.ctx.Caller
	pos, err := p.positionService.Get(caller)
	if err != nil {
		return nil, err
	}
	if !pos.IsStaker() {
		return nil, reverts.NewRequireError(reverts.State, "caller is not a staker")
	}
	if pos.Exited() {
		return nil, reverts.NewRequireError(reverts.State, "position was already withdrawn")
	}

	resp := runtime.Forward(p.ctx)
	height := p.ctx.Height

	switch {
	case height < cfg.EndHeight:
		if err := p.accountingService.RemovePosition(pos.StakeBlocks, pos.StakeAmount); err != nil {
			return nil, err
		}
		if err := p.positionService.SetExited(caller, height); err != nil {
			return nil, err
		}
		logger.Debug("early withdrawal", "pool", p.ctx.Myself, "vault", caller, "amount", pos.StakeAmount)
	case height < cfg.ClaimDeadline():
		if !pos.ClaimedReward.IsZero() {
			break
		}
		reward, err := p.calcReward(pos)
		if err != nil {
			return nil, err
		}
		if reward.IsZero() {
			break
		}
		resp.Parcel = append(resp.Parcel, asset.Transfer{ID: cfg.RewardToken, Value: reward})
		if err := p.positionService.SetClaimed(caller, reward); err != nil {
			return nil, err
		}
		logger.Debug("reward claimed", "pool", p.ctx.Myself, "vault", caller, "reward", reward)
	default:
		logger.Debug("unstaked after claim window", "pool", p.ctx.Myself, "vault", caller)
	}

	resp.Data = cfg.StakingToken.Bytes()
	return resp, nil
}

// Withdraw sweeps the remaining reward to the owner once the claim window
// is over.
func (p *Pool) Withdraw() (*runtime.Response, error) {
	if err := guard.OnlyOwner(p.ctx, "collection token"); err != nil {
		return nil, err
	}
	cfg, err := p.config()
	if err != nil {
		return nil, err
	}
	if p.ctx.Height < cfg.ClaimDeadline() {
		return nil, reverts.NewRequireError(reverts.Window, "hold on, stakers may still be claiming rewards")
	}

	balance, err := p.env.Balance(p.ctx.Myself, cfg.RewardToken)
	if err != nil {
		return nil, err
	}
	resp := runtime.Forward(p.ctx)
	if !balance.IsZero() {
		resp.Parcel = append(resp.Parcel, asset.Transfer{ID: cfg.RewardToken, Value: balance})
	}
	logger.Debug("reward withdrawn", "pool", p.ctx.Myself, "amount", balance)
	return resp, nil
}

// calcReward returns the entitlement of pos: its weight's share of the
// funded reward. It is zero when the product overflows or no weight is left.
func (p *Pool) calcReward(pos *Position) (u128.Int, error) {
	if pos.StakeBlocks.IsZero() || pos.StakeAmount.IsZero() || pos.Exited() {
		return u128.Zero, nil
	}
	totals, err := p.accountingService.Get()
	if err != nil {
		return u128.Zero, err
	}
	return Reward(pos, totals), nil
}

// Reward computes floor(weight × totals.RewardAmount / totals.StakeWeight).
func Reward(pos *Position, totals *Totals) u128.Int {
	weight, ok := pos.Weight()
	if !ok {
		return u128.Zero
	}
	reward, err := weight.MulDiv(totals.RewardAmount, totals.StakeWeight)
	if err != nil {
		return u128.Zero
	}
	return reward
}

//
// Metadata
//

// Name returns the collection name.
func (p *Pool) Name() ([]byte, error) {
	name, err := p.configService.CollectionName()
	return []byte(name), err
}

func (p *Pool) withData(data []byte, err error) (*runtime.Response, error) {
	if err != nil {
		return nil, err
	}
	resp := runtime.Forward(p.ctx)
	resp.Data = data
	return resp, nil
}
