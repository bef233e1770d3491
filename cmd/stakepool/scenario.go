// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/pool"
	"github.com/vechain/stakepool/builtin/vault"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

// Scenario is a genesis, a set of pools and the steps replayed against them.
type Scenario struct {
	Genesis *genesis.Genesis `yaml:"genesis"`
	Pools   []PoolSpec       `yaml:"pools"`
	Steps   []Step           `yaml:"steps"`
}

// PoolSpec deploys a pool. Zero tokens default to the first two genesis
// tokens.
type PoolSpec struct {
	Name          string   `yaml:"name"`
	Owner         asset.ID `yaml:"owner"`
	Height        uint64   `yaml:"height"`
	StartHeight   uint64   `yaml:"startHeight"`
	EndHeight     uint64   `yaml:"endHeight"`
	MaxTotalStake u128.Int `yaml:"maxTotalStake"`
	Reward        u128.Int `yaml:"reward"`
	StakingToken  asset.ID `yaml:"stakingToken"`
	RewardToken   asset.ID `yaml:"rewardToken"`
}

// Step is one action. A zero height runs the step at the next height.
type Step struct {
	Height uint64   `yaml:"height"`
	Action string   `yaml:"action"`
	Caller asset.ID `yaml:"caller"`

	// stake, withdraw
	Pool   string   `yaml:"pool"`
	Amount u128.Int `yaml:"amount"`
	As     string   `yaml:"as"`
	// unstake
	Vault string `yaml:"vault"`
	// call, query
	Target asset.ID     `yaml:"target"`
	Inputs []u128.Int   `yaml:"inputs"`
	Parcel asset.Parcel `yaml:"parcel"`
	// balance
	Holder asset.ID `yaml:"holder"`
	Asset  asset.ID `yaml:"asset"`

	// ok or reverted, unchecked if empty
	Expect string `yaml:"expect"`
}

func decodeScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	return &s, nil
}

type runner struct {
	chain     *chain.Chain
	out       io.Writer
	dump      bool
	fuelLimit uint64

	tokens []asset.ID
	pools  map[string]asset.ID
	vaults map[string]asset.ID
	nonce  uint64
}

func runAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.NArg() != 1 {
		return errors.New("scenario file required")
	}
	file, err := os.Open(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "open scenario")
	}
	defer file.Close()

	s, err := decodeScenario(file)
	if err != nil {
		return err
	}
	return runScenario(s, os.Stdout, ctx.Uint64(fuelLimitFlag.Name), ctx.Bool(dumpFlag.Name))
}

// runScenario replays s on an in-memory chain, writing a line per step.
func runScenario(s *Scenario, out io.Writer, fuelLimit uint64, dump bool) error {
	db, err := lvldb.NewMem()
	if err != nil {
		return err
	}
	defer db.Close()

	gene := s.Genesis
	if gene == nil {
		gene = genesis.Dev()
	}
	tokens, err := gene.Build(db)
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	c, err := chain.New(db, builtin.Registry{}, chain.Options{QueryFuelLimit: fuelLimit})
	if err != nil {
		return err
	}

	r := &runner{
		chain:     c,
		out:       out,
		dump:      dump,
		fuelLimit: fuelLimit,
		tokens:    tokens,
		pools:     make(map[string]asset.ID),
		vaults:    make(map[string]asset.ID),
	}
	for _, p := range s.Pools {
		if err := r.deploy(p); err != nil {
			return errors.Wrapf(err, "pool %q", p.Name)
		}
	}
	for i, step := range s.Steps {
		if err := r.step(step); err != nil {
			return errors.Wrapf(err, "step #%d (%s)", i, step.Action)
		}
	}
	return nil
}

func (r *runner) token(id asset.ID, index int) (asset.ID, error) {
	if !id.IsZero() {
		return id, nil
	}
	if index >= len(r.tokens) {
		return asset.ID{}, errors.Errorf("genesis has no token #%d", index)
	}
	return r.tokens[index], nil
}

func (r *runner) deploy(p PoolSpec) error {
	if _, dup := r.pools[p.Name]; dup {
		return errors.New("duplicate pool name")
	}
	staking, err := r.token(p.StakingToken, 0)
	if err != nil {
		return err
	}
	reward, err := r.token(p.RewardToken, 1)
	if err != nil {
		return err
	}
	msg := pool.Initialize{
		StartHeight:   p.StartHeight,
		EndHeight:     p.EndHeight,
		VaultTemplate: builtin.Vault.Number,
		RewardToken:   reward,
		StakingToken:  staking,
		MaxTotalStake: p.MaxTotalStake,
	}
	b := tx.NewBuilder(p.Owner, builtin.Pool.Factory()).Input(pool.Inputs(msg)...)
	if !p.Reward.IsZero() {
		b.Transfer(reward, p.Reward)
	}
	receipt, err := r.send(p.Height, b)
	if err != nil {
		return err
	}
	r.report("deploy "+p.Name, receipt)
	if receipt.Reverted {
		return errors.Errorf("reverted (%s): %s", receipt.RevertKind, receipt.RevertReason)
	}
	if len(receipt.Created) == 0 {
		return errors.New("no pool created")
	}
	r.pools[p.Name] = receipt.Created[0]
	return nil
}

func (r *runner) step(s Step) error {
	var b *tx.Builder
	switch s.Action {
	case "stake":
		poolID, ok := r.pools[s.Pool]
		if !ok {
			return errors.Errorf("unknown pool %q", s.Pool)
		}
		staking, err := r.poolToken(poolID)
		if err != nil {
			return err
		}
		b = tx.NewBuilder(s.Caller, poolID).Opcode(pool.OpStake).Transfer(staking, s.Amount)
	case "unstake":
		vaultID, ok := r.vaults[s.Vault]
		if !ok {
			return errors.Errorf("unknown vault %q", s.Vault)
		}
		b = tx.NewBuilder(s.Caller, vaultID).Opcode(vault.OpUnstake).Transfer(vaultID, u128.One)
	case "withdraw":
		poolID, ok := r.pools[s.Pool]
		if !ok {
			return errors.Errorf("unknown pool %q", s.Pool)
		}
		b = tx.NewBuilder(s.Caller, poolID).Opcode(pool.OpWithdraw).Transfer(poolID, u128.One)
	case "call":
		b = tx.NewBuilder(s.Caller, s.Target).Input(s.Inputs...).Parcel(s.Parcel)
	case "query":
		return r.query(s)
	case "balance":
		bal, err := r.chain.Balance(s.Holder, s.Asset)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "balance %s of %s: %s\n", s.Asset, s.Holder, bal)
		return nil
	default:
		return errors.Errorf("unknown action %q", s.Action)
	}

	receipt, err := r.send(s.Height, b)
	if err != nil {
		return err
	}
	r.report(s.Action, receipt)
	if s.As != "" && !receipt.Reverted && len(receipt.Created) > 0 {
		r.vaults[s.As] = receipt.Created[0]
	}
	return expect(s.Expect, receipt.Reverted)
}

// poolToken reads the staking token from the pool attributes.
func (r *runner) poolToken(poolID asset.ID) (asset.ID, error) {
	resp, err := r.chain.Query(asset.ID{}, poolID, []u128.Int{u128.From64(pool.OpGetAttributes)})
	if err != nil {
		return asset.ID{}, err
	}
	var attrs struct {
		StakingToken asset.ID `json:"staking_token"`
	}
	if err := json.Unmarshal(resp.Data, &attrs); err != nil {
		return asset.ID{}, errors.Wrap(err, "decode pool attributes")
	}
	return attrs.StakingToken, nil
}

func (r *runner) query(s Step) error {
	resp, err := r.chain.Query(s.Caller, s.Target, s.Inputs)
	if err != nil {
		fmt.Fprintf(r.out, "query %s: %v\n", s.Target, err)
		return expect(s.Expect, true)
	}
	fmt.Fprintf(r.out, "query %s: %s\n", s.Target, resp.Data)
	return expect(s.Expect, false)
}

func (r *runner) send(height uint64, b *tx.Builder) (*tx.Receipt, error) {
	r.nonce++
	trx := b.FuelLimit(r.fuelLimit).Nonce(r.nonce).Build()
	if height == 0 {
		return r.chain.Execute(trx)
	}
	return r.chain.ExecuteAt(height, trx)
}

func (r *runner) report(action string, receipt *tx.Receipt) {
	status := "ok"
	if receipt.Reverted {
		status = fmt.Sprintf("reverted (%s: %s)", receipt.RevertKind, receipt.RevertReason)
	}
	fmt.Fprintf(r.out, "%d %s: %s created=%v parcel=%s fuel=%d\n",
		receipt.Height, action, status, receipt.Created, receipt.Parcel, receipt.FuelUsed)
	if r.dump {
		spew.Fdump(r.out, receipt)
	}
}

func expect(want string, reverted bool) error {
	switch want {
	case "":
		return nil
	case "ok":
		if reverted {
			return errors.New("expected success, got revert")
		}
	case "reverted":
		if !reverted {
			return errors.New("expected revert, got success")
		}
	default:
		return errors.Errorf("unknown expectation %q", want)
	}
	return nil
}
