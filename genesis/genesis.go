// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis deploys the initial tokens and allocates them to accounts.
package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/fuel"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/u128"
)

// Treasury deploys the genesis tokens and receives what is not allocated.
var Treasury = asset.ID{Block: asset.BlockAccount, Tx: u128.Zero}

// DevAccounts returns pre-allocated accounts for development.
func DevAccounts() []asset.ID {
	accs := make([]asset.ID, 0, 10)
	for i := range uint64(10) {
		accs = append(accs, asset.ID{Block: asset.BlockAccount, Tx: u128.From64(i + 1)})
	}
	return accs
}

// Allocation credits Amount units to Holder.
type Allocation struct {
	Holder asset.ID `yaml:"holder"`
	Amount u128.Int `yaml:"amount"`
}

// Token is a token created at genesis.
type Token struct {
	Name        string       `yaml:"name"`
	Supply      u128.Int     `yaml:"supply"`
	Allocations []Allocation `yaml:"allocations"`
}

// Genesis describes the initial state.
type Genesis struct {
	Tokens []Token `yaml:"tokens"`
}

var genesisKey = []byte("genesis")

// Dev returns the development genesis. Every dev account holds 1000 units
// of both the staking token and the reward token.
func Dev() *Genesis {
	var allocs []Allocation
	for _, acc := range DevAccounts() {
		allocs = append(allocs, Allocation{Holder: acc, Amount: u128.From64(1000)})
	}
	return &Genesis{Tokens: []Token{
		{Name: "DIESEL", Supply: u128.From64(1_000_000), Allocations: allocs},
		{Name: "FRBTC reward", Supply: u128.From64(1_000_000), Allocations: allocs},
	}}
}

// IsBuilt reports whether a genesis was built into store.
func IsBuilt(store kv.Store) (bool, error) {
	return chain.PropBucket.NewStore(store).Has(genesisKey)
}

// Build deploys the tokens into store. It returns the token ids in
// declaration order. Building an already built store is an error.
func (g *Genesis) Build(store kv.Store) ([]asset.ID, error) {
	props := chain.PropBucket.NewStore(store)
	if has, err := props.Has(genesisKey); err != nil {
		return nil, err
	} else if has {
		return nil, errors.New("genesis already built")
	}

	stater := state.NewStater(store, 0)
	st := stater.NewState()
	rt := runtime.New(builtin.Registry{}, st, 0)

	ids := make([]asset.ID, 0, len(g.Tokens))
	for _, tok := range g.Tokens {
		id, err := deployToken(rt, tok)
		if err != nil {
			return nil, errors.Wrapf(err, "deploy token %q", tok.Name)
		}
		if err := allocate(st, id, tok.Allocations); err != nil {
			return nil, errors.Wrapf(err, "allocate token %q", tok.Name)
		}
		ids = append(ids, id)
	}

	if err := stater.Commit(st.Stage(), func(w kv.Putter) error {
		return w.Put(chain.PropBucket.Key(genesisKey), []byte{1})
	}); err != nil {
		return nil, err
	}
	return ids, nil
}

func deployToken(rt *runtime.Runtime, tok Token) (asset.ID, error) {
	inputs := append([]u128.Int{u128.From64(token.OpInitialize), tok.Supply}, token.EncodeName(tok.Name)...)
	if _, err := rt.Call(Treasury, builtin.Token.Factory(), inputs, nil, fuel.New(runtime.DefaultFuelLimit), false); err != nil {
		return asset.ID{}, err
	}
	created := rt.Created()
	if len(created) == 0 {
		return asset.ID{}, errors.New("no instance created")
	}
	return created[len(created)-1], nil
}

func allocate(st *state.State, id asset.ID, allocs []Allocation) error {
	for _, a := range allocs {
		from, err := st.GetBalance(Treasury, id)
		if err != nil {
			return err
		}
		rest, underflow := from.Sub(a.Amount)
		if underflow {
			return errors.Errorf("treasury holds %s, cannot allocate %s to %s", from, a.Amount, a.Holder)
		}
		to, err := st.GetBalance(a.Holder, id)
		if err != nil {
			return err
		}
		st.SetBalance(Treasury, id, rest)
		st.SetBalance(a.Holder, id, to.SaturatingAdd(a.Amount))
	}
	return nil
}
