// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/fuel"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/u128"
)

var _ Env = (*frame)(nil)

// frame implements Env for one call.
type frame struct {
	rt    *Runtime
	ctx   Context
	meter *fuel.Meter
	depth int
}

func (f *frame) Context() *Context   { return &f.ctx }
func (f *frame) State() *state.State { return f.rt.state }
func (f *frame) Fuel() *fuel.Meter   { return f.meter }

func (f *frame) Balance(holder, id asset.ID) (u128.Int, error) {
	if err := f.meter.Charge(fuel.BalanceFuel); err != nil {
		return u128.Zero, err
	}
	return f.rt.state.GetBalance(holder, id)
}

func (f *frame) ObserveInitialization() error {
	initialized, err := f.rt.state.IsInitialized(f.ctx.Myself)
	if err != nil {
		return err
	}
	if initialized {
		return reverts.NewRequireError(reverts.Configuration, "contract already initialized")
	}
	f.rt.state.SetInitialized(f.ctx.Myself)
	return nil
}

func (f *frame) Call(target asset.ID, inputs []u128.Int, parcel asset.Parcel, budget uint64) (*Response, error) {
	return f.rt.call(f.ctx.Myself, target, inputs, parcel, f.meter.Child(budget), f.ctx.Static, f.depth+1)
}

func (f *frame) StaticCall(target asset.ID, inputs []u128.Int, budget uint64) (*Response, error) {
	return f.rt.call(f.ctx.Myself, target, inputs, nil, f.meter.Child(budget), true, f.depth+1)
}
