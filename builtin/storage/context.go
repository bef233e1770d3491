// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage provides typed, fuel metered views over the raw storage of
// a contract instance.
package storage

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/fuel"
	"github.com/vechain/stakepool/state"
)

type Context struct {
	contract asset.ID
	state    *state.State
	meter    *fuel.Meter
}

func NewContext(contract asset.ID, state *state.State, meter *fuel.Meter) *Context {
	return &Context{
		contract: contract,
		state:    state,
		meter:    meter,
	}
}

// Contract returns the instance owning the storage.
func (c *Context) Contract() asset.ID {
	return c.contract
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) load(key []byte) ([]byte, error) {
	if err := c.meter.Charge(fuel.LoadFuel); err != nil {
		return nil, err
	}
	return c.state.GetStorage(c.contract, key)
}

func (c *Context) store(key, value []byte) error {
	if err := c.meter.ChargeStore(len(value)); err != nil {
		return err
	}
	c.state.SetStorage(c.contract, key, value)
	return nil
}
