// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/fuel"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/u128"
)

// Context describes the call frame a contract runs in.
type Context struct {
	// Myself is the id of the running instance.
	Myself asset.ID
	// Caller is the account or instance that made the call.
	Caller asset.ID
	// Incoming holds the assets sent with the call, already credited to Myself.
	Incoming asset.Parcel
	// Inputs are the call arguments. Inputs[0] is the opcode.
	Inputs []u128.Int
	// Height is the current block height.
	Height uint64
	// Static is true when every effect of the frame will be discarded.
	Static bool
}

// Response is the result of a call. Parcel is moved from the callee to the
// caller; a contract may always emit units of its own id.
type Response struct {
	Parcel asset.Parcel
	Data   []byte
	// Instance is the id created by a call to a factory. It is filled by
	// the host and ignored when set by a contract.
	Instance asset.ID
}

// Forward returns a response handing the incoming assets back to the caller.
func Forward(ctx *Context) *Response {
	return &Response{Parcel: ctx.Incoming.Clone()}
}

// Env is the host interface offered to a running contract.
type Env interface {
	// Context returns the frame context. It must not be modified.
	Context() *Context
	// State returns the revertible world state.
	State() *state.State
	// Fuel returns the meter of the frame.
	Fuel() *fuel.Meter
	// Balance returns the amount of id held by holder.
	Balance(holder, id asset.ID) (u128.Int, error)
	// ObserveInitialization fails if the running instance was initialized before.
	ObserveInitialization() error
	// Call makes a nested mutating call, sending parcel from the running
	// instance to target. Budget bounds the fuel of the callee, zero means
	// whatever remains.
	Call(target asset.ID, inputs []u128.Int, parcel asset.Parcel, budget uint64) (*Response, error)
	// StaticCall makes a nested call whose effects are always discarded.
	StaticCall(target asset.ID, inputs []u128.Int, budget uint64) (*Response, error)
}

// Contract is the code behind a template.
type Contract interface {
	Execute(env Env) (*Response, error)
}

// ContractFunc adapts a function to Contract.
type ContractFunc func(env Env) (*Response, error)

func (f ContractFunc) Execute(env Env) (*Response, error) { return f(env) }

// Registry resolves template numbers to contracts.
type Registry interface {
	Contract(template u128.Int) (Contract, bool)
}
