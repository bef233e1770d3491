// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/u128"
)

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// NewBuilder creates a builder for a call of target by caller.
func NewBuilder(caller, target asset.ID) *Builder {
	return &Builder{body: body{Caller: caller, Target: target}}
}

// Opcode sets the first input.
func (b *Builder) Opcode(op uint64) *Builder {
	b.body.Inputs = append([]u128.Int{u128.From64(op)}, b.body.Inputs...)
	return b
}

// Input appends inputs.
func (b *Builder) Input(inputs ...u128.Int) *Builder {
	b.body.Inputs = append(b.body.Inputs, inputs...)
	return b
}

// Transfer attaches value units of asset id.
func (b *Builder) Transfer(id asset.ID, value u128.Int) *Builder {
	b.body.Parcel = append(b.body.Parcel, asset.Transfer{ID: id, Value: value})
	return b
}

// Parcel attaches all transfers of p.
func (b *Builder) Parcel(p asset.Parcel) *Builder {
	b.body.Parcel = append(b.body.Parcel, p...)
	return b
}

// FuelLimit set fuel limit.
func (b *Builder) FuelLimit(limit uint64) *Builder {
	b.body.FuelLimit = limit
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build builds a tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	tx.body.Inputs = append([]u128.Int(nil), b.body.Inputs...)
	tx.body.Parcel = b.body.Parcel.Clone()
	return &tx
}
