// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

// Transaction is the json form of an executed transaction.
type Transaction struct {
	ID        tx.ID        `json:"id"`
	Caller    asset.ID     `json:"caller"`
	Target    asset.ID     `json:"target"`
	Inputs    []u128.Int   `json:"inputs"`
	Parcel    asset.Parcel `json:"parcel"`
	FuelLimit uint64       `json:"fuelLimit"`
	Nonce     uint64       `json:"nonce"`
}

// ConvertTransaction converts a transaction into its json form.
func ConvertTransaction(trx *tx.Transaction) *Transaction {
	return &Transaction{
		ID:        trx.ID(),
		Caller:    trx.Caller(),
		Target:    trx.Target(),
		Inputs:    trx.Inputs(),
		Parcel:    trx.Parcel(),
		FuelLimit: trx.FuelLimit(),
		Nonce:     trx.Nonce(),
	}
}

// SendRequest is the body of a transaction submission. A zero Height runs
// the transaction at the next height.
type SendRequest struct {
	Caller    asset.ID     `json:"caller"`
	Target    asset.ID     `json:"target"`
	Inputs    []u128.Int   `json:"inputs"`
	Parcel    asset.Parcel `json:"parcel,omitempty"`
	FuelLimit uint64       `json:"fuelLimit,omitempty"`
	Nonce     uint64       `json:"nonce,omitempty"`
	Height    uint64       `json:"height,omitempty"`
}

func (r *SendRequest) validate() error {
	if r.Caller.IsZero() {
		return errors.New("caller: required")
	}
	if r.Caller.Block != asset.BlockAccount {
		return errors.Errorf("caller: %s is not an account", r.Caller)
	}
	if r.Target.IsZero() {
		return errors.New("target: required")
	}
	if len(r.Inputs) == 0 {
		return errors.New("inputs: missing opcode")
	}
	for i, t := range r.Parcel {
		if t.ID.IsZero() {
			return errors.Errorf("parcel[%d]: asset required", i)
		}
	}
	return nil
}

func (r *SendRequest) build() *tx.Transaction {
	return tx.NewBuilder(r.Caller, r.Target).
		Input(r.Inputs...).
		Parcel(r.Parcel).
		FuelLimit(r.FuelLimit).
		Nonce(r.Nonce).
		Build()
}
