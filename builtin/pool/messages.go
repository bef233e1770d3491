// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/u128"
)

// Opcodes understood by the pool.
const (
	OpInitialize              uint64 = 0
	OpStake                   uint64 = 50
	OpUnstake                 uint64 = 51
	OpWithdraw                uint64 = 80
	OpGetName                 uint64 = 99
	OpGetSymbol               uint64 = 100
	OpGetTotalSupply          uint64 = 101
	OpGetCollectionIdentifier uint64 = 998
	OpGetData                 uint64 = 1000
	OpGetAttributes           uint64 = 1002
)

// Message is a decoded pool call. The set of implementations is closed.
type Message interface {
	Opcode() uint64
	poolMessage()
}

type (
	// Initialize configures the pool once.
	Initialize struct {
		StartHeight   uint64
		EndHeight     uint64
		VaultTemplate u128.Int
		RewardToken   asset.ID
		StakingToken  asset.ID
		MaxTotalStake u128.Int
	}
	Stake          struct{}
	Unstake        struct{}
	Withdraw       struct{}
	GetName        struct{}
	GetSymbol      struct{}
	GetTotalSupply struct{}
	// GetCollectionIdentifier returns the pool id as "block:tx".
	GetCollectionIdentifier struct{}
	// GetData returns the image shared by every vault. Index is ignored.
	GetData struct {
		Index u128.Int
	}
	GetAttributes struct{}
)

func (Initialize) Opcode() uint64              { return OpInitialize }
func (Stake) Opcode() uint64                   { return OpStake }
func (Unstake) Opcode() uint64                 { return OpUnstake }
func (Withdraw) Opcode() uint64                { return OpWithdraw }
func (GetName) Opcode() uint64                 { return OpGetName }
func (GetSymbol) Opcode() uint64               { return OpGetSymbol }
func (GetTotalSupply) Opcode() uint64          { return OpGetTotalSupply }
func (GetCollectionIdentifier) Opcode() uint64 { return OpGetCollectionIdentifier }
func (GetData) Opcode() uint64                 { return OpGetData }
func (GetAttributes) Opcode() uint64           { return OpGetAttributes }

func (Initialize) poolMessage()              {}
func (Stake) poolMessage()                   {}
func (Unstake) poolMessage()                 {}
func (Withdraw) poolMessage()                {}
func (GetName) poolMessage()                 {}
func (GetSymbol) poolMessage()               {}
func (GetTotalSupply) poolMessage()          {}
func (GetCollectionIdentifier) poolMessage() {}
func (GetData) poolMessage()                 {}
func (GetAttributes) poolMessage()           {}

// Decode maps call inputs to a message. Inputs beyond the ones an opcode
// takes are ignored.
func Decode(inputs []u128.Int) (Message, error) {
	if len(inputs) == 0 {
		return nil, reverts.NewRequireError(reverts.Configuration, "missing opcode")
	}
	if !inputs[0].IsUint64() {
		return nil, reverts.Newf(reverts.Configuration, "unknown opcode %s", inputs[0])
	}
	args := inputs[1:]

	switch op := inputs[0].Uint64(); op {
	case OpInitialize:
		if len(args) < 8 {
			return nil, reverts.Newf(reverts.Configuration, "initialize takes 8 arguments, got %d", len(args))
		}
		if !args[0].IsUint64() || !args[1].IsUint64() {
			return nil, reverts.NewRequireError(reverts.Configuration, "heights out of range")
		}
		return Initialize{
			StartHeight:   args[0].Uint64(),
			EndHeight:     args[1].Uint64(),
			VaultTemplate: args[2],
			RewardToken:   asset.ID{Block: args[3], Tx: args[4]},
			StakingToken:  asset.ID{Block: args[5], Tx: args[6]},
			MaxTotalStake: args[7],
		}, nil
	case OpStake:
		return Stake{}, nil
	case OpUnstake:
		return Unstake{}, nil
	case OpWithdraw:
		return Withdraw{}, nil
	case OpGetName:
		return GetName{}, nil
	case OpGetSymbol:
		return GetSymbol{}, nil
	case OpGetTotalSupply:
		return GetTotalSupply{}, nil
	case OpGetCollectionIdentifier:
		return GetCollectionIdentifier{}, nil
	case OpGetData:
		var index u128.Int
		if len(args) > 0 {
			index = args[0]
		}
		return GetData{Index: index}, nil
	case OpGetAttributes:
		return GetAttributes{}, nil
	default:
		return nil, reverts.Newf(reverts.Configuration, "unknown opcode %d", op)
	}
}

// Inputs encodes the message back into call inputs.
func Inputs(msg Message) []u128.Int {
	inputs := []u128.Int{u128.From64(msg.Opcode())}
	switch m := msg.(type) {
	case Initialize:
		inputs = append(inputs,
			u128.From64(m.StartHeight),
			u128.From64(m.EndHeight),
			m.VaultTemplate,
			m.RewardToken.Block, m.RewardToken.Tx,
			m.StakingToken.Block, m.StakingToken.Tx,
			m.MaxTotalStake,
		)
	case GetData:
		inputs = append(inputs, m.Index)
	}
	return inputs
}
