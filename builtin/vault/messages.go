// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/u128"
)

const (
	OpInitialize              uint64 = 0
	OpUnstake                 uint64 = 51
	OpGetName                 uint64 = 99
	OpGetSymbol               uint64 = 100
	OpGetTotalSupply          uint64 = 101
	OpGetCollectionIdentifier uint64 = 998
	OpGetIndex                uint64 = 999
	OpGetData                 uint64 = 1000
	OpGetContentType          uint64 = 1001
	OpGetAttributes           uint64 = 1002
)

// Message is a decoded vault call.
type Message interface {
	Opcode() uint64
	vaultMessage()
}

type (
	Initialize struct {
		Index u128.Int
	}
	Unstake                 struct{}
	GetName                 struct{}
	GetSymbol               struct{}
	GetTotalSupply          struct{}
	GetCollectionIdentifier struct{}
	GetIndex                struct{}
	GetData                 struct{}
	GetContentType          struct{}
	GetAttributes           struct{}
)

func (Initialize) Opcode() uint64              { return OpInitialize }
func (Unstake) Opcode() uint64                 { return OpUnstake }
func (GetName) Opcode() uint64                 { return OpGetName }
func (GetSymbol) Opcode() uint64               { return OpGetSymbol }
func (GetTotalSupply) Opcode() uint64          { return OpGetTotalSupply }
func (GetCollectionIdentifier) Opcode() uint64 { return OpGetCollectionIdentifier }
func (GetIndex) Opcode() uint64                { return OpGetIndex }
func (GetData) Opcode() uint64                 { return OpGetData }
func (GetContentType) Opcode() uint64          { return OpGetContentType }
func (GetAttributes) Opcode() uint64           { return OpGetAttributes }

func (Initialize) vaultMessage()              {}
func (Unstake) vaultMessage()                 {}
func (GetName) vaultMessage()                 {}
func (GetSymbol) vaultMessage()               {}
func (GetTotalSupply) vaultMessage()          {}
func (GetCollectionIdentifier) vaultMessage() {}
func (GetIndex) vaultMessage()                {}
func (GetData) vaultMessage()                 {}
func (GetContentType) vaultMessage()          {}
func (GetAttributes) vaultMessage()           {}

// Decode maps call inputs to a message.
func Decode(inputs []u128.Int) (Message, error) {
	if len(inputs) == 0 {
		return nil, reverts.NewRequireError(reverts.Configuration, "missing opcode")
	}
	if !inputs[0].IsUint64() {
		return nil, reverts.Newf(reverts.Configuration, "unknown opcode %s", inputs[0])
	}

	switch op := inputs[0].Uint64(); op {
	case OpInitialize:
		if len(inputs) < 2 {
			return nil, reverts.NewRequireError(reverts.Configuration, "initialize takes an index")
		}
		return Initialize{Index: inputs[1]}, nil
	case OpUnstake:
		return Unstake{}, nil
	case OpGetName:
		return GetName{}, nil
	case OpGetSymbol:
		return GetSymbol{}, nil
	case OpGetTotalSupply:
		return GetTotalSupply{}, nil
	case OpGetCollectionIdentifier:
		return GetCollectionIdentifier{}, nil
	case OpGetIndex:
		return GetIndex{}, nil
	case OpGetData:
		return GetData{}, nil
	case OpGetContentType:
		return GetContentType{}, nil
	case OpGetAttributes:
		return GetAttributes{}, nil
	default:
		return nil, reverts.Newf(reverts.Configuration, "unknown opcode %d", op)
	}
}

func opName(msg Message) string {
	switch msg.(type) {
	case Initialize:
		return "initialize"
	case Unstake:
		return "unstake"
	default:
		return "query"
	}
}
