// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a fixed-supply fungible asset, used as the
// staking and reward assets of pools.
package token

import (
	"bytes"
	"strings"

	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/storage"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/u128"
)

const (
	OpInitialize     uint64 = 0
	OpGetName        uint64 = 99
	OpGetSymbol      uint64 = 100
	OpGetTotalSupply uint64 = 101
)

// maxSymbolLength bounds the symbol derived from the name.
const maxSymbolLength = 8

// Contract is the runtime entry point of the token template.
var Contract runtime.Contract = runtime.ContractFunc(Execute)

// Execute runs one call.
func Execute(env runtime.Env) (*runtime.Response, error) {
	ctx := env.Context()
	if len(ctx.Inputs) == 0 || !ctx.Inputs[0].IsUint64() {
		return nil, reverts.NewRequireError(reverts.Configuration, "missing opcode")
	}
	sctx := storage.NewContext(ctx.Myself, env.State(), env.Fuel())
	name := storage.NewString(sctx, "/name")
	supply := storage.NewUint128(sctx, "/total_supply")

	switch op := ctx.Inputs[0].Uint64(); op {
	case OpInitialize:
		if len(ctx.Inputs) < 2 {
			return nil, reverts.NewRequireError(reverts.Configuration, "initialize takes a supply")
		}
		if err := env.ObserveInitialization(); err != nil {
			return nil, err
		}
		amount := ctx.Inputs[1]
		if err := supply.Set(amount); err != nil {
			return nil, err
		}
		if err := name.Set(DecodeName(ctx.Inputs[2:])); err != nil {
			return nil, err
		}
		resp := runtime.Forward(ctx)
		resp.Parcel = append(resp.Parcel, asset.Transfer{ID: ctx.Myself, Value: amount})
		return resp, nil
	case OpGetName:
		v, err := name.Get()
		return withData(ctx, []byte(v), err)
	case OpGetSymbol:
		v, err := name.Get()
		return withData(ctx, []byte(Symbol(v)), err)
	case OpGetTotalSupply:
		v, err := supply.Get()
		return withData(ctx, v.BytesLE(), err)
	default:
		return nil, reverts.Newf(reverts.Configuration, "unknown opcode %d", op)
	}
}

func withData(ctx *runtime.Context, data []byte, err error) (*runtime.Response, error) {
	if err != nil {
		return nil, err
	}
	resp := runtime.Forward(ctx)
	resp.Data = data
	return resp, nil
}

// EncodeName packs a name into 16-byte little-endian words.
func EncodeName(name string) []u128.Int {
	var words []u128.Int
	for b := []byte(name); len(b) > 0; {
		n := min(len(b), u128.Size)
		words = append(words, u128.FromBytesLE(b[:n]))
		b = b[n:]
	}
	return words
}

// DecodeName reverses EncodeName, trimming trailing zero bytes.
func DecodeName(words []u128.Int) string {
	var b []byte
	for _, w := range words {
		b = append(b, w.BytesLE()...)
	}
	return string(bytes.TrimRight(b, "\x00"))
}

// Symbol derives a ticker from the first word of the name.
func Symbol(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	sym := strings.ToUpper(fields[0])
	if len(sym) > maxSymbolLength {
		sym = sym[:maxSymbolLength]
	}
	return sym
}
