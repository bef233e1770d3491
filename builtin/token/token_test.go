// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

func TestName(t *testing.T) {
	tests := []struct {
		name   string
		words  int
		symbol string
	}{
		{"", 0, ""},
		{"DIESEL", 1, "DIESEL"},
		{"FRBTC reward", 1, "FRBTC"},
		{"exactly sixteen!", 1, "EXACTLY"},
		{"a name longer than one word", 2, "A"},
		{"  padded", 1, "PADDED"},
		{"verylongticker token", 2, "VERYLONG"},
	}
	for _, tt := range tests {
		words := token.EncodeName(tt.name)
		assert.Len(t, words, tt.words, tt.name)
		assert.Equal(t, tt.name, token.DecodeName(words))
		assert.Equal(t, tt.symbol, token.Symbol(tt.name))
	}

	// trailing zero words are ignored
	words := append(token.EncodeName("DIESEL"), u128.Zero, u128.Zero)
	assert.Equal(t, "DIESEL", token.DecodeName(words))
}

func TestToken(t *testing.T) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { tc.Close() })

	alice := genesis.DevAccounts()[1]
	name := strings.Repeat("x", 40)
	inputs := append([]u128.Int{u128.From64(token.OpInitialize), u128.From64(77)}, token.EncodeName(name)...)
	r, err := tc.Send(1, tx.NewBuilder(alice, builtin.Token.Factory()).Input(inputs...))
	require.NoError(t, err)
	require.False(t, r.Reverted, r.RevertReason)
	require.Len(t, r.Created, 1)
	id := r.Created[0]

	assert.Equal(t, u128.From64(77), tc.MustBalance(alice, id))
	assert.Equal(t, u128.Zero, tc.MustBalance(id, id))

	query := func(op uint64) []byte {
		resp, err := tc.Query(alice, id, []u128.Int{u128.From64(op)})
		require.NoError(t, err)
		return resp.Data
	}
	assert.Equal(t, name, string(query(token.OpGetName)))
	assert.Equal(t, "XXXXXXXX", string(query(token.OpGetSymbol)))
	assert.Equal(t, u128.From64(77), u128.FromBytesLE(query(token.OpGetTotalSupply)))

	// the genesis tokens
	assert.Equal(t, "DIESEL", string(must(tc.Query(alice, tc.Staking, []u128.Int{u128.From64(token.OpGetName)})).Data))
	assert.Equal(t, "FRBTC", string(must(tc.Query(alice, tc.Reward, []u128.Int{u128.From64(token.OpGetSymbol)})).Data))

	tests := []struct {
		name   string
		inputs []u128.Int
		kind   string
	}{
		{"no opcode", nil, "configuration"},
		{"no supply", []u128.Int{u128.From64(token.OpInitialize)}, "configuration"},
		{"second initialize", []u128.Int{u128.From64(token.OpInitialize), u128.One}, "configuration"},
		{"unknown opcode", []u128.Int{u128.From64(51)}, "configuration"},
	}
	for _, tt := range tests {
		r, err := tc.Send(2, tx.NewBuilder(alice, id).Input(tt.inputs...))
		require.NoError(t, err)
		assert.Equal(t, []any{true, tt.kind}, []any{r.Reverted, r.RevertKind}, tt.name)
	}
	assert.Equal(t, u128.From64(77), tc.MustBalance(alice, id))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
