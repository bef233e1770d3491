// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/chain"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/u128"
)

func TestDecodeGenesis(t *testing.T) {
	gene, err := decodeGenesis(strings.NewReader(`
tokens:
  - name: DIESEL
    supply: "100"
    allocations:
      - {holder: "1:1", amount: "60"}
`))
	require.NoError(t, err)
	assert.Equal(t, u128.From64(100), gene.Tokens[0].Supply)

	_, err = decodeGenesis(strings.NewReader("tokenz: []\n"))
	assert.Error(t, err)

	dev, err := loadGenesis("")
	require.NoError(t, err)
	assert.Equal(t, genesis.Dev(), dev)
}

func TestInitChain(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	c, err := initChain(db, genesis.Dev(), chain.Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.Height())

	// a built store is reopened, not rebuilt
	_, err = initChain(db, genesis.Dev(), chain.Options{})
	assert.NoError(t, err)
}
