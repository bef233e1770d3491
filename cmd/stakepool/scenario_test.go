// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDoc = `
pools:
  - name: main
    owner: "1:1"
    height: 1
    startHeight: 100
    endHeight: 1100
    maxTotalStake: "1000"
    reward: "500"
steps:
  - {height: 200, action: stake, caller: "1:2", pool: main, amount: "200", as: alice, expect: ok}
  - {height: 600, action: stake, caller: "1:3", pool: main, amount: "300", as: bob, expect: ok}
  - {height: 700, action: stake, caller: "1:4", pool: main, amount: "600", expect: reverted}
  - {height: 1100, action: unstake, caller: "1:2", vault: alice, expect: ok}
  - {height: 1100, action: unstake, caller: "1:3", vault: bob, expect: ok}
  - {height: 2200, action: withdraw, caller: "1:1", pool: main, expect: ok}
  - {action: balance, holder: "1:2", asset: "2:2"}
  - {action: balance, holder: "1:3", asset: "2:2"}
  - {action: query, target: "2:3", inputs: ["99"], expect: ok}
  - {action: call, caller: "1:5", target: "2:9", inputs: ["1"], expect: reverted}
`

func TestRunScenario(t *testing.T) {
	s, err := decodeScenario(strings.NewReader(scenarioDoc))
	require.NoError(t, err)
	require.Len(t, s.Steps, 10)

	var out bytes.Buffer
	require.NoError(t, runScenario(s, &out, 0, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "1 deploy main: ok"), lines[0])
	assert.Contains(t, lines[3], "reverted (capacity")
	// alice: 500 * 900*200 / 330000 = 272, bob: 500 * 500*300 / 330000 = 227
	assert.Equal(t, "balance 2:2 of 1:2: 1272", lines[7])
	assert.Equal(t, "balance 2:2 of 1:3: 1227", lines[8])
	assert.Equal(t, "query 2:3: DIESEL Staking", lines[9])
}

func TestScenarioExpectations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  string
	}{
		{"unmet expectation", `
steps:
  - {action: call, caller: "1:1", target: "2:9", inputs: ["1"], expect: ok}
`, "expected success"},
		{"unknown pool", `
steps:
  - {action: stake, caller: "1:1", pool: nope, amount: "1"}
`, `unknown pool "nope"`},
		{"unknown vault", `
steps:
  - {action: unstake, caller: "1:1", vault: nope}
`, `unknown vault "nope"`},
		{"unknown action", `
steps:
  - {action: dance}
`, `unknown action "dance"`},
		{"below head", `
steps:
  - {height: 10, action: call, caller: "1:1", target: "2:9", inputs: ["1"]}
  - {height: 5, action: call, caller: "1:1", target: "2:9", inputs: ["1"]}
`, "step #1"},
		{"pool reverted", `
pools:
  - {name: p, owner: "1:1", height: 1, startHeight: 10, endHeight: 5, maxTotalStake: "1"}
`, `pool "p"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := decodeScenario(strings.NewReader(tt.doc))
			require.NoError(t, err)
			err = runScenario(s, &bytes.Buffer{}, 0, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestDecodeScenario(t *testing.T) {
	_, err := decodeScenario(strings.NewReader("steps:\n  - {action: stake, amout: \"1\"}\n"))
	assert.Error(t, err)

	s, err := decodeScenario(strings.NewReader(`
genesis:
  tokens:
    - {name: GOLD, supply: "10", allocations: [{holder: "1:7", amount: "10"}]}
`))
	require.NoError(t, err)
	require.NotNil(t, s.Genesis)
	assert.Equal(t, "GOLD", s.Genesis.Tokens[0].Name)
}

func TestDump(t *testing.T) {
	s, err := decodeScenario(strings.NewReader(`
steps:
  - {action: call, caller: "1:1", target: "2:9", inputs: ["1"]}
`))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, runScenario(s, &out, 0, true))
	assert.Contains(t, out.String(), "RevertKind")
}
