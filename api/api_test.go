// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/api/balances"
	"github.com/vechain/stakepool/api/contracts"
	"github.com/vechain/stakepool/api/transactions"
	"github.com/vechain/stakepool/asset"
	"github.com/vechain/stakepool/builtin/pool"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/tx"
	"github.com/vechain/stakepool/u128"
)

var (
	accounts = genesis.DevAccounts()
	owner    = accounts[0]
	alice    = accounts[1]
)

func newServer(t *testing.T) (*httptest.Server, *testchain.Chain, asset.ID) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { tc.Close() })

	poolID, err := tc.DeployPool(1, owner, testchain.PoolParams{
		StartHeight:   100,
		EndHeight:     1100,
		MaxTotalStake: u128.From64(1000),
		Reward:        u128.From64(500),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(api.New(tc.Chain, api.Options{AllowedOrigins: "*", EnableMetrics: true}))
	t.Cleanup(ts.Close)
	return ts, tc, poolID
}

func httpDo(t *testing.T, method, url string, body any) ([]byte, int) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func decode[T any](t *testing.T, data []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestContracts(t *testing.T) {
	ts, _, poolID := newServer(t)
	base := ts.URL + "/contracts/" + poolID.String()

	data, code := httpDo(t, http.MethodGet, base+"/name", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "DIESEL Staking", decode[map[string]string](t, data)["name"])

	data, code = httpDo(t, http.MethodGet, base+"/symbol", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SLP", decode[map[string]string](t, data)["symbol"])

	data, code = httpDo(t, http.MethodGet, base+"/attributes", nil)
	assert.Equal(t, http.StatusOK, code)
	attrs := decode[map[string]any](t, data)
	assert.Equal(t, "1000", attrs["max_total_stake"])

	_, code = httpDo(t, http.MethodGet, ts.URL+"/contracts/bogus/name", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpDo(t, http.MethodGet, ts.URL+"/contracts/2:99/name", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	data, code = httpDo(t, http.MethodPost, base+"/query", &contracts.QueryRequest{
		Caller: alice,
		Inputs: []u128.Int{u128.From64(7)},
	})
	assert.Equal(t, http.StatusOK, code)
	res := decode[contracts.QueryResult](t, data)
	assert.True(t, res.Reverted)
	assert.Equal(t, "configuration", res.Kind)

	data, code = httpDo(t, http.MethodPost, base+"/query", &contracts.QueryRequest{
		Inputs: []u128.Int{u128.From64(pool.OpGetSymbol)},
	})
	assert.Equal(t, http.StatusOK, code)
	res = decode[contracts.QueryResult](t, data)
	assert.False(t, res.Reverted)
	assert.Equal(t, "SLP", string(res.Data))

	_, code = httpDo(t, http.MethodPost, base+"/query", &contracts.QueryRequest{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTransactions(t *testing.T) {
	ts, tc, poolID := newServer(t)

	send := &transactions.SendRequest{
		Caller: alice,
		Target: poolID,
		Inputs: []u128.Int{u128.From64(pool.OpStake)},
		Parcel: asset.Parcel{{ID: tc.Staking, Value: u128.From64(200)}},
		Nonce:  1,
		Height: 200,
	}
	data, code := httpDo(t, http.MethodPost, ts.URL+"/transactions", send)
	require.Equal(t, http.StatusOK, code, string(data))
	receipt := decode[tx.Receipt](t, data)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, uint64(200), receipt.Height)
	require.Len(t, receipt.Created, 1)
	vaultID := receipt.Created[0]

	// replay
	_, code = httpDo(t, http.MethodPost, ts.URL+"/transactions", send)
	assert.Equal(t, http.StatusConflict, code)

	// below head
	send.Nonce, send.Height = 2, 150
	_, code = httpDo(t, http.MethodPost, ts.URL+"/transactions", send)
	assert.Equal(t, http.StatusBadRequest, code)

	data, code = httpDo(t, http.MethodGet, ts.URL+"/transactions/"+receipt.TxID.String(), nil)
	assert.Equal(t, http.StatusOK, code)
	trx := decode[transactions.Transaction](t, data)
	assert.Equal(t, alice, trx.Caller)
	assert.Equal(t, poolID, trx.Target)

	data, code = httpDo(t, http.MethodGet, ts.URL+"/transactions/"+receipt.TxID.String()+"/receipt", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, receipt.Created, decode[tx.Receipt](t, data).Created)

	data, code = httpDo(t, http.MethodGet, ts.URL+"/transactions/"+tx.ID{}.String(), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "null", strings.TrimSpace(string(data)))

	_, code = httpDo(t, http.MethodGet, ts.URL+"/transactions/0x12", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// a reverted call is still executed and reported
	data, code = httpDo(t, http.MethodPost, ts.URL+"/transactions", &transactions.SendRequest{
		Caller: alice,
		Target: vaultID,
		Inputs: []u128.Int{u128.From64(1)},
		Nonce:  3,
	})
	require.Equal(t, http.StatusOK, code, string(data))
	assert.True(t, decode[tx.Receipt](t, data).Reverted)

	tests := []struct {
		name string
		body string
	}{
		{"missing caller", `{"target":"2:3","inputs":["1"]}`},
		{"contract caller", `{"caller":"2:3","target":"2:3","inputs":["51"]}`},
		{"missing inputs", `{"caller":"1:1","target":"2:3"}`},
		{"unknown field", `{"caller":"1:1","target":"2:3","inputs":["1"],"gas":1}`},
		{"malformed", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := http.Post(ts.URL+"/transactions", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			res.Body.Close()
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestBalances(t *testing.T) {
	ts, tc, poolID := newServer(t)

	data, code := httpDo(t, http.MethodGet, ts.URL+"/balances/"+owner.String()+"/"+poolID.String(), nil)
	assert.Equal(t, http.StatusOK, code)
	b := decode[balances.Balance](t, data)
	assert.Equal(t, u128.One, b.Amount)
	assert.Equal(t, tc.Height(), b.Height)

	data, code = httpDo(t, http.MethodGet, ts.URL+"/balances/"+poolID.String()+"/"+tc.Reward.String(), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, u128.From64(500), decode[balances.Balance](t, data).Amount)

	_, code = httpDo(t, http.MethodGet, ts.URL+"/balances/x/"+poolID.String(), nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRequestLogger(t *testing.T) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	defer tc.Close()

	var enabled atomic.Bool
	enabled.Store(true)
	ts := httptest.NewServer(api.New(tc.Chain, api.Options{EnableReqLogger: &enabled}))
	defer ts.Close()

	_, code := httpDo(t, http.MethodGet, ts.URL+"/balances/"+owner.String()+"/"+tc.Staking.String(), nil)
	assert.Equal(t, http.StatusOK, code)

	_, code = httpDo(t, http.MethodGet, ts.URL+"/metrics", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
