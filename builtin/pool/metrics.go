// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import "github.com/vechain/stakepool/metrics"

var metricCalls = metrics.LazyLoadCounterVec("pool_calls_count", []string{"op", "outcome"})

func opName(msg Message) string {
	switch msg.(type) {
	case Initialize:
		return "initialize"
	case Stake:
		return "stake"
	case Unstake:
		return "unstake"
	case Withdraw:
		return "withdraw"
	default:
		return "query"
	}
}
