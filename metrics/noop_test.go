// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	assert.Nil(t, HTTPHandler())

	assert.NotPanics(t, func() {
		Counter("pool_calls").Add(1)
		CounterVec("pool_calls", []string{"opcode"}).AddWithLabel(1, map[string]string{"unknown": "label"})
		Gauge("head_height").Set(10)
		GaugeVec("total_stake", nil).SetWithLabel(5, nil)
		Histogram("fuel", BucketFuel).Observe(100)
		HistogramVec("fuel", []string{"target"}, nil).ObserveWithLabels(1, map[string]string{"target": "pool"})
	})
	assert.IsType(t, &noopMeters{}, LazyLoadCounter("lazy")())
}
