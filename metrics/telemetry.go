// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is the process wide meter registry used by the pool host.
// Meters are no-ops until InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"

	"github.com/vechain/stakepool/log"
)

var logger = log.WithContext("pkg", "metrics")

// metrics is swapped to prometheus by InitializePrometheusMetrics.
var metrics = defaultNoopMetrics()

// Metrics creates meters by name. Asking twice for the same name returns the
// same meter.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	GetOrCreateHandler() http.Handler
}

// Histogram buckets.
var (
	// BucketFuel covers fuel spent by a single transaction.
	BucketFuel = []int64{0, 100, 500, 1000, 2500, 5000, 10_000, 25_000, 50_000, 100_000, 1_000_000}
	// BucketHTTPReqs covers API request latency in milliseconds.
	BucketHTTPReqs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10_000}
)

type (
	// CountMeter only goes up.
	CountMeter interface{ Add(int64) }
	// CountVecMeter is a CountMeter partitioned by labels.
	CountVecMeter interface {
		AddWithLabel(int64, map[string]string)
	}
	// GaugeMeter goes up and down.
	GaugeMeter interface {
		Add(int64)
		Set(int64)
	}
	// GaugeVecMeter is a GaugeMeter partitioned by labels.
	GaugeVecMeter interface {
		AddWithLabel(int64, map[string]string)
		SetWithLabel(int64, map[string]string)
	}
	// HistogramMeter buckets observations.
	HistogramMeter interface{ Observe(int64) }
	// HistogramVecMeter is a HistogramMeter partitioned by labels.
	HistogramVecMeter interface {
		ObserveWithLabels(int64, map[string]string)
	}
)

// HTTPHandler serves the registered meters, or is nil while metrics are off.
func HTTPHandler() http.Handler { return metrics.GetOrCreateHandler() }

func Counter(name string) CountMeter { return metrics.GetOrCreateCountMeter(name) }
func Gauge(name string) GaugeMeter   { return metrics.GetOrCreateGaugeMeter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return metrics.GetOrCreateGaugeVecMeter(name, labels)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.GetOrCreateHistogramMeter(name, buckets)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.GetOrCreateHistogramVecMeter(name, labels, buckets)
}

// LazyLoad defers creating a meter to its first use, so package level meter
// variables bind to whichever registry is active at that time.
func LazyLoad[T any](f func() T) func() T {
	return sync.OnceValue(f)
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
