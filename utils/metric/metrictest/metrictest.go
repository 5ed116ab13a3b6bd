// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrictest reads gathered metric values in tests.
package metrictest

import (
	"testing"

	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"
)

// Value returns the value of the series [name] whose labels are exactly
// [labels]. Missing series read as zero.
func Value(t testing.TB, gatherer metric.Gatherer, name string, labels metric.Labels) float64 {
	t.Helper()

	family := find(t, gatherer, name)
	if family == nil {
		return 0
	}
	for _, m := range family.Metrics {
		if matches(m.Labels, labels) {
			return m.Value.Value
		}
	}
	return 0
}

// Count returns the number of series in the family [name].
func Count(t testing.TB, gatherer metric.Gatherer, name string) int {
	t.Helper()

	family := find(t, gatherer, name)
	if family == nil {
		return 0
	}
	return len(family.Metrics)
}

func find(t testing.TB, gatherer metric.Gatherer, name string) *metric.MetricFamily {
	families, err := gatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.Name == name {
			return family
		}
	}
	return nil
}

func matches(pairs []metric.LabelPair, labels metric.Labels) bool {
	if len(pairs) != len(labels) {
		return false
	}
	for _, pair := range pairs {
		if v, ok := labels[pair.Name]; !ok || v != pair.Value {
			return false
		}
	}
	return true
}
