// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/topicvm/instruction"
	"github.com/luxfi/topicvm/utils/metric/metrictest"
)

func TestMetrics(t *testing.T) {
	require := require.New(t)

	registry := metric.NewRegistry()
	m, err := New("topicvm", registry)
	require.NoError(err)

	m.MarkAccepted(&instruction.VoteTopic{})
	m.MarkAccepted(&instruction.VoteTopic{OptionIndex: 2})
	m.MarkAccepted(&instruction.FinishTopic{})
	m.MarkRejected("add_option", "too_many_options")

	tests := []struct {
		name     string
		labels   metric.Labels
		expected float64
	}{
		{
			name:     "topicvm_instructions_accepted",
			labels:   metric.Labels{instructionLabel: "vote_topic"},
			expected: 2,
		},
		{
			name:     "topicvm_instructions_accepted",
			labels:   metric.Labels{instructionLabel: "finish_topic"},
			expected: 1,
		},
		{
			name:     "topicvm_instructions_accepted",
			labels:   metric.Labels{instructionLabel: "create_topic"},
			expected: 0,
		},
		{
			name: "topicvm_instructions_rejected",
			labels: metric.Labels{
				instructionLabel: "add_option",
				reasonLabel:      "too_many_options",
			},
			expected: 1,
		},
	}
	for _, test := range tests {
		require.InDelta(test.expected, metrictest.Value(t, registry, test.name, test.labels), 0, "%s %v", test.name, test.labels)
	}
	require.Equal(2, metrictest.Count(t, registry, "topicvm_instructions_accepted"))
	require.Equal(1, metrictest.Count(t, registry, "topicvm_instructions_rejected"))
}
