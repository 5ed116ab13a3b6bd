// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utilmetric

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/topicvm/utils/metric/metrictest"
	"github.com/luxfi/topicvm/utils/timer/mockable"
)

func TestAPIInterceptor(t *testing.T) {
	require := require.New(t)

	clock := &mockable.Clock{}
	clock.Set(time.Unix(1_000, 0))

	registry := metric.NewRegistry()
	i, err := NewAPIInterceptor("test", clock, registry)
	require.NoError(err)

	req := httptest.NewRequest("POST", "/ext/topic", nil)
	info := &rpc.RequestInfo{Method: "topic.getTopic", Request: req}
	info.Request = i.InterceptRequest(info)

	clock.Advance(3 * time.Millisecond)
	info.Error = errors.New("not found")
	i.AfterRequest(info)

	// Requests that skipped the intercept step are not recorded.
	i.AfterRequest(&rpc.RequestInfo{Method: "topic.ping", Request: req})

	tests := []struct {
		name     string
		method   string
		expected float64
	}{
		{
			name:     "test_request_duration_count",
			method:   "topic.getTopic",
			expected: 1,
		},
		{
			name:     "test_request_duration_sum",
			method:   "topic.getTopic",
			expected: float64(3 * time.Millisecond),
		},
		{
			name:     "test_request_error_count",
			method:   "topic.getTopic",
			expected: 1,
		},
		{
			name:     "test_request_duration_count",
			method:   "topic.ping",
			expected: 0,
		},
	}
	for _, test := range tests {
		value := metrictest.Value(t, registry, test.name, metric.Labels{methodLabel: test.method})
		require.InDelta(test.expected, value, 0, "%s %s", test.name, test.method)
	}
}
