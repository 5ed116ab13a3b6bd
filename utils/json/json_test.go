// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	stdjson "encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUintMarshal(t *testing.T) {
	require := require.New(t)

	b, err := stdjson.Marshal(struct {
		Index Uint8 `json:"index"`
	}{
		Index: 9,
	})
	require.NoError(err)
	require.JSONEq(`{"index":"9"}`, string(b))
}

func TestUintUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: `"7"`, want: 7},
		{in: `7`, want: 7},
		{in: Null, want: 0},
		{in: `"256"`, wantErr: true},
		{in: `"-1"`, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			require := require.New(t)

			var u Uint8
			err := u.UnmarshalJSON([]byte(test.in))
			if test.wantErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			require.Equal(Uint8(test.want), u)
		})
	}
}
