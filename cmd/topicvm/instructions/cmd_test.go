// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instructions

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/topicvm/instruction"
	"github.com/luxfi/topicvm/topic"
)

func execute(args ...string) (string, error) {
	c := Command()
	out := &bytes.Buffer{}
	c.SetOut(out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
		err      error
	}{
		{
			name:     "create",
			args:     []string{"encode", "create", "Lunch", "Pizza"},
			expected: "0x004c756e63687c50697a7a61\n",
		},
		{
			name:     "add",
			args:     []string{"encode", "add", "Tacos"},
			expected: "0x015461636f73\n",
		},
		{
			name:     "vote",
			args:     []string{"encode", "vote", "1"},
			expected: "0x0201\n",
		},
		{
			name:     "finish",
			args:     []string{"encode", "finish"},
			expected: "0x03\n",
		},
		{
			name: "create with empty topic name",
			args: []string{"encode", "create", "", "Pizza"},
			err:  topic.ErrEmptyName,
		},
		{
			name: "vote on reserved slot",
			args: []string{"encode", "vote", "9"},
			err:  topic.ErrInvalidOptionIndex,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			out, err := execute(test.args...)
			require.ErrorIs(err, test.err)
			if test.err == nil {
				require.Equal(test.expected, out)
			}
		})
	}
}

func TestEncodeInvalidIndex(t *testing.T) {
	_, err := execute("encode", "vote", "256")
	require.ErrorContains(t, err, "invalid option index")
}

func TestDecode(t *testing.T) {
	require := require.New(t)

	out, err := execute("decode", "0x004c756e63687c50697a7a61")
	require.NoError(err)
	require.JSONEq(`{
		"instruction": "create_topic",
		"payload": {"topicName": "Lunch", "optionName": "Pizza"}
	}`, out)

	out, err = execute("decode", "0201")
	require.NoError(err)
	require.JSONEq(`{"instruction": "vote_topic", "payload": {"optionIndex": 1}}`, out)

	_, err = execute("decode", "0x04")
	require.ErrorIs(err, instruction.ErrInvalidInstructionData)

	_, err = execute("decode", "0xzz")
	require.ErrorIs(err, errInvalidHex)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	require := require.New(t)

	encoded, err := execute("encode", "add", "Tacos")
	require.NoError(err)

	out, err := execute("decode", strings.TrimSpace(encoded))
	require.NoError(err)
	require.JSONEq(`{"instruction": "add_option", "payload": {"optionName": "Tacos"}}`, out)
}
