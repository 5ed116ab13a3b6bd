// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/topicvm/config"
	"github.com/luxfi/topicvm/processor"
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

func TestRecordLifecycle(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "lunch.topic")
	owner := ids.GenerateTestID().String()
	voter := ids.GenerateTestID().String()

	_, err := execute("init", path)
	require.NoError(err)
	_, err = execute("init", path)
	require.ErrorIs(err, errFileExists)

	out, err := execute("inspect", path)
	require.NoError(err)
	inspection := Inspection{}
	require.NoError(json.Unmarshal([]byte(out), &inspection))
	require.Equal("uninitialized", inspection.Status)

	for _, step := range []struct {
		actor string
		hex   string
	}{
		{actor: owner, hex: "0x004c756e63687c50697a7a61"},
		{actor: owner, hex: "0x015461636f73"},
		{actor: voter, hex: "0x0201"},
		{actor: owner, hex: "0x03"},
	} {
		_, err := execute("apply", path, step.hex, "--actor", step.actor)
		require.NoError(err)
	}

	data, err := os.ReadFile(path)
	require.NoError(err)
	require.Len(data, topic.TopicAccountSize)

	out, err = execute("inspect", path)
	require.NoError(err)
	inspection = Inspection{}
	require.NoError(json.Unmarshal([]byte(out), &inspection))
	require.Equal("finished", inspection.Status)
	require.Equal([]int{0, 1}, inspection.Tally)
	require.Equal("Lunch", inspection.Topic.Name)
	require.Equal(uint8(1), inspection.Topic.ResultIndex)
}

func TestRecordApplyFailureLeavesFileUnchanged(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "lunch.topic")
	actor := ids.GenerateTestID().String()
	_, err := execute("init", path, "--size", "12")
	require.ErrorIs(err, topic.ErrMalformedRecord)
	_, err = execute("init", path)
	require.NoError(err)
	_, err = execute("apply", path, "0x004c756e63687c50697a7a61", "--actor", actor)
	require.NoError(err)

	before, err := os.ReadFile(path)
	require.NoError(err)

	tests := []struct {
		name string
		args []string
		err  error
	}{
		{
			name: "unsigned",
			args: []string{"apply", path, "0x015461636f73", "--actor", actor, "--signer=false"},
			err:  processor.ErrMissingRequiredSignature,
		},
		{
			name: "foreign owner",
			args: []string{"apply", path, "0x015461636f73", "--actor", actor, "--owner", ids.GenerateTestID().String()},
			err:  processor.ErrIllegalOwner,
		},
		{
			name: "already initialized",
			args: []string{"apply", path, "0x004c756e63687c50697a7a61", "--actor", actor},
			err:  processor.ErrAlreadyInitialized,
		},
		{
			name: "invalid option",
			args: []string{"apply", path, "0x0205", "--actor", actor},
			err:  topic.ErrInvalidOptionIndex,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := execute(test.args...)
			require.ErrorIs(t, err, test.err)

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, before, after)
		})
	}
}

func TestParseApplyFlagsDefaults(t *testing.T) {
	require := require.New(t)

	actor := ids.GenerateTestID()
	c := Command()
	applyCmd, _, err := c.Find([]string{"apply"})
	require.NoError(err)
	require.NoError(applyCmd.Flags().Parse([]string{"--actor", actor.String()}))

	cfg, err := ParseApplyFlags(applyCmd.Flags())
	require.NoError(err)
	require.Equal(&ApplyConfig{
		TopicKey: ids.Empty,
		Actor:    actor,
		Signer:   true,
		Owner:    config.DefaultProgramID,
		Processor: processor.Config{
			ProgramID: config.DefaultProgramID,
		},
	}, cfg)
}
