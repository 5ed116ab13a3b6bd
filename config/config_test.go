// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestDefaultConfigVerifies(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	require.NoError(cfg.Verify())
	require.Equal("127.0.0.1:9650", cfg.ListenAddress())
	require.Equal(DefaultProgramID, cfg.Processor().ProgramID)
	require.False(cfg.Processor().RejectDuplicateVotes)
}

func TestParse(t *testing.T) {
	require := require.New(t)

	cfg, err := Parse(nil)
	require.NoError(err)
	require.Equal(DefaultConfig(), cfg)

	programID := ids.GenerateTestID()
	cfg, err = Parse([]byte(`{
		"programID": "` + programID.String() + `",
		"rejectDuplicateVotes": true,
		"httpPort": 9700,
		"dataDir": "/var/lib/topicvm"
	}`))
	require.NoError(err)
	require.NoError(cfg.Verify())
	require.Equal(programID, cfg.ProgramID)
	require.True(cfg.RejectDuplicateVotes)
	require.Equal(uint16(9700), cfg.HTTPPort)
	require.Equal("/var/lib/topicvm", cfg.DataDir)
	// Unset fields keep their defaults.
	require.Equal(1024, cfg.AccountCacheSize)
	require.Empty(DefaultConfig().DataDir)

	_, err = Parse([]byte(`{"httpPort": "nope"}`))
	require.Error(err)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{
			name:   "empty program id",
			modify: func(c *Config) { c.ProgramID = ids.Empty },
			err:    ErrInvalidProgramID,
		},
		{
			name:   "persistent data dir",
			modify: func(c *Config) { c.DataDir = "/var/lib/topicvm" },
		},
		{
			name:   "zero port",
			modify: func(c *Config) { c.HTTPPort = 0 },
			err:    ErrInvalidPort,
		},
		{
			name:   "zero cache",
			modify: func(c *Config) { c.AccountCacheSize = 0 },
			err:    ErrInvalidCacheSize,
		},
		{
			name:   "negative shutdown timeout",
			modify: func(c *Config) { c.ShutdownTimeout = -time.Second },
			err:    ErrInvalidShutdownTimeout,
		},
		{
			name:   "metrics without namespace",
			modify: func(c *Config) { c.MetricsNamespace = "" },
			err:    ErrInvalidNamespace,
		},
		{
			name: "metrics disabled without namespace",
			modify: func(c *Config) {
				c.MetricsEnabled = false
				c.MetricsNamespace = ""
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.modify(&cfg)
			require.ErrorIs(t, cfg.Verify(), test.err)
		})
	}
}
