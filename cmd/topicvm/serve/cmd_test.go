// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/luxfi/log"

	"github.com/luxfi/topicvm/api"
	"github.com/luxfi/topicvm/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseFlags(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"httpPort": 9700, "rejectDuplicateVotes": true}`), 0o600))

	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	AddFlags(flags)
	require.NoError(flags.Parse([]string{"--" + ConfigKey, path}))

	cfg, err := ParseFlags(flags)
	require.NoError(err)
	expected := config.DefaultConfig()
	expected.HTTPPort = 9700
	expected.RejectDuplicateVotes = true
	require.Equal(expected, cfg)
}

func TestParseFlagsInvalidConfig(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(os.WriteFile(path, []byte(`{"httpPort": 0}`), 0o600))

	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	AddFlags(flags)
	require.NoError(flags.Parse([]string{"--" + ConfigKey, path}))

	_, err := ParseFlags(flags)
	require.ErrorIs(err, config.ErrInvalidPort)
}

func TestRun(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	baseURL := "http://" + listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, log.NoLog{}, config.DefaultConfig(), listener)
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

	body, err := json2.EncodeClientRequest("topic.ping", &struct{}{})
	require.NoError(err)
	require.Eventually(func() bool {
		resp, err := client.Post(baseURL+"/ext/"+api.Name, "application/json", bytes.NewReader(body))
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		reply := api.PingReply{}
		return json2.DecodeClientResponse(resp.Body, &reply) == nil && reply.Success
	}, testTimeout, testTick)

	resp, err := client.Get(baseURL + "/ext/" + healthBase)
	require.NoError(err)
	require.Equal(http.StatusOK, resp.StatusCode)
	require.NoError(resp.Body.Close())

	resp, err = client.Get(baseURL + metricsPath)
	require.NoError(err)
	metrics, err := io.ReadAll(resp.Body)
	require.NoError(resp.Body.Close())
	require.NoError(err)
	require.Contains(string(metrics), "api_requests_total")
	require.Contains(string(metrics), "topicvm_request_duration_count")
	require.Contains(string(metrics), "topicvm_checks_failing")

	cancel()
	require.NoError(<-done)
}

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name       string
		dataDir    func(t *testing.T) string
		persistent bool
	}{
		{
			name:    "in memory",
			dataDir: func(*testing.T) string { return "" },
		},
		{
			name:       "data dir",
			dataDir:    func(t *testing.T) string { return t.TempDir() },
			persistent: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			cfg := config.DefaultConfig()
			cfg.DataDir = test.dataDir(t)

			db, err := openDatabase(cfg)
			require.NoError(err)
			require.NoError(db.Put([]byte("topic"), []byte("lunch")))
			require.NoError(db.Close())

			db, err = openDatabase(cfg)
			require.NoError(err)
			has, err := db.Has([]byte("topic"))
			require.NoError(err)
			require.Equal(test.persistent, has)
			require.NoError(db.Close())
		})
	}
}

const (
	testTimeout = 5 * time.Second
	testTick    = 10 * time.Millisecond
)
