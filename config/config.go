// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines configuration types for the topic VM.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/luxfi/ids"

	"github.com/luxfi/topicvm/processor"
)

var (
	ErrInvalidProgramID       = errors.New("invalid program id configuration")
	ErrInvalidPort            = errors.New("invalid port configuration")
	ErrInvalidCacheSize       = errors.New("invalid cache size configuration")
	ErrInvalidShutdownTimeout = errors.New("invalid shutdown timeout configuration")
	ErrInvalidNamespace       = errors.New("invalid metrics namespace configuration")
)

// DefaultProgramID is the program that owns topic accounts unless configured
// otherwise.
var DefaultProgramID = ids.ID{'t', 'o', 'p', 'i', 'c'}

// Config contains configuration parameters for the topic VM.
type Config struct {
	// ProgramID must own every topic account the VM processes.
	ProgramID ids.ID `json:"programID"`
	// RejectDuplicateVotes rejects a second vote by the same identity on the
	// same option
	RejectDuplicateVotes bool `json:"rejectDuplicateVotes"`

	// DataDir holds the persistent ledger. Empty keeps the ledger in memory.
	DataDir string `json:"dataDir"`

	// HTTP API
	HTTPHost           string        `json:"httpHost"`
	HTTPPort           uint16        `json:"httpPort"`
	AllowedOrigins     []string      `json:"allowedOrigins"`
	ShutdownTimeout    time.Duration `json:"shutdownTimeout"`
	MetricsNamespace   string        `json:"metricsNamespace"`
	MetricsEnabled     bool          `json:"metricsEnabled"`
	AccountCacheSize   int           `json:"accountCacheSize"`
	CompressionEnabled bool          `json:"compressionEnabled"`
}

// DefaultConfig returns the default configuration for the topic VM.
func DefaultConfig() Config {
	return Config{
		ProgramID:            DefaultProgramID,
		RejectDuplicateVotes: false,

		HTTPHost:           "127.0.0.1",
		HTTPPort:           9650,
		AllowedOrigins:     []string{"*"},
		ShutdownTimeout:    10 * time.Second,
		MetricsNamespace:   "topicvm",
		MetricsEnabled:     true,
		AccountCacheSize:   1024,
		CompressionEnabled: true,
	}
}

// Parse parses configuration from JSON bytes over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Verify validates the configuration.
func (c *Config) Verify() error {
	switch {
	case c.ProgramID == ids.Empty:
		return ErrInvalidProgramID
	case c.HTTPPort == 0:
		return ErrInvalidPort
	case c.AccountCacheSize <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.AccountCacheSize)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: %s", ErrInvalidShutdownTimeout, c.ShutdownTimeout)
	case c.MetricsEnabled && c.MetricsNamespace == "":
		return ErrInvalidNamespace
	default:
		return nil
	}
}

// Processor returns the settings the instruction processor needs.
func (c *Config) Processor() processor.Config {
	return processor.Config{
		ProgramID:            c.ProgramID,
		RejectDuplicateVotes: c.RejectDuplicateVotes,
	}
}

// ListenAddress returns the host:port the HTTP API binds to.
func (c *Config) ListenAddress() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(int(c.HTTPPort)))
}
