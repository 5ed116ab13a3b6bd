// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package topicvm hosts topic accounts and executes voting transactions
// against them.
package topicvm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/luxfi/version"

	"github.com/luxfi/topicvm/api"
	"github.com/luxfi/topicvm/config"
	"github.com/luxfi/topicvm/metrics"
	"github.com/luxfi/topicvm/processor"
	"github.com/luxfi/topicvm/runtime"
	"github.com/luxfi/topicvm/utils/compression"
	"github.com/luxfi/topicvm/utils/timer/mockable"

	utilmetric "github.com/luxfi/topicvm/utils/metric"
)

var (
	_ api.Backend = (*VM)(nil)

	Version = &version.Semantic{
		Major: 1,
		Minor: 0,
		Patch: 0,
	}

	errNotInitialized     = errors.New("vm not initialized")
	errAlreadyInitialized = errors.New("vm already initialized")
	errNotRunning         = errors.New("vm is not accepting transactions")
	errInvalidState       = errors.New("invalid state transition")
)

type VM struct {
	lock sync.RWMutex

	config     config.Config
	log        log.Logger
	db         database.Database
	registry   metric.Registry
	clock      mockable.Clock
	state      State

	ledger   *runtime.Ledger
	executor *runtime.Executor
}

func New(log log.Logger) *VM {
	return &VM{log: log}
}

// Initialize opens the ledger stored in [db] and builds the transaction
// pipeline. Metrics are registered with [registry] only when enabled in
// [cfg].
func (vm *VM) Initialize(
	_ context.Context,
	cfg config.Config,
	db database.Database,
	registry metric.Registry,
) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.state != Unknown {
		return errAlreadyInitialized
	}
	if err := cfg.Verify(); err != nil {
		return err
	}
	if vm.log == nil {
		vm.log = log.NoLog{}
	}
	vm.log.Info("initializing topicvm",
		log.Stringer("version", Version),
		log.Stringer("programID", cfg.ProgramID),
		log.Bool("persistent", cfg.DataDir != ""),
	)
	if !cfg.MetricsEnabled || registry == nil {
		registry = metric.NewRegistry()
	}

	compressor, err := compression.New(cfg.CompressionEnabled, int64(2*runtime.MaxAccountSize))
	if err != nil {
		return err
	}
	ledger, err := runtime.NewLedger(db, compressor, cfg.AccountCacheSize)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	instructionMetrics, err := metrics.New(cfg.MetricsNamespace, registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	vm.config = cfg
	vm.db = db
	vm.registry = registry
	vm.ledger = ledger
	vm.executor = runtime.NewExecutor(
		cfg.ProgramID,
		ledger,
		processor.New(cfg.Processor(), vm.log, instructionMetrics),
		vm.log,
	)
	vm.state = NormalOp

	vm.log.Info("initialized topicvm",
		log.Int("numAccounts", ledger.Len()),
	)
	return nil
}

func (vm *VM) SetState(_ context.Context, state State) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	switch {
	case vm.state == Unknown:
		return errNotInitialized
	case vm.state == Stopped, state == Unknown, state == Stopped:
		return fmt.Errorf("%w: %s to %s", errInvalidState, vm.state, state)
	}
	vm.state = state
	return nil
}

func (vm *VM) State() State {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.state
}

func (vm *VM) Shutdown(context.Context) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.db == nil || vm.state == Stopped {
		return nil
	}
	vm.state = Stopped
	return vm.db.Close()
}

func (*VM) Version(context.Context) (string, error) {
	return Version.String(), nil
}

// CreateHandlers returns the VM's HTTP handlers keyed by endpoint.
func (vm *VM) CreateHandlers(context.Context) (map[string]http.Handler, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.state == Unknown {
		return nil, errNotInitialized
	}
	interceptor, err := utilmetric.NewAPIInterceptor(vm.config.MetricsNamespace, &vm.clock, vm.registry)
	if err != nil {
		return nil, err
	}
	handler, err := api.NewHandler(vm.log, vm, interceptor)
	if err != nil {
		return nil, err
	}
	return map[string]http.Handler{
		"": handler,
	}, nil
}

func (vm *VM) HealthCheck(context.Context) (interface{}, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.state != NormalOp {
		return nil, fmt.Errorf("%w: %s", errNotRunning, vm.state)
	}
	return map[string]interface{}{
		"version":     Version.String(),
		"state":       vm.state.String(),
		"numAccounts": vm.ledger.Len(),
	}, nil
}

func (vm *VM) ProgramID() ids.ID {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.config.ProgramID
}

func (vm *VM) GetAccount(key ids.ID) (*runtime.Account, error) {
	ledger, err := vm.readyLedger()
	if err != nil {
		return nil, err
	}
	return ledger.GetAccount(key)
}

func (vm *VM) Keys() []ids.ID {
	ledger, err := vm.readyLedger()
	if err != nil {
		return nil
	}
	return ledger.Keys()
}

// CreateAccount allocates a zeroed account owned by the topic program.
func (vm *VM) CreateAccount(key ids.ID, size int) error {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.state != NormalOp {
		return fmt.Errorf("%w: %s", errNotRunning, vm.state)
	}
	if err := vm.ledger.CreateAccount(key, vm.config.ProgramID, size); err != nil {
		return err
	}
	vm.log.Debug("created account",
		log.Stringer("key", key),
		log.Int("size", size),
	)
	return nil
}

func (vm *VM) Execute(tx *runtime.Tx) error {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.state != NormalOp {
		return fmt.Errorf("%w: %s", errNotRunning, vm.state)
	}
	return vm.executor.Execute(tx)
}

func (vm *VM) readyLedger() (*runtime.Ledger, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if vm.ledger == nil || vm.state == Stopped {
		return nil, errNotInitialized
	}
	return vm.ledger, nil
}
