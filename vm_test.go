// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package topicvm

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/luxfi/topicvm/config"
	"github.com/luxfi/topicvm/instruction"
	"github.com/luxfi/topicvm/processor"
	"github.com/luxfi/topicvm/runtime"
	"github.com/luxfi/topicvm/topic"
	"github.com/luxfi/topicvm/utils/metric/metrictest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestVM(t *testing.T, registry metric.Registry) *VM {
	vm := New(log.NoLog{})
	require.NoError(t, vm.Initialize(context.Background(), config.DefaultConfig(), memdb.New(), registry))
	return vm
}

func submit(t *testing.T, vm *VM, key ed25519.PrivateKey, topicKey ids.ID, ins instruction.Instruction) error {
	req, err := instruction.NewRequest(vm.ProgramID(), topicKey, runtime.PublicKeyID(key), ins)
	require.NoError(t, err)
	tx, err := runtime.Sign(runtime.NewUnsignedTx(req), key)
	require.NoError(t, err)
	return vm.Execute(tx)
}

func TestVMLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	vm := New(log.NoLog{})
	require.Equal(Unknown, vm.State())
	require.ErrorIs(vm.SetState(ctx, NormalOp), errNotInitialized)
	_, err := vm.CreateHandlers(ctx)
	require.ErrorIs(err, errNotInitialized)

	require.NoError(vm.Initialize(ctx, config.DefaultConfig(), memdb.New(), metric.NewRegistry()))
	require.Equal(NormalOp, vm.State())
	require.ErrorIs(vm.Initialize(ctx, config.DefaultConfig(), memdb.New(), nil), errAlreadyInitialized)

	version, err := vm.Version(ctx)
	require.NoError(err)
	require.Equal(Version.String(), version)

	health, err := vm.HealthCheck(ctx)
	require.NoError(err)
	require.Equal(map[string]interface{}{
		"version":     Version.String(),
		"state":       "NormalOp",
		"numAccounts": 0,
	}, health)

	require.NoError(vm.SetState(ctx, Bootstrapping))
	_, err = vm.HealthCheck(ctx)
	require.ErrorIs(err, errNotRunning)
	require.ErrorIs(vm.CreateAccount(ids.GenerateTestID(), topic.TopicAccountSize), errNotRunning)
	require.ErrorIs(vm.SetState(ctx, Stopped), errInvalidState)
	require.NoError(vm.SetState(ctx, NormalOp))

	require.NoError(vm.Shutdown(ctx))
	require.Equal(Stopped, vm.State())
	require.NoError(vm.Shutdown(ctx))
	require.ErrorIs(vm.SetState(ctx, NormalOp), errInvalidState)
	require.Nil(vm.Keys())
}

func TestVMInitializeInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ProgramID = ids.Empty

	vm := New(log.NoLog{})
	err := vm.Initialize(context.Background(), cfg, memdb.New(), nil)
	require.ErrorIs(t, err, config.ErrInvalidProgramID)
	require.Equal(t, Unknown, vm.State())
}

func TestVMShutdownBeforeInitialize(t *testing.T) {
	require.NoError(t, New(log.NoLog{}).Shutdown(context.Background()))
}

func TestVMVoting(t *testing.T) {
	require := require.New(t)

	registry := metric.NewRegistry()
	vm := newTestVM(t, registry)

	owner, voter := newKey(t), newKey(t)
	topicKey := ids.GenerateTestID()
	require.NoError(vm.CreateAccount(topicKey, topic.TopicAccountSize))
	require.ErrorIs(vm.CreateAccount(topicKey, topic.TopicAccountSize), runtime.ErrAccountExists)
	require.Equal([]ids.ID{topicKey}, vm.Keys())

	require.NoError(submit(t, vm, owner, topicKey, &instruction.CreateTopic{TopicName: "Lunch", OptionName: "Pizza"}))
	require.NoError(submit(t, vm, owner, topicKey, &instruction.AddOption{OptionName: "Tacos"}))
	require.NoError(submit(t, vm, voter, topicKey, &instruction.VoteTopic{OptionIndex: 1}))
	require.ErrorIs(submit(t, vm, voter, topicKey, &instruction.FinishTopic{}), processor.ErrIllegalOwner)
	require.NoError(submit(t, vm, owner, topicKey, &instruction.FinishTopic{}))

	account, err := vm.GetAccount(topicKey)
	require.NoError(err)
	require.Equal(vm.ProgramID(), account.Owner)
	tp, err := topic.ParseTopic(account.Data)
	require.NoError(err)
	require.Equal(topic.Finished, tp.Status())
	require.Equal([]int{0, 1}, tp.Tally())
	require.Equal(uint8(1), tp.ResultIndex)

	require.Equal(4, metrictest.Count(t, registry, "topicvm_instructions_accepted"))
	require.Equal(1, metrictest.Count(t, registry, "topicvm_instructions_rejected"))
}

func TestVMMetricsDisabled(t *testing.T) {
	require := require.New(t)

	cfg := config.DefaultConfig()
	cfg.MetricsEnabled = false
	registry := metric.NewRegistry()

	vm := New(log.NoLog{})
	require.NoError(vm.Initialize(context.Background(), cfg, memdb.New(), registry))
	_, err := vm.CreateHandlers(context.Background())
	require.NoError(err)

	families, err := registry.Gather()
	require.NoError(err)
	require.Empty(families)
}

func TestFactory(t *testing.T) {
	require := require.New(t)

	vmIntf, err := (&Factory{}).New(log.NoLog{})
	require.NoError(err)
	vm, ok := vmIntf.(*VM)
	require.True(ok)
	require.Equal(Unknown, vm.State())
}

func newKey(t *testing.T) ed25519.PrivateKey {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return key
}
