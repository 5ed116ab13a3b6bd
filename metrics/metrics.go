// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"github.com/luxfi/metric"

	"github.com/luxfi/topicvm/instruction"
)

const (
	instructionLabel = "instruction"
	reasonLabel      = "reason"
)

var _ Metrics = (*metrics)(nil)

type Metrics interface {
	// MarkAccepted records an instruction that was applied to a topic.
	MarkAccepted(ins instruction.Instruction)
	// MarkRejected records an instruction that failed. [tag] is empty when the
	// instruction could not be decoded.
	MarkRejected(tag string, reason string)
}

type metrics struct {
	numAccepted metric.CounterVec
	numRejected metric.CounterVec
}

func New(namespace string, registry metric.Registry) (Metrics, error) {
	metricsInstance := metric.NewWithRegistry(namespace, registry)
	return &metrics{
		numAccepted: metricsInstance.NewCounterVec(
			"instructions_accepted",
			"Number of instructions applied to a topic",
			[]string{instructionLabel},
		),
		numRejected: metricsInstance.NewCounterVec(
			"instructions_rejected",
			"Number of instructions that failed, by failure reason",
			[]string{instructionLabel, reasonLabel},
		),
	}, nil
}

func (m *metrics) MarkAccepted(ins instruction.Instruction) {
	m.numAccepted.With(metric.Labels{
		instructionLabel: ins.Tag().String(),
	}).Inc()
}

func (m *metrics) MarkRejected(tag string, reason string) {
	m.numRejected.With(metric.Labels{
		instructionLabel: tag,
		reasonLabel:      reason,
	}).Inc()
}
