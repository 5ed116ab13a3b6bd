// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package processor applies topic instructions to topic account buffers.
package processor

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/topicvm/instruction"
	"github.com/luxfi/topicvm/metrics"
	"github.com/luxfi/topicvm/topic"
)

var (
	ErrIllegalOwner             = errors.New("illegal owner")
	ErrMissingRequiredSignature = errors.New("missing required signature")
	ErrAlreadyInitialized       = errors.New("account already initialized")
	ErrInvalidAccountData       = errors.New("invalid account data")
	ErrNotEnoughAccountKeys     = errors.New("not enough account keys")
)

// Account is what the processor knows about one account: facts established
// by the caller, plus the account's data buffer which is mutated in place.
type Account struct {
	Key ids.ID
	// Owner is the program the account's storage belongs to.
	Owner    ids.ID
	IsSigner bool
	Data     []byte
}

type Config struct {
	// ProgramID must own every topic account.
	ProgramID ids.ID
	// RejectDuplicateVotes rejects a vote from an identity already recorded
	// on the same option.
	RejectDuplicateVotes bool
}

// Processor is stateless; every call starts from a fresh decode of the
// account buffer.
type Processor struct {
	config  Config
	log     log.Logger
	metrics metrics.Metrics
}

func New(config Config, log log.Logger, metrics metrics.Metrics) *Processor {
	return &Processor{
		config:  config,
		log:     log,
		metrics: metrics,
	}
}

// Process decodes [data] and applies it. [accounts] must list the topic
// account first and the acting account second. On error no account data has
// been modified.
func (p *Processor) Process(accounts []*Account, data []byte) error {
	ins, err := instruction.Parse(data)
	if err != nil {
		p.reject("", err)
		return err
	}

	p.log.Debug("processing instruction",
		log.Stringer("instruction", ins.Tag()),
	)
	if err := ins.Visit(&executor{
		config:   p.config,
		accounts: accounts,
	}); err != nil {
		p.reject(ins.Tag().String(), err)
		return fmt.Errorf("%s failed: %w", ins.Tag(), err)
	}
	p.metrics.MarkAccepted(ins)
	return nil
}

func (p *Processor) reject(tag string, err error) {
	reason := Reason(err)
	p.log.Debug("instruction rejected",
		log.String("instruction", tag),
		log.String("reason", reason),
		log.Err(err),
	)
	p.metrics.MarkRejected(tag, reason)
}

// Reason returns a short stable label for [err].
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, instruction.ErrInvalidInstructionData):
		return "invalid_instruction_data"
	case errors.Is(err, topic.ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, ErrNotEnoughAccountKeys):
		return "not_enough_account_keys"
	case errors.Is(err, ErrIllegalOwner):
		return "illegal_owner"
	case errors.Is(err, ErrMissingRequiredSignature):
		return "missing_required_signature"
	case errors.Is(err, ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, ErrInvalidAccountData):
		return "invalid_account_data"
	case errors.Is(err, topic.ErrTooManyOptions):
		return "too_many_options"
	case errors.Is(err, topic.ErrTooManyVoters):
		return "too_many_voters"
	case errors.Is(err, topic.ErrInvalidOptionIndex):
		return "invalid_option_index"
	case errors.Is(err, topic.ErrDuplicateVote):
		return "duplicate_vote"
	case errors.Is(err, topic.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "unknown"
	}
}
