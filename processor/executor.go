// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package processor

import (
	"fmt"

	"github.com/luxfi/topicvm/instruction"
	"github.com/luxfi/topicvm/topic"
)

var _ instruction.Visitor = (*executor)(nil)

// executor applies a single instruction. Every path decodes the topic, mutates
// the decoded value, and packs it back as its last step.
type executor struct {
	config   Config
	accounts []*Account
}

func (e *executor) CreateTopic(ins *instruction.CreateTopic) error {
	topicAccount, owner, err := e.authorize()
	if err != nil {
		return err
	}
	t, err := topic.ParseTopic(topicAccount.Data)
	if err != nil {
		return err
	}
	if t.IsInitialized() {
		return ErrAlreadyInitialized
	}

	t, err = topic.NewTopic(ins.TopicName, owner.Key)
	if err != nil {
		return err
	}
	if err := t.AddOption(topicAccount.Key, ins.OptionName); err != nil {
		return err
	}
	return t.PackInto(topicAccount.Data)
}

func (e *executor) AddOption(ins *instruction.AddOption) error {
	topicAccount, _, err := e.authorize()
	if err != nil {
		return err
	}
	t, err := openTopic(topicAccount)
	if err != nil {
		return err
	}
	if err := t.AddOption(topicAccount.Key, ins.OptionName); err != nil {
		return err
	}
	return t.PackInto(topicAccount.Data)
}

func (e *executor) VoteTopic(ins *instruction.VoteTopic) error {
	topicAccount, voter, err := e.authorize()
	if err != nil {
		return err
	}
	t, err := openTopic(topicAccount)
	if err != nil {
		return err
	}
	opt, err := t.Option(ins.OptionIndex)
	if err != nil {
		return err
	}
	if e.config.RejectDuplicateVotes && opt.HasVoter(voter.Key) {
		return fmt.Errorf("%w: %s on option %d", topic.ErrDuplicateVote, voter.Key, ins.OptionIndex)
	}
	if err := opt.AddVoter(voter.Key); err != nil {
		return err
	}
	return t.PackInto(topicAccount.Data)
}

func (e *executor) FinishTopic(*instruction.FinishTopic) error {
	topicAccount, owner, err := e.authorize()
	if err != nil {
		return err
	}
	t, err := openTopic(topicAccount)
	if err != nil {
		return err
	}
	if t.Owner != owner.Key {
		return fmt.Errorf("%w: %s is not the topic owner", ErrIllegalOwner, owner.Key)
	}
	t.Finalize()
	return t.PackInto(topicAccount.Data)
}

// authorize returns the topic account and the acting account after checking
// that the program owns the topic account and that the actor signed.
func (e *executor) authorize() (*Account, *Account, error) {
	if len(e.accounts) < 2 {
		return nil, nil, fmt.Errorf("%w: expected 2 but got %d", ErrNotEnoughAccountKeys, len(e.accounts))
	}
	topicAccount, actor := e.accounts[0], e.accounts[1]
	if topicAccount == nil || actor == nil {
		return nil, nil, fmt.Errorf("%w: missing account", ErrNotEnoughAccountKeys)
	}
	if topicAccount.Owner != e.config.ProgramID {
		return nil, nil, fmt.Errorf("%w: topic account %s is owned by %s", ErrIllegalOwner, topicAccount.Key, topicAccount.Owner)
	}
	if !actor.IsSigner {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingRequiredSignature, actor.Key)
	}
	return topicAccount, actor, nil
}

// openTopic decodes the topic and requires it to accept mutations.
func openTopic(account *Account) (*topic.Topic, error) {
	t, err := topic.ParseTopic(account.Data)
	if err != nil {
		return nil, err
	}
	if status := t.Status(); status != topic.Open {
		return nil, fmt.Errorf("%w: topic is %s", ErrInvalidAccountData, status)
	}
	return t, nil
}
