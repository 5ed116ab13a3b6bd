// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instruction

import "github.com/luxfi/ids"

// AccountMeta describes one account an instruction touches.
type AccountMeta struct {
	Key        ids.ID `json:"key"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// Request is an encoded instruction addressed to a program, with its accounts
// in the order the program expects them: the topic account, then the actor.
type Request struct {
	ProgramID ids.ID        `json:"programID"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"data"`
}

// NewRequest verifies [ins] and addresses it to [topicKey] with [actor] as the
// required signer.
func NewRequest(programID, topicKey, actor ids.ID, ins Instruction) (*Request, error) {
	if err := ins.Verify(); err != nil {
		return nil, err
	}
	return &Request{
		ProgramID: programID,
		Accounts: []AccountMeta{
			{Key: topicKey, IsWritable: true},
			{Key: actor, IsSigner: true, IsWritable: true},
		},
		Data: ins.Bytes(),
	}, nil
}

func NewCreateTopicRequest(programID, topicKey, owner ids.ID, topicName, optionName string) (*Request, error) {
	return NewRequest(programID, topicKey, owner, &CreateTopic{
		TopicName:  topicName,
		OptionName: optionName,
	})
}

func NewAddOptionRequest(programID, topicKey, adder ids.ID, optionName string) (*Request, error) {
	return NewRequest(programID, topicKey, adder, &AddOption{
		OptionName: optionName,
	})
}

func NewVoteTopicRequest(programID, topicKey, voter ids.ID, optionIndex uint8) (*Request, error) {
	return NewRequest(programID, topicKey, voter, &VoteTopic{
		OptionIndex: optionIndex,
	})
}

func NewFinishTopicRequest(programID, topicKey, owner ids.ID) (*Request, error) {
	return NewRequest(programID, topicKey, owner, &FinishTopic{})
}
