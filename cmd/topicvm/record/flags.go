// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record

import (
	"github.com/spf13/pflag"

	"github.com/luxfi/ids"

	"github.com/luxfi/topicvm/config"
	"github.com/luxfi/topicvm/processor"
	"github.com/luxfi/topicvm/topic"
)

const (
	SizeKey                 = "size"
	TopicKeyKey             = "topic-key"
	ActorKey                = "actor"
	SignerKey               = "signer"
	ProgramIDKey            = "program-id"
	OwnerKey                = "owner"
	RejectDuplicateVotesKey = "reject-duplicate-votes"
)

func AddInitFlags(flags *pflag.FlagSet) {
	flags.Int(SizeKey, topic.TopicAccountSize, "Size of the record file in bytes")
}

func AddApplyFlags(flags *pflag.FlagSet) {
	flags.String(TopicKeyKey, ids.Empty.String(), "Key of the topic account stored in the record file")
	flags.String(ActorKey, "", "Key of the account issuing the instruction (required)")
	flags.Bool(SignerKey, true, "Whether the actor signed the instruction")
	flags.String(ProgramIDKey, config.DefaultProgramID.String(), "Program that processes the instruction")
	flags.String(OwnerKey, "", "Owner of the record file, defaults to the program")
	flags.Bool(RejectDuplicateVotesKey, false, "Reject a second vote by the same actor on the same option")
}

type ApplyConfig struct {
	TopicKey  ids.ID
	Actor     ids.ID
	Signer    bool
	Owner     ids.ID
	Processor processor.Config
}

func ParseApplyFlags(flags *pflag.FlagSet) (*ApplyConfig, error) {
	topicKey, err := parseID(flags, TopicKeyKey)
	if err != nil {
		return nil, err
	}
	actor, err := parseID(flags, ActorKey)
	if err != nil {
		return nil, err
	}
	signer, err := flags.GetBool(SignerKey)
	if err != nil {
		return nil, err
	}
	programID, err := parseID(flags, ProgramIDKey)
	if err != nil {
		return nil, err
	}
	ownerStr, err := flags.GetString(OwnerKey)
	if err != nil {
		return nil, err
	}
	owner := programID
	if ownerStr != "" {
		owner, err = ids.FromString(ownerStr)
		if err != nil {
			return nil, err
		}
	}
	rejectDuplicateVotes, err := flags.GetBool(RejectDuplicateVotesKey)
	if err != nil {
		return nil, err
	}
	return &ApplyConfig{
		TopicKey: topicKey,
		Actor:    actor,
		Signer:   signer,
		Owner:    owner,
		Processor: processor.Config{
			ProgramID:            programID,
			RejectDuplicateVotes: rejectDuplicateVotes,
		},
	}, nil
}

func parseID(flags *pflag.FlagSet, key string) (ids.ID, error) {
	s, err := flags.GetString(key)
	if err != nil {
		return ids.Empty, err
	}
	return ids.FromString(s)
}
