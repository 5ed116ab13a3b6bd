// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package instruction defines the four topic instructions and their wire
// format: a tag byte followed by a tag specific payload.
package instruction

import (
	"errors"
	"fmt"

	"github.com/luxfi/topicvm/topic"
)

var ErrInvalidInstructionData = errors.New("invalid instruction data")

var (
	_ Instruction = (*CreateTopic)(nil)
	_ Instruction = (*AddOption)(nil)
	_ Instruction = (*VoteTopic)(nil)
	_ Instruction = (*FinishTopic)(nil)
)

// Tag identifies the instruction type. The values are part of the wire format.
type Tag uint8

const (
	TagCreateTopic Tag = iota
	TagAddOption
	TagVoteTopic
	TagFinishTopic
)

// NameSeparator splits the topic name from the option name in a CreateTopic
// payload.
const NameSeparator byte = '|'

func (t Tag) String() string {
	switch t {
	case TagCreateTopic:
		return "create_topic"
	case TagAddOption:
		return "add_option"
	case TagVoteTopic:
		return "vote_topic"
	case TagFinishTopic:
		return "finish_topic"
	default:
		return "unknown"
	}
}

// Visitor is implemented by anything that handles every instruction type.
type Visitor interface {
	CreateTopic(*CreateTopic) error
	AddOption(*AddOption) error
	VoteTopic(*VoteTopic) error
	FinishTopic(*FinishTopic) error
}

// Instruction is a decoded topic instruction.
type Instruction interface {
	Tag() Tag
	// Bytes returns the wire encoding.
	Bytes() []byte
	// Verify checks the payload can be applied to a topic record.
	Verify() error
	Visit(Visitor) error
}

// CreateTopic initializes an empty topic with its first option.
type CreateTopic struct {
	TopicName  string `json:"topicName"`
	OptionName string `json:"optionName"`
}

func (*CreateTopic) Tag() Tag { return TagCreateTopic }

func (i *CreateTopic) Bytes() []byte {
	b := make([]byte, 0, 2+len(i.TopicName)+len(i.OptionName))
	b = append(b, byte(TagCreateTopic))
	b = append(b, i.TopicName...)
	b = append(b, NameSeparator)
	return append(b, i.OptionName...)
}

func (i *CreateTopic) Verify() error {
	if i.TopicName == "" {
		return topic.ErrEmptyName
	}
	if err := topic.ValidateName(i.TopicName); err != nil {
		return fmt.Errorf("topic name: %w", err)
	}
	if err := topic.ValidateName(i.OptionName); err != nil {
		return fmt.Errorf("option name: %w", err)
	}
	return nil
}

func (i *CreateTopic) Visit(v Visitor) error { return v.CreateTopic(i) }

// AddOption appends an option to an open topic.
type AddOption struct {
	OptionName string `json:"optionName"`
}

func (*AddOption) Tag() Tag { return TagAddOption }

func (i *AddOption) Bytes() []byte {
	b := make([]byte, 0, 1+len(i.OptionName))
	b = append(b, byte(TagAddOption))
	return append(b, i.OptionName...)
}

func (i *AddOption) Verify() error {
	if err := topic.ValidateName(i.OptionName); err != nil {
		return fmt.Errorf("option name: %w", err)
	}
	return nil
}

func (i *AddOption) Visit(v Visitor) error { return v.AddOption(i) }

// VoteTopic records the signer's vote for one option.
type VoteTopic struct {
	OptionIndex uint8 `json:"optionIndex"`
}

func (*VoteTopic) Tag() Tag { return TagVoteTopic }

func (i *VoteTopic) Bytes() []byte {
	return []byte{byte(TagVoteTopic), i.OptionIndex}
}

func (i *VoteTopic) Verify() error {
	if i.OptionIndex >= topic.MaxOptions-1 {
		return fmt.Errorf("%w: %d", topic.ErrInvalidOptionIndex, i.OptionIndex)
	}
	return nil
}

func (i *VoteTopic) Visit(v Visitor) error { return v.VoteTopic(i) }

// FinishTopic closes a topic and records its winner.
type FinishTopic struct{}

func (*FinishTopic) Tag() Tag { return TagFinishTopic }

func (*FinishTopic) Bytes() []byte {
	return []byte{byte(TagFinishTopic)}
}

func (*FinishTopic) Verify() error { return nil }

func (i *FinishTopic) Visit(v Visitor) error { return v.FinishTopic(i) }
