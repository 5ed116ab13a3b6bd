// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instruction

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Parse decodes an instruction. Bytes after a fixed size payload are ignored.
//
// A CreateTopic payload without a separator splits at index 0: the topic name
// is empty and the option name is everything after the first payload byte.
// Verify rejects the empty topic name.
func Parse(b []byte) (Instruction, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidInstructionData)
	}

	tag, payload := Tag(b[0]), b[1:]
	switch tag {
	case TagCreateTopic:
		split := bytes.IndexByte(payload, NameSeparator)
		if split < 0 {
			split = 0
		}
		topicName, rest := payload[:split], payload[split:]
		if len(rest) == 0 {
			return nil, fmt.Errorf("%w: missing option name", ErrInvalidInstructionData)
		}
		optionName := rest[1:]
		if !utf8.Valid(topicName) || !utf8.Valid(optionName) {
			return nil, fmt.Errorf("%w: names must be utf-8", ErrInvalidInstructionData)
		}
		return &CreateTopic{
			TopicName:  string(topicName),
			OptionName: string(optionName),
		}, nil
	case TagAddOption:
		if !utf8.Valid(payload) {
			return nil, fmt.Errorf("%w: option name must be utf-8", ErrInvalidInstructionData)
		}
		return &AddOption{
			OptionName: string(payload),
		}, nil
	case TagVoteTopic:
		if len(payload) == 0 {
			return nil, fmt.Errorf("%w: missing option index", ErrInvalidInstructionData)
		}
		return &VoteTopic{
			OptionIndex: payload[0],
		}, nil
	case TagFinishTopic:
		return &FinishTopic{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrInvalidInstructionData, tag)
	}
}
