// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package topic

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/topicvm/utils/wrappers"
)

const (
	// Delimiter terminates the text of a name field.
	Delimiter byte = '|'

	// NameLen is the width of a name field. One byte is always taken by the
	// delimiter.
	NameLen = 100
	// MaxOptions is the number of option slots in a topic record.
	MaxOptions = 10
	// MaxVoters is the number of voter slots in an option record.
	MaxVoters = 30

	// OptionLen is the packed size of an option:
	// parent id | index | name | voters | voter count
	OptionLen = ids.IDLen + wrappers.ByteLen + NameLen + MaxVoters*ids.IDLen + wrappers.ByteLen

	// TopicLen is the packed size of a topic:
	// name | options | option count | owner | result index | finished
	TopicLen = NameLen + MaxOptions*OptionLen + wrappers.ByteLen + ids.IDLen + wrappers.ByteLen + wrappers.BoolLen

	// TopicAccountSize is the size of the account a topic is stored in. The
	// bytes after TopicLen are padding that is never written.
	TopicAccountSize = 12168
)

// Pack returns the TopicLen byte encoding of the topic.
func (t *Topic) Pack() ([]byte, error) {
	if err := t.Verify(); err != nil {
		return nil, err
	}

	p := wrappers.Packer{
		MaxSize: TopicLen,
		Bytes:   make([]byte, 0, TopicLen),
	}
	p.PackText(t.Name, NameLen, Delimiter)
	for i := range t.Options {
		t.Options[i].pack(&p)
	}
	p.PackZeros((MaxOptions - len(t.Options)) * OptionLen)
	p.PackByte(uint8(len(t.Options)))
	p.PackID(t.Owner)
	p.PackByte(t.ResultIndex)
	p.PackBool(t.Finished)
	if p.Err != nil {
		return nil, fmt.Errorf("couldn't pack topic: %w", p.Err)
	}
	return p.Bytes, nil
}

// PackInto writes the packed topic over the first TopicLen bytes of [dst].
// Bytes past TopicLen are left untouched. Nothing is written on error.
func (t *Topic) PackInto(dst []byte) error {
	if len(dst) < TopicLen {
		return fmt.Errorf("%w: destination holds %d bytes, need %d", ErrMalformedRecord, len(dst), TopicLen)
	}
	b, err := t.Pack()
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// ParseTopic decodes a topic from either a TopicLen record or a
// TopicAccountSize account buffer.
func ParseTopic(b []byte) (*Topic, error) {
	if len(b) != TopicLen && len(b) != TopicAccountSize {
		return nil, fmt.Errorf("%w: expected %d or %d bytes but got %d",
			ErrMalformedRecord,
			TopicLen,
			TopicAccountSize,
			len(b),
		)
	}

	p := wrappers.Packer{Bytes: b[:TopicLen]}
	t := &Topic{
		Name: p.UnpackText(NameLen, Delimiter),
	}
	optionsOffset := p.Offset
	p.Skip(MaxOptions * OptionLen)
	numOptions := p.UnpackByte()
	t.Owner = p.UnpackID()
	t.ResultIndex = p.UnpackByte()
	t.Finished = p.UnpackBool()
	if p.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, p.Err)
	}
	if numOptions > MaxOptions-1 {
		return nil, fmt.Errorf("%w: option count %d exceeds %d", ErrMalformedRecord, numOptions, MaxOptions-1)
	}

	for i := 0; i < int(numOptions); i++ {
		start := optionsOffset + i*OptionLen
		opt, err := ParseOption(b[start : start+OptionLen])
		if err != nil {
			return nil, fmt.Errorf("option %d: %w", i, err)
		}
		t.Options = append(t.Options, *opt)
	}
	return t, nil
}

// Pack returns the OptionLen byte encoding of the option.
func (o *Option) Pack() ([]byte, error) {
	if err := o.Verify(); err != nil {
		return nil, err
	}

	p := wrappers.Packer{
		MaxSize: OptionLen,
		Bytes:   make([]byte, 0, OptionLen),
	}
	o.pack(&p)
	if p.Err != nil {
		return nil, fmt.Errorf("couldn't pack option: %w", p.Err)
	}
	return p.Bytes, nil
}

func (o *Option) pack(p *wrappers.Packer) {
	p.PackID(o.BelongsTo)
	p.PackByte(o.Index)
	p.PackText(o.Name, NameLen, Delimiter)
	for _, voter := range o.Voters {
		p.PackID(voter)
	}
	p.PackZeros((MaxVoters - len(o.Voters)) * ids.IDLen)
	p.PackByte(uint8(len(o.Voters)))
}

// ParseOption decodes an OptionLen byte option record.
func ParseOption(b []byte) (*Option, error) {
	if len(b) != OptionLen {
		return nil, fmt.Errorf("%w: expected %d bytes but got %d", ErrMalformedRecord, OptionLen, len(b))
	}

	p := wrappers.Packer{Bytes: b}
	o := &Option{
		BelongsTo: p.UnpackID(),
		Index:     p.UnpackByte(),
		Name:      p.UnpackText(NameLen, Delimiter),
	}
	votersOffset := p.Offset
	p.Skip(MaxVoters * ids.IDLen)
	numVoters := p.UnpackByte()
	if p.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, p.Err)
	}
	if numVoters > MaxVoters-1 {
		return nil, fmt.Errorf("%w: voter count %d exceeds %d", ErrMalformedRecord, numVoters, MaxVoters-1)
	}

	p.Offset = votersOffset
	for i := 0; i < int(numVoters); i++ {
		o.Voters = append(o.Voters, p.UnpackID())
	}
	return o, nil
}
