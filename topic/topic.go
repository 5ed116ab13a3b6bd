// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package topic defines the Topic voting record, its options, and the fixed
// binary layout both are stored in.
package topic

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/luxfi/ids"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrTooManyOptions     = fmt.Errorf("%w: too many options", ErrInvalidArgument)
	ErrTooManyVoters      = fmt.Errorf("%w: too many voters", ErrInvalidArgument)
	ErrInvalidOptionIndex = fmt.Errorf("%w: invalid option index", ErrInvalidArgument)
	ErrDuplicateVote      = fmt.Errorf("%w: voter already recorded for option", ErrInvalidArgument)
	ErrFieldTooLong       = fmt.Errorf("%w: field too long", ErrInvalidArgument)
	ErrInvalidName        = fmt.Errorf("%w: invalid name", ErrInvalidArgument)
	ErrEmptyName          = fmt.Errorf("%w: empty topic name", ErrInvalidArgument)
)

// Status is the lifecycle state of a topic. It is derived from the record's
// fields and never stored.
type Status uint8

const (
	Uninitialized Status = iota
	Open
	Finished
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Open:
		return "open"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Option is a single choice of a topic along with the identities that voted
// for it.
type Option struct {
	// BelongsTo is the key of the topic account this option was added to.
	BelongsTo ids.ID   `json:"belongsTo"`
	Index     uint8    `json:"index"`
	Name      string   `json:"name"`
	Voters    []ids.ID `json:"voters"`
}

// NewOption returns an option with no votes.
func NewOption(belongsTo ids.ID, index uint8, name string) (*Option, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Option{
		BelongsTo: belongsTo,
		Index:     index,
		Name:      name,
	}, nil
}

// VoteCount returns the number of votes recorded for this option.
func (o *Option) VoteCount() int {
	return len(o.Voters)
}

// HasVoter reports whether [voter] already voted for this option.
func (o *Option) HasVoter(voter ids.ID) bool {
	for _, v := range o.Voters {
		if v == voter {
			return true
		}
	}
	return false
}

// AddVoter records a vote. The last voter slot is reserved and never filled.
func (o *Option) AddVoter(voter ids.ID) error {
	if len(o.Voters) >= MaxVoters-1 {
		return ErrTooManyVoters
	}
	o.Voters = append(o.Voters, voter)
	return nil
}

func (o *Option) Verify() error {
	switch {
	case o == nil:
		return fmt.Errorf("%w: nil option", ErrInvalidArgument)
	case len(o.Voters) > MaxVoters-1:
		return ErrTooManyVoters
	default:
		return ValidateName(o.Name)
	}
}

// Topic is a named vote with up to MaxOptions-1 options.
type Topic struct {
	Name        string   `json:"name"`
	Options     []Option `json:"options"`
	Owner       ids.ID   `json:"owner"`
	ResultIndex uint8    `json:"resultIndex"`
	Finished    bool     `json:"finished"`
}

// NewTopic returns an open topic with no options.
func NewTopic(name string, owner ids.ID) (*Topic, error) {
	t := &Topic{Owner: owner}
	if err := t.SetName(name); err != nil {
		return nil, err
	}
	return t, nil
}

// IsInitialized reports whether the topic has been created. An empty name is
// the only marker of a fresh record.
func (t *Topic) IsInitialized() bool {
	return t.Name != ""
}

func (t *Topic) Status() Status {
	switch {
	case !t.IsInitialized():
		return Uninitialized
	case t.Finished:
		return Finished
	default:
		return Open
	}
}

// SetName sets the topic name. The name may not be empty, since an empty name
// would leave the record looking uninitialized.
func (t *Topic) SetName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	t.Name = name
	return nil
}

// AddOption appends an option owned by the topic account [topicKey]. The last
// option slot is reserved and never filled.
func (t *Topic) AddOption(topicKey ids.ID, name string) error {
	if len(t.Options) >= MaxOptions-1 {
		return ErrTooManyOptions
	}
	opt, err := NewOption(topicKey, uint8(len(t.Options)), name)
	if err != nil {
		return err
	}
	t.Options = append(t.Options, *opt)
	return nil
}

// Option returns the populated option at [index].
func (t *Topic) Option(index uint8) (*Option, error) {
	if int(index) >= len(t.Options) {
		return nil, fmt.Errorf("%w: %d >= %d", ErrInvalidOptionIndex, index, len(t.Options))
	}
	return &t.Options[index], nil
}

// Vote records [voter] against the option at [index].
func (t *Topic) Vote(index uint8, voter ids.ID) error {
	opt, err := t.Option(index)
	if err != nil {
		return err
	}
	return opt.AddVoter(voter)
}

// Tally returns the vote count of every populated option, by index.
func (t *Topic) Tally() []int {
	counts := make([]int, len(t.Options))
	for i := range t.Options {
		counts[i] = t.Options[i].VoteCount()
	}
	return counts
}

// Winner returns the index of the option with the most votes. Ties go to the
// lowest index.
func (t *Topic) Winner() uint8 {
	var (
		winner int
		most   = -1
	)
	for i, count := range t.Tally() {
		if count > most {
			winner, most = i, count
		}
	}
	return uint8(winner)
}

// Finalize closes the topic and records the winning option.
func (t *Topic) Finalize() {
	t.Finished = true
	t.ResultIndex = t.Winner()
}

func (t *Topic) Verify() error {
	if t == nil {
		return fmt.Errorf("%w: nil topic", ErrInvalidArgument)
	}
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	if len(t.Options) > MaxOptions-1 {
		return ErrTooManyOptions
	}
	for i := range t.Options {
		if err := t.Options[i].Verify(); err != nil {
			return fmt.Errorf("option %d: %w", i, err)
		}
	}
	return nil
}

// ValidateName checks that [name] can be stored in a name field.
func ValidateName(name string) error {
	switch {
	case len(name) >= NameLen:
		return fmt.Errorf("%w: %d bytes, max %d", ErrFieldTooLong, len(name), NameLen-1)
	case strings.IndexByte(name, Delimiter) >= 0:
		return fmt.Errorf("%w: contains %q", ErrInvalidName, Delimiter)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: not utf-8", ErrInvalidName)
	default:
		return nil
	}
}
