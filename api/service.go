// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api serves the topic JSON-RPC API.
package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/utils/json"

	"github.com/luxfi/topicvm/instruction"
	"github.com/luxfi/topicvm/runtime"
	"github.com/luxfi/topicvm/topic"
	utiljson "github.com/luxfi/topicvm/utils/json"
	utilmetric "github.com/luxfi/topicvm/utils/metric"
)

// Name is the JSON-RPC service name.
const Name = "topic"

var (
	errNotTopicAccount    = errors.New("account is not owned by the topic program")
	errUnknownInstruction = errors.New("unknown instruction")
	errInvalidTxEncoding  = errors.New("invalid transaction encoding")
)

// NewHandler returns the JSON-RPC handler for the topic service. [interceptor]
// may be nil.
func NewHandler(log log.Logger, backend Backend, interceptor utilmetric.APIInterceptor) (http.Handler, error) {
	server := rpc.NewServer()
	codec := json.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if interceptor != nil {
		server.RegisterInterceptFunc(interceptor.InterceptRequest)
		server.RegisterAfterFunc(interceptor.AfterRequest)
	}
	return server, server.RegisterService(NewService(log, backend), Name)
}

// Service is the API service for topic accounts
type Service struct {
	log     log.Logger
	backend Backend
}

func NewService(log log.Logger, backend Backend) *Service {
	return &Service{
		log:     log,
		backend: backend,
	}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (s *Service) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	s.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "ping"),
	)

	reply.Success = true
	return nil
}

type OptionReply struct {
	Index  utiljson.Uint8 `json:"index"`
	Name   string         `json:"name"`
	Votes  json.Uint64    `json:"votes"`
	Voters []ids.ID       `json:"voters"`
}

type TopicReply struct {
	Key         ids.ID         `json:"key"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	Owner       ids.ID         `json:"owner"`
	Options     []OptionReply  `json:"options"`
	ResultIndex utiljson.Uint8 `json:"resultIndex"`
	Finished    bool           `json:"finished"`
}

func newTopicReply(key ids.ID, t *topic.Topic) TopicReply {
	reply := TopicReply{
		Key:         key,
		Name:        t.Name,
		Status:      t.Status().String(),
		Owner:       t.Owner,
		Options:     make([]OptionReply, len(t.Options)),
		ResultIndex: utiljson.Uint8(t.ResultIndex),
		Finished:    t.Finished,
	}
	for i, opt := range t.Options {
		reply.Options[i] = OptionReply{
			Index:  utiljson.Uint8(opt.Index),
			Name:   opt.Name,
			Votes:  json.Uint64(opt.VoteCount()),
			Voters: opt.Voters,
		}
	}
	return reply
}

type GetTopicArgs struct {
	Key ids.ID `json:"key"`
}

type GetTopicReply struct {
	Topic TopicReply `json:"topic"`
}

// GetTopic decodes the topic stored at a key
func (s *Service) GetTopic(_ *http.Request, args *GetTopicArgs, reply *GetTopicReply) error {
	s.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getTopic"),
		log.Stringer("key", args.Key),
	)

	t, err := s.getTopic(args.Key)
	if err != nil {
		return err
	}
	reply.Topic = newTopicReply(args.Key, t)
	return nil
}

func (s *Service) getTopic(key ids.ID) (*topic.Topic, error) {
	account, err := s.backend.GetAccount(key)
	if err != nil {
		return nil, err
	}
	if account.Owner != s.backend.ProgramID() {
		return nil, fmt.Errorf("%w: %s", errNotTopicAccount, key)
	}
	return topic.ParseTopic(account.Data)
}

type TopicSummary struct {
	Key     ids.ID      `json:"key"`
	Name    string      `json:"name"`
	Status  string      `json:"status"`
	Options json.Uint64 `json:"options"`
}

type ListTopicsReply struct {
	Topics []TopicSummary `json:"topics"`
}

// ListTopics returns every readable topic account in key order
func (s *Service) ListTopics(_ *http.Request, _ *struct{}, reply *ListTopicsReply) error {
	s.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "listTopics"),
	)

	reply.Topics = []TopicSummary{}
	for _, key := range s.backend.Keys() {
		t, err := s.getTopic(key)
		if errors.Is(err, errNotTopicAccount) {
			continue
		}
		if err != nil {
			s.log.Debug("skipping unreadable topic",
				log.Stringer("key", key),
				log.Err(err),
			)
			continue
		}
		reply.Topics = append(reply.Topics, TopicSummary{
			Key:     key,
			Name:    t.Name,
			Status:  t.Status().String(),
			Options: json.Uint64(len(t.Options)),
		})
	}
	return nil
}

type CreateAccountArgs struct {
	Key ids.ID `json:"key"`
	// Size defaults to a full topic account
	Size json.Uint64 `json:"size"`
}

type CreateAccountReply struct {
	Key  ids.ID      `json:"key"`
	Size json.Uint64 `json:"size"`
}

// CreateAccount allocates an empty topic account
func (s *Service) CreateAccount(_ *http.Request, args *CreateAccountArgs, reply *CreateAccountReply) error {
	s.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "createAccount"),
		log.Stringer("key", args.Key),
	)

	size := args.Size
	if size == 0 {
		size = topic.TopicAccountSize
	}
	if size > json.Uint64(runtime.MaxAccountSize) {
		return fmt.Errorf("%w: %d", runtime.ErrInvalidAccountSize, size)
	}
	if err := s.backend.CreateAccount(args.Key, int(size)); err != nil {
		return err
	}
	reply.Key = args.Key
	reply.Size = size
	return nil
}

type SubmitTxArgs struct {
	// Tx is the hex encoded signed transaction, with or without a 0x prefix
	Tx string `json:"tx"`
}

type SubmitTxReply struct {
	TxID ids.ID `json:"txID"`
}

// SubmitTx executes a signed transaction
func (s *Service) SubmitTx(_ *http.Request, args *SubmitTxArgs, reply *SubmitTxReply) error {
	s.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "submitTx"),
	)

	txBytes, err := hex.DecodeString(strings.TrimPrefix(args.Tx, "0x"))
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidTxEncoding, err)
	}
	tx, err := runtime.ParseTx(txBytes)
	if err != nil {
		return err
	}
	if err := s.backend.Execute(tx); err != nil {
		return err
	}
	reply.TxID = tx.ID()
	return nil
}

type EncodeInstructionArgs struct {
	// Instruction is one of create_topic, add_option, vote_topic or
	// finish_topic
	Instruction string         `json:"instruction"`
	TopicName   string         `json:"topicName"`
	OptionName  string         `json:"optionName"`
	OptionIndex utiljson.Uint8 `json:"optionIndex"`
}

type EncodeInstructionReply struct {
	Data string `json:"data"`
}

// EncodeInstruction returns the hex encoded instruction data
func (s *Service) EncodeInstruction(_ *http.Request, args *EncodeInstructionArgs, reply *EncodeInstructionReply) error {
	s.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "encodeInstruction"),
		log.String("instruction", args.Instruction),
	)

	var ins instruction.Instruction
	switch args.Instruction {
	case instruction.TagCreateTopic.String():
		ins = &instruction.CreateTopic{
			TopicName:  args.TopicName,
			OptionName: args.OptionName,
		}
	case instruction.TagAddOption.String():
		ins = &instruction.AddOption{
			OptionName: args.OptionName,
		}
	case instruction.TagVoteTopic.String():
		ins = &instruction.VoteTopic{
			OptionIndex: uint8(args.OptionIndex),
		}
	case instruction.TagFinishTopic.String():
		ins = &instruction.FinishTopic{}
	default:
		return fmt.Errorf("%w: %q", errUnknownInstruction, args.Instruction)
	}
	if err := ins.Verify(); err != nil {
		return err
	}
	reply.Data = "0x" + hex.EncodeToString(ins.Bytes())
	return nil
}
