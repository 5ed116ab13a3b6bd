// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package record operates on topic records stored in plain files.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/topicvm/cmd/topicvm/instructions"
	"github.com/luxfi/topicvm/metrics"
	"github.com/luxfi/topicvm/processor"
	"github.com/luxfi/topicvm/topic"
)

const filePerms = 0o644

var errFileExists = errors.New("file already exists")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "record",
		Short: "Creates, inspects and updates topic record files",
	}

	initCmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Writes an empty record file",
		Args:  cobra.ExactArgs(1),
		RunE:  initFunc,
	}
	AddInitFlags(initCmd.Flags())

	applyCmd := &cobra.Command{
		Use:   "apply <file> <instruction hex>",
		Short: "Applies an instruction to a record file",
		Args:  cobra.ExactArgs(2),
		RunE:  applyFunc,
	}
	AddApplyFlags(applyCmd.Flags())

	c.AddCommand(
		initCmd,
		&cobra.Command{
			Use:   "inspect <file>",
			Short: "Prints a record file as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  inspectFunc,
		},
		applyCmd,
	)
	return c
}

func initFunc(c *cobra.Command, args []string) error {
	size, err := c.Flags().GetInt(SizeKey)
	if err != nil {
		return err
	}
	if size != topic.TopicLen && size != topic.TopicAccountSize {
		return fmt.Errorf("%w: size must be %d or %d but got %d",
			topic.ErrMalformedRecord, topic.TopicLen, topic.TopicAccountSize, size)
	}

	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", errFileExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return renameio.WriteFile(path, make([]byte, size), filePerms)
}

// Inspection is the JSON form of a record file.
type Inspection struct {
	Status string       `json:"status"`
	Tally  []int        `json:"tally"`
	Topic  *topic.Topic `json:"topic"`
}

func inspectFunc(c *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	t, err := topic.ParseTopic(data)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(Inspection{
		Status: t.Status().String(),
		Tally:  t.Tally(),
		Topic:  t,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.OutOrStdout(), string(out))
	return err
}

func applyFunc(c *cobra.Command, args []string) error {
	config, err := ParseApplyFlags(c.Flags())
	if err != nil {
		return err
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	insBytes, err := instructions.ParseHex(args[1])
	if err != nil {
		return err
	}

	m, err := metrics.New("", metric.NewRegistry())
	if err != nil {
		return err
	}
	p := processor.New(config.Processor, log.NoLog{}, m)
	accounts := []*processor.Account{
		{
			Key:   config.TopicKey,
			Owner: config.Owner,
			Data:  data,
		},
		{
			Key:      config.Actor,
			IsSigner: config.Signer,
		},
	}
	if err := p.Process(accounts, insBytes); err != nil {
		return err
	}
	return renameio.WriteFile(path, data, filePerms)
}
