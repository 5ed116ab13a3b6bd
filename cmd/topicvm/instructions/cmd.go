// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package instructions converts topic instructions between their arguments
// and their hex wire encoding.
package instructions

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luxfi/topicvm/instruction"
)

var errInvalidHex = errors.New("invalid hex encoding")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "instruction",
		Short: "Encodes and decodes topic instructions",
	}
	c.AddCommand(
		encodeCommand(),
		decodeCommand(),
	)
	return c
}

func encodeCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "encode",
		Short: "Prints the hex encoding of an instruction",
	}
	c.AddCommand(
		&cobra.Command{
			Use:   "create <topic name> <option name>",
			Short: "Encodes a create topic instruction",
			Args:  cobra.ExactArgs(2),
			RunE: func(c *cobra.Command, args []string) error {
				return printEncoded(c, &instruction.CreateTopic{
					TopicName:  args[0],
					OptionName: args[1],
				})
			},
		},
		&cobra.Command{
			Use:   "add <option name>",
			Short: "Encodes an add option instruction",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return printEncoded(c, &instruction.AddOption{
					OptionName: args[0],
				})
			},
		},
		&cobra.Command{
			Use:   "vote <option index>",
			Short: "Encodes a vote instruction",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				index, err := strconv.ParseUint(args[0], 10, 8)
				if err != nil {
					return fmt.Errorf("invalid option index %q: %w", args[0], err)
				}
				return printEncoded(c, &instruction.VoteTopic{
					OptionIndex: uint8(index),
				})
			},
		},
		&cobra.Command{
			Use:   "finish",
			Short: "Encodes a finish topic instruction",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return printEncoded(c, &instruction.FinishTopic{})
			},
		},
	)
	return c
}

func printEncoded(c *cobra.Command, ins instruction.Instruction) error {
	if err := ins.Verify(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.OutOrStdout(), "0x"+hex.EncodeToString(ins.Bytes()))
	return err
}

// Decoded is the JSON form of a decoded instruction.
type Decoded struct {
	Instruction string                  `json:"instruction"`
	Payload     instruction.Instruction `json:"payload"`
}

func decodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Prints an encoded instruction as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			data, err := ParseHex(args[0])
			if err != nil {
				return err
			}
			ins, err := instruction.Parse(data)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(Decoded{
				Instruction: ins.Tag().String(),
				Payload:     ins,
			}, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), string(out))
			return err
		},
	}
}

// ParseHex decodes [s] with or without a 0x prefix.
func ParseHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidHex, err)
	}
	return b, nil
}
