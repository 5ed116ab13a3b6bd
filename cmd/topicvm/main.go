// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/topicvm"
	"github.com/luxfi/topicvm/cmd/topicvm/instructions"
	"github.com/luxfi/topicvm/cmd/topicvm/record"
	"github.com/luxfi/topicvm/cmd/topicvm/serve"
)

func init() {
	cobra.EnablePrefixMatching = true
}

func main() {
	cmd := &cobra.Command{
		Use:     "topicvm",
		Short:   "Manages topic voting records",
		Version: topicvm.Version.String(),
	}
	cmd.AddCommand(
		instructions.Command(),
		record.Command(),
		serve.Command(),
	)
	ctx := context.Background()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "command failed %v\n", err)
		os.Exit(1)
	}
}
