// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/luxfi/topicvm/config"
)

const ConfigKey = "config"

func AddFlags(flags *pflag.FlagSet) {
	flags.String(ConfigKey, "", "Path to a JSON config file, defaults are used when empty")
}

// ParseFlags loads the config file named by the flags over the defaults.
func ParseFlags(flags *pflag.FlagSet) (config.Config, error) {
	path, err := flags.GetString(ConfigKey)
	if err != nil {
		return config.Config{}, err
	}

	var data []byte
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, cfg.Verify()
}
