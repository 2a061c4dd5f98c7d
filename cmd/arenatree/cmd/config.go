package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/arenatree/pkg/arenaconfig"
)

// loadConfigWithOverrides resolves the effective Config for a command
// invocation: load from --config (or the default path, if present),
// falling back to arenaconfig.DefaultConfig(), then apply any explicit
// --capacity/--bind/--port flags on top.
func loadConfigWithOverrides(cmd *cobra.Command) (*arenaconfig.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = arenaconfig.GetDefaultConfigPath()
	}

	var config *arenaconfig.Config
	if arenaconfig.ConfigExists(configPath) {
		loaded, err := arenaconfig.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	} else {
		config = arenaconfig.DefaultConfig()
	}

	if capacity, _ := cmd.Flags().GetInt("capacity"); capacity > 0 {
		config.Capacity = capacity
	}
	if bind, _ := cmd.Flags().GetString("bind"); bind != "" {
		config.Bind = bind
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		config.Port = port
	}

	return config, nil
}
