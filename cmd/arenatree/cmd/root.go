package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/arenatree/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container built by main().
func SetContainer(c *di.Container) {
	container = c
}

var rootCmd = &cobra.Command{
	Use:   "arenatree",
	Short: "arenatree - in-memory ordered map with arena-allocated B+ tree nodes",
	Long: `arenatree hosts an in-memory B+ tree ordered map behind an HTTP API
and a small set of one-shot diagnostic commands. The tree holds no state
between process invocations; persistence is explicitly out of scope.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file (defaults to ~/.config/arenatree/config.yaml)")
	rootCmd.PersistentFlags().Int("capacity", 0, "override tree node capacity (0 keeps the config/default value)")
	rootCmd.PersistentFlags().String("bind", "", "override HTTP bind address")
	rootCmd.PersistentFlags().Int("port", 0, "override HTTP port (0 keeps the config/default value)")
}
