package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arenatree HTTP server",
	Long: `Start the arenatree HTTP server, backed by a fresh in-memory tree.

Example:
  arenatree serve --port=8080 --capacity=64`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfigWithOverrides(cmd)
		if err != nil {
			return fmt.Errorf("failed to resolve config: %w", err)
		}

		server, err := container.GetServerFactory().CreateServer(config)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
