package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/manyinyire/fleetbackend-sub002/internal/interfaces/cli/migrate"
	"github.com/manyinyire/fleetbackend-sub002/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fleetbackend",
		Short: "Fleet management backend",
		Long:  `Fleet management backend with subscription billing, invoicing and financial reporting.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
