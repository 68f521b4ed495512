package main

import (
	"os"

	"github.com/spf13/cobra"

	"srdashboard/docs"
	"srdashboard/internal/interfaces/cli/migrate"
	"srdashboard/internal/interfaces/cli/seed"
	"srdashboard/internal/interfaces/cli/server"
	"srdashboard/internal/interfaces/cli/token"
)

// @title Service Request Dashboard API
// @version 1.0
// @description Tracks telecom service requests: listing, statistics, CSV export and RCA attachments.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token, e.g. "Bearer eyJ..."

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "srdashboard",
		Short:   "Service request dashboard backend",
		Long:    `srdashboard tracks telecom service requests: API server, migration tools, and administrative commands.`,
		Version: version,
	}

	rootCmd.AddCommand(
		server.NewCommand(version),
		migrate.NewCommand(),
		seed.NewCommand(),
		token.NewCommand(),
	)

	docs.SwaggerInfo.Version = version

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
