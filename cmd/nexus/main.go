// Command nexus runs the storefront server and its maintenance tasks.
//
//	nexus serve            start HTTP (and gRPC health when GRPC_PORT is set)
//	nexus migrate          apply pending migrations
//	nexus migrate:rollback roll back the last batch
//	nexus migrate:status   show migration state
//	nexus seed             run the seeders
//	nexus route:list       print the route table
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	// Register migrations.
	_ "github.com/shashiranjanraj/nexus/database/migrations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "nexus",
	Short:         "Nexus storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
