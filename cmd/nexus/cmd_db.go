package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/nexus/database/seeders"
	"github.com/shashiranjanraj/nexus/internal/server"
	"github.com/shashiranjanraj/nexus/pkg/database"
	"github.com/shashiranjanraj/nexus/pkg/migration"
)

// nexus migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		n, err := migration.New(db, os.Stdout).Run()
		if err != nil {
			return err
		}
		fmt.Printf("Applied %d migration(s).\n", n)
		return nil
	},
}

// nexus migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:     "migrate:rollback",
	Aliases: []string{"migrate:down"},
	Short:   "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		n, err := migration.New(db, os.Stdout).Rollback()
		if err != nil {
			return err
		}
		fmt.Printf("Rolled back %d migration(s).\n", n)
		return nil
	},
}

// nexus migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		states, err := migration.New(db, nil).Status()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range states {
			batch := "-"
			if s.Ran {
				batch = fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%t\t%s\n", s.Name, s.Ran, batch)
		}
		return w.Flush()
	},
}

// nexus seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := server.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return seeders.RunAll(cmd.Context(), db, os.Stdout)
	},
}
