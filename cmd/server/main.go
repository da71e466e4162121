// Command server runs the inventory API and its maintenance subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/webshop-inventory/config"
	_ "github.com/shashiranjanraj/webshop-inventory/database/migrations"
	"github.com/shashiranjanraj/webshop-inventory/database/seeders"
	"github.com/shashiranjanraj/webshop-inventory/internal/server"
	"github.com/shashiranjanraj/webshop-inventory/pkg/database"
	"github.com/shashiranjanraj/webshop-inventory/pkg/migration"
)

func main() {
	root := &cobra.Command{
		Use:   "server",
		Short: "Inventory catalogue API",
		RunE: func(*cobra.Command, []string) error {
			return server.Start()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(*cobra.Command, []string) error {
				return server.Start()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Run pending database migrations",
			RunE: func(*cobra.Command, []string) error {
				return withDB(func() error {
					return migration.New(database.DB).Run()
				})
			},
		},
		&cobra.Command{
			Use:   "migrate:rollback",
			Short: "Roll back the last migration batch",
			RunE: func(*cobra.Command, []string) error {
				return withDB(func() error {
					return migration.New(database.DB).Rollback()
				})
			},
		},
		&cobra.Command{
			Use:   "migrate:status",
			Short: "Show the status of every migration",
			RunE: func(*cobra.Command, []string) error {
				return withDB(func() error {
					return migration.New(database.DB).Status()
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Seed the database with the starter catalogue",
			RunE: func(*cobra.Command, []string) error {
				return withDB(func() error {
					return seeders.RunAll(database.DB)
				})
			},
		},
		&cobra.Command{
			Use:   "route:list",
			Short: "List all registered routes",
			RunE: func(*cobra.Command, []string) error {
				if err := server.Boot(); err != nil {
					return err
				}
				for _, info := range server.BuildRouter().Routes() {
					fmt.Printf("%-7s %-30s %s\n", info.Method, info.Path, info.Name)
				}
				return nil
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withDB(fn func() error) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	return fn()
}
