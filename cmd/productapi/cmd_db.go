package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/productapi/config"
	"github.com/shashiranjanraj/productapi/database/seeders"
	"github.com/shashiranjanraj/productapi/internal/server"
)

// withResources opens the store for the duration of fn.
func withResources(ctx context.Context, fn func(res *server.Resources) error) error {
	res, err := server.Open(ctx)
	if err != nil {
		return err
	}
	defer res.Close(context.Background())
	return fn(res)
}

// productapi db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the MongoDB indexes the API relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withResources(cmd.Context(), func(res *server.Resources) error {
			if err := res.Users.EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅  Indexes ensured on %s\n", config.MongoDatabase())
			return nil
		})
	},
}

// productapi seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withResources(cmd.Context(), func(res *server.Resources) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(cmd.Context(), res.Store.DB(), cmd.OutOrStdout())
		})
	},
}
