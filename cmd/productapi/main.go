package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "productapi",
	Short:         "productapi: products REST API",
	Long:          "productapi serves the products CRUD API and manages its MongoDB data.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(dbIndexCmd)
	rootCmd.AddCommand(seedCmd)

	// Users & tokens
	rootCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(tokenIssueCmd)
}
