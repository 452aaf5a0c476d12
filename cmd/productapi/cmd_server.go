package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/productapi/config"
	"github.com/shashiranjanraj/productapi/internal/kernel"
	"github.com/shashiranjanraj/productapi/internal/server"
	"github.com/shashiranjanraj/productapi/pkg/auth"
)

// productapi serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// productapi route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		// No connections are opened: the kernel only needs the route table.
		deps := kernel.Dependencies{Tokens: auth.NewTokenService(config.JWTSecret(), time.Hour)}
		if addr := config.RedisAddr(); addr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: addr})
			defer rdb.Close()
			deps.Denylist = auth.NewRedisDenylist(rdb, "")
		}

		return printRoutes(cmd.OutOrStdout(), kernel.NewHTTPKernel(deps))
	},
}

func printRoutes(out io.Writer, k *kernel.HTTPKernel) error {
	infos := k.Routes()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
