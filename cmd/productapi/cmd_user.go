package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/productapi/app/requests"
	"github.com/shashiranjanraj/productapi/app/services"
	"github.com/shashiranjanraj/productapi/config"
	"github.com/shashiranjanraj/productapi/internal/server"
	"github.com/shashiranjanraj/productapi/pkg/auth"
	"github.com/shashiranjanraj/productapi/pkg/validate"
)

var (
	userEmail    string
	userPassword string
	userName     string
	tokenSubject string
)

// productapi user:create --email --password [--username]
var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Register a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := requests.RegisterUser{Email: userEmail, Password: userPassword, Username: userName}
		if errs := validate.Struct(req); validate.HasErrors(errs) {
			return fmt.Errorf("invalid user: %s", describe(errs))
		}

		return withResources(cmd.Context(), func(res *server.Resources) error {
			if err := res.Users.EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			user, err := services.NewAuthService(res.Users, res.Tokens, nil).Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅  Created user %s (%s)\n", user.Email, user.ID.Hex())
			return nil
		})
	},
}

// productapi token:issue --subject
var tokenIssueCmd = &cobra.Command{
	Use:   "token:issue",
	Short: "Sign a bearer token for a subject (user id)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		token, err := auth.NewTokenService(config.JWTSecret(), config.JWTTTL()).Issue(tokenSubject)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func describe(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = errs[field]
	}
	return strings.Join(parts, "; ")
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "account password (8-72 characters)")
	userCreateCmd.Flags().StringVar(&userName, "username", "", "optional username")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	tokenIssueCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject, usually a user id")
	_ = tokenIssueCmd.MarkFlagRequired("subject")
}
