package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablekeep/tablekeep/internal/auth"
)

func tokenCmd() *cobra.Command {
	var secret, userID string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token signed with the service's JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := auth.IssueToken(secret, userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", envOr("TABLEKEEP_JWT_SECRET", ""), "JWT secret (env TABLEKEEP_JWT_SECRET)")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
