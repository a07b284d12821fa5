package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/client"
	"github.com/tablekeep/tablekeep/internal/workspace"
)

const (
	envAPI   = "TABLEKEEP_API_URL"
	envToken = "TABLEKEEP_TOKEN"
)

// app carries the persistent flags shared by every command.
type app struct {
	api   string
	token string
	debug bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "campaignctl",
		Short:         "CLI client for the campaign service REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.api, "api", "a", envOr(envAPI, "http://localhost:8080"), "Campaign service base URL (env "+envAPI+")")
	root.PersistentFlags().StringVarP(&a.token, "token", "t", os.Getenv(envToken), "Bearer token or dev key (env "+envToken+")")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log every HTTP response")

	root.AddCommand(
		a.campaignsCmd(),
		a.playersCmd(),
		a.encountersCmd(),
		a.sessionsCmd(),
		a.mapsCmd(),
		a.chatCmd(),
		a.voiceCmd(),
		tokenCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (a *app) client() (*client.Client, error) {
	if a.token == "" {
		return nil, fmt.Errorf("--token or %s required", envToken)
	}
	return client.New(a.api, a.token, client.WithUserAgent("campaignctl"), client.WithDebugLogging(a.debug))
}

// workspace opens a workspace for the token's user. Load and write failures
// are printed to errOut as they happen.
func (a *app) workspace(ctx context.Context, errOut io.Writer) (*workspace.Workspace, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	userID, err := auth.UnverifiedSubject(a.token)
	if err != nil {
		return nil, err
	}
	notify := workspace.NotifierFunc(func(n workspace.Notification) {
		if n.Level == workspace.LevelError {
			fmt.Fprintf(errOut, "%s: %v\n", n.Message, n.Err)
		}
	})
	return workspace.Open(ctx, c, userID, workspace.WithNotifier(notify))
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optString returns a pointer to v when the flag was set on cmd.
func optString(cmd *cobra.Command, name, v string) *string {
	if cmd.Flags().Changed(name) {
		return &v
	}
	return nil
}

func optInt(cmd *cobra.Command, name string, v int) *int {
	if cmd.Flags().Changed(name) {
		return &v
	}
	return nil
}

func optBool(cmd *cobra.Command, name string, v bool) *bool {
	if cmd.Flags().Changed(name) {
		return &v
	}
	return nil
}
