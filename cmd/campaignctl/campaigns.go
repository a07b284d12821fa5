package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablekeep/tablekeep/internal/forms"
	"github.com/tablekeep/tablekeep/internal/model"
)

func (a *app) campaignsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "campaigns", Aliases: []string{"campaign"}, Short: "Campaign operations"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your campaigns, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			list, err := c.ListCampaigns(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	})

	var in forms.CampaignInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			camp, err := in.Build()
			if err != nil {
				return err
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.CreateCampaign(cmd.Context(), camp)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	createCmd.Flags().StringVar(&in.Title, "title", "", "Campaign title (required)")
	createCmd.Flags().StringVar(&in.Description, "description", "", "Description")
	createCmd.Flags().StringVar(&in.LastSession, "last-session", "", "Last session label")
	createCmd.Flags().StringVar(&in.Status, "status", "", "active, paused or completed")
	cmd.AddCommand(createCmd)

	var title, description, lastSession, status string
	editCmd := &cobra.Command{
		Use:   "edit CAMPAIGN_ID",
		Short: "Change the given fields of a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.CampaignPatch{
				Title:       optString(cmd, "title", title),
				Description: optString(cmd, "description", description),
				LastSession: optString(cmd, "last-session", lastSession),
			}
			if cmd.Flags().Changed("status") {
				p.Status = model.Ptr(model.CampaignStatus(strings.ToLower(status)))
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to change")
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.UpdateCampaign(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	editCmd.Flags().StringVar(&title, "title", "", "Title")
	editCmd.Flags().StringVar(&description, "description", "", "Description")
	editCmd.Flags().StringVar(&lastSession, "last-session", "", "Last session label")
	editCmd.Flags().StringVar(&status, "status", "", "active, paused or completed")
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show CAMPAIGN_ID",
		Short: "Show a campaign with its players, encounters, sessions and maps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			camp, ok := w.Campaign(args[0])
			if !ok {
				return fmt.Errorf("campaign %s: %w", args[0], model.ErrNotFound)
			}
			return printJSON(cmd.OutOrStdout(), campaignDetail{
				Campaign:   camp,
				Players:    w.PlayersByCampaign(camp.ID),
				Encounters: w.EncountersByCampaign(camp.ID),
				Sessions:   w.SessionsByCampaign(camp.ID),
				Maps:       w.MapsByCampaign(camp.ID),
			})
		},
	})
	return cmd
}

type campaignDetail struct {
	Campaign   model.Campaign      `json:"campaign"`
	Players    []model.Player      `json:"players"`
	Encounters []model.Encounter   `json:"encounters"`
	Sessions   []model.Session     `json:"sessions"`
	Maps       []model.CampaignMap `json:"maps"`
}
