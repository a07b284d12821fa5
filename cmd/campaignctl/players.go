package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tablekeep/tablekeep/internal/forms"
	"github.com/tablekeep/tablekeep/internal/model"
)

func (a *app) playersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "players", Aliases: []string{"player"}, Short: "Player operations"}

	var campaignID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List players, optionally for one campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" {
				c, err := a.client()
				if err != nil {
					return err
				}
				list, err := c.ListPlayers(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			return printJSON(cmd.OutOrStdout(), w.PlayersByCampaign(campaignID))
		},
	}
	listCmd.Flags().StringVarP(&campaignID, "campaign", "c", "", "Campaign ID")
	cmd.AddCommand(listCmd)

	var in forms.PlayerInput
	var hp, ac int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a player to a campaign",
		Long:  "Add a player to a campaign. Levels outside 1..20 are clamped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.HP = optInt(cmd, "hp", hp)
			in.AC = optInt(cmd, "ac", ac)
			p, err := in.Build()
			if err != nil {
				return err
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.CreatePlayer(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	f := createCmd.Flags()
	f.StringVarP(&in.CampaignID, "campaign", "c", "", "Campaign ID (required)")
	f.StringVar(&in.PlayerName, "name", "", "Player name (required)")
	f.StringVar(&in.CharacterName, "character", "", "Character name (required)")
	f.StringVar(&in.Race, "race", "", "Race (required)")
	f.StringVar(&in.Class, "class", "", "Class (required)")
	f.IntVar(&in.Level, "level", 1, "Level")
	f.IntVar(&hp, "hp", 0, "Hit points")
	f.IntVar(&ac, "ac", 0, "Armor class")
	f.StringVar(&in.Notes, "notes", "", "Notes")
	cmd.AddCommand(createCmd)

	var playerName, character, race, class, notes string
	var level, ehp, eac int
	editCmd := &cobra.Command{
		Use:   "edit PLAYER_ID",
		Short: "Change the given fields of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.PlayerPatch{
				PlayerName:    optString(cmd, "name", playerName),
				CharacterName: optString(cmd, "character", character),
				Race:          optString(cmd, "race", race),
				Class:         optString(cmd, "class", class),
				HP:            optInt(cmd, "hp", ehp),
				AC:            optInt(cmd, "ac", eac),
				Notes:         optString(cmd, "notes", notes),
			}
			if cmd.Flags().Changed("level") {
				p.Level = model.Ptr(forms.ClampLevel(level))
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to change")
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.UpdatePlayer(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	ef := editCmd.Flags()
	ef.StringVar(&playerName, "name", "", "Player name")
	ef.StringVar(&character, "character", "", "Character name")
	ef.StringVar(&race, "race", "", "Race")
	ef.StringVar(&class, "class", "", "Class")
	ef.IntVar(&level, "level", 0, "Level")
	ef.IntVar(&ehp, "hp", 0, "Hit points")
	ef.IntVar(&eac, "ac", 0, "Armor class")
	ef.StringVar(&notes, "notes", "", "Notes")
	cmd.AddCommand(editCmd)
	return cmd
}
