package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablekeep/tablekeep/internal/forms"
)

func (a *app) chatCmd() *cobra.Command {
	var campaignID string
	var history bool
	cmd := &cobra.Command{
		Use:   "chat [MESSAGE...]",
		Short: "Ask the DM assistant about a campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, err := forms.Required("campaignId", campaignID)
			if err != nil {
				return err
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			conv, err := w.Conversation(cid)
			if err != nil {
				return err
			}
			if history {
				if err := conv.Load(cmd.Context()); err != nil {
					return err
				}
				for _, e := range conv.Entries() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", e.Role, e.Content)
				}
				if len(args) == 0 {
					return nil
				}
			}
			_, msg, err := forms.ChatInput{CampaignID: cid, Message: strings.Join(args, " ")}.Build()
			if err != nil {
				return err
			}
			reply, err := conv.Send(cmd.Context(), msg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.Flags().StringVarP(&campaignID, "campaign", "c", "", "Campaign ID (required)")
	cmd.Flags().BoolVar(&history, "history", false, "Print recent conversation first")
	_ = cmd.MarkFlagRequired("campaign")
	return cmd
}

func (a *app) voiceCmd() *cobra.Command {
	var voiceID, outPath string
	cmd := &cobra.Command{
		Use:   "voice TEXT...",
		Short: "Speak NPC dialogue and save it as MP3",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			audio, err := c.GenerateVoice(cmd.Context(), strings.Join(args, " "), voiceID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, audio, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(audio), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&voiceID, "voice", "", "Vendor voice ID (required)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "npc.mp3", "Output file")
	_ = cmd.MarkFlagRequired("voice")
	return cmd
}

