package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tablekeep/tablekeep/internal/forms"
	"github.com/tablekeep/tablekeep/internal/model"
)

func (a *app) mapsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "maps", Aliases: []string{"map"}, Short: "Map file operations"}

	var campaignID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded maps",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			if campaignID != "" {
				return printJSON(cmd.OutOrStdout(), w.MapsByCampaign(campaignID))
			}
			return printJSON(cmd.OutOrStdout(), w.Maps())
		},
	}
	listCmd.Flags().StringVarP(&campaignID, "campaign", "c", "", "Campaign ID")
	cmd.AddCommand(listCmd)

	var up model.MapUpload
	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a map file to a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := forms.Required("campaignId", up.CampaignID); err != nil {
				return err
			}
			title, err := forms.Required("title", up.Title)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			u := up
			u.Title = title
			u.Filename = filepath.Base(args[0])
			u.Body = f
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.UploadMap(cmd.Context(), u)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	uploadCmd.Flags().StringVarP(&up.CampaignID, "campaign", "c", "", "Campaign ID (required)")
	uploadCmd.Flags().StringVar(&up.Title, "title", "", "Title (required)")
	uploadCmd.Flags().StringVar(&up.Description, "description", "", "Description")
	uploadCmd.Flags().StringVar(&up.ContentType, "content-type", "", "Content type; guessed from the extension when empty")
	cmd.AddCommand(uploadCmd)

	var outPath string
	downloadCmd := &cobra.Command{
		Use:   "download MAP_ID",
		Short: "Download a map file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var dst io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				dst = f
			}
			n, err := c.DownloadMap(cmd.Context(), args[0], dst)
			if err != nil {
				return err
			}
			if dst != cmd.OutOrStdout() {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", n, outPath)
			}
			return nil
		},
	}
	downloadCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default stdout)")
	cmd.AddCommand(downloadCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete MAP_ID",
		Short: "Delete a map and its file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.DeleteMap(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})
	return cmd
}
