package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablekeep/tablekeep/internal/forms"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/workspace"
)

const dateLayout = "2006-01-02"

// parseNotes reads repeated "ENCOUNTER_ID=text" flags.
func parseNotes(specs []string) (workspace.EncounterNotes, error) {
	notes := workspace.EncounterNotes{}
	for _, s := range specs {
		id, text, ok := strings.Cut(s, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("note %q: want ENCOUNTER_ID=text", s)
		}
		notes[id] = strings.TrimSpace(text)
	}
	return notes, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("date %q: want %s", s, dateLayout)
	}
	return &t, nil
}

func (a *app) sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "sessions", Aliases: []string{"session"}, Short: "Session operations"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			list, err := c.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	})

	var in forms.SessionInput
	var date string
	var notes []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record a session",
		Long:  "Record a session. With --completed every listed encounter is marked completed too.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.SessionDate, err = parseDate(date); err != nil {
				return err
			}
			en, err := parseNotes(notes)
			if err != nil {
				return err
			}
			s, err := in.Build()
			if err != nil {
				return err
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.CreateSession(cmd.Context(), s, en)
			if out != nil {
				if perr := printJSON(cmd.OutOrStdout(), out); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	f := createCmd.Flags()
	f.StringVarP(&in.CampaignID, "campaign", "c", "", "Campaign ID (required)")
	f.StringVar(&in.Title, "title", "", "Title (required)")
	f.StringVar(&in.Notes, "notes", "", "Session notes")
	f.StringSliceVarP(&in.EncounterIDs, "encounter", "e", nil, "Encounter ID, repeatable")
	f.BoolVar(&in.Completed, "completed", false, "Session is already completed")
	f.StringVar(&date, "date", "", "Session date ("+dateLayout+")")
	f.StringArrayVar(&notes, "note", nil, "Encounter note as ENCOUNTER_ID=text, repeatable")
	cmd.AddCommand(createCmd)

	var completeNotes []string
	completeCmd := &cobra.Command{
		Use:   "complete SESSION_ID",
		Short: "Mark a session and its encounters completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			en, err := parseNotes(completeNotes)
			if err != nil {
				return err
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.UpdateSession(cmd.Context(), args[0], model.SessionPatch{Completed: model.Ptr(true)}, en)
			if out != nil {
				if perr := printJSON(cmd.OutOrStdout(), out); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	completeCmd.Flags().StringArrayVar(&completeNotes, "note", nil, "Encounter note as ENCOUNTER_ID=text, repeatable")
	cmd.AddCommand(completeCmd)

	var title, sessNotes, editDate string
	var encounterIDs []string
	editCmd := &cobra.Command{
		Use:   "edit SESSION_ID",
		Short: "Change the given fields of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.SessionPatch{
				Title: optString(cmd, "title", title),
				Notes: optString(cmd, "notes", sessNotes),
			}
			if cmd.Flags().Changed("encounter") {
				p.EncounterIDs = &encounterIDs
			}
			if cmd.Flags().Changed("date") {
				d, err := parseDate(editDate)
				if err != nil {
					return err
				}
				p.SessionDate = d
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to change")
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.UpdateSession(cmd.Context(), args[0], p, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	ef := editCmd.Flags()
	ef.StringVar(&title, "title", "", "Title")
	ef.StringVar(&sessNotes, "notes", "", "Notes")
	ef.StringSliceVarP(&encounterIDs, "encounter", "e", nil, "Replace the encounter list")
	ef.StringVar(&editDate, "date", "", "Session date ("+dateLayout+")")
	cmd.AddCommand(editCmd)
	return cmd
}
