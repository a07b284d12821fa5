package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablekeep/tablekeep/internal/forms"
	"github.com/tablekeep/tablekeep/internal/model"
)

// parseEnemy reads "name[:hp[:ac[:details]]]".
func parseEnemy(s string) (model.Enemy, error) {
	parts := strings.SplitN(s, ":", 4)
	e := model.Enemy{Name: strings.TrimSpace(parts[0])}
	for i, dst := range []**int{&e.HP, &e.AC} {
		if len(parts) <= i+1 || strings.TrimSpace(parts[i+1]) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i+1]))
		if err != nil {
			return model.Enemy{}, fmt.Errorf("enemy %q: %w", s, err)
		}
		*dst = &n
	}
	if len(parts) == 4 {
		e.Details = parts[3]
	}
	return e, nil
}

func parseEnemies(specs []string) ([]model.Enemy, error) {
	out := make([]model.Enemy, 0, len(specs))
	for _, s := range specs {
		e, err := parseEnemy(s)
		if err != nil {
			return nil, err
		}
		if e.Name != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

func (a *app) encountersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "encounters", Aliases: []string{"encounter"}, Short: "Encounter operations"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List encounters, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			list, err := c.ListEncounters(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	})

	var in forms.EncounterInput
	var enemies []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Log an encounter",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Enemies, err = parseEnemies(enemies); err != nil {
				return err
			}
			e, err := in.Build()
			if err != nil {
				return err
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.CreateEncounter(cmd.Context(), e)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	f := createCmd.Flags()
	f.StringVarP(&in.CampaignID, "campaign", "c", "", "Campaign ID (required)")
	f.StringVar(&in.Title, "title", "", "Title (required)")
	f.StringVar(&in.Description, "description", "", "Description")
	f.StringVar(&in.Difficulty, "difficulty", "", "easy, medium or hard")
	f.StringArrayVar(&enemies, "enemy", nil, "Enemy as name[:hp[:ac[:details]]], repeatable")
	f.StringVar(&in.Date, "date", "", "Date label")
	f.StringVar(&in.Notes, "notes", "", "Notes")
	cmd.AddCommand(createCmd)

	var title, description, difficulty, date, notes string
	var editEnemies []string
	var completed bool
	editCmd := &cobra.Command{
		Use:   "edit ENCOUNTER_ID",
		Short: "Change the given fields of an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.EncounterPatch{
				Title:       optString(cmd, "title", title),
				Description: optString(cmd, "description", description),
				Date:        optString(cmd, "date", date),
				Completed:   optBool(cmd, "completed", completed),
				Notes:       optString(cmd, "notes", notes),
			}
			if cmd.Flags().Changed("difficulty") {
				p.Difficulty = model.Ptr(model.Difficulty(strings.ToLower(difficulty)))
			}
			if cmd.Flags().Changed("enemy") {
				list, err := parseEnemies(editEnemies)
				if err != nil {
					return err
				}
				p.Enemies = &list
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to change")
			}
			w, err := a.workspace(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer w.Close()
			out, err := w.UpdateEncounter(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	ef := editCmd.Flags()
	ef.StringVar(&title, "title", "", "Title")
	ef.StringVar(&description, "description", "", "Description")
	ef.StringVar(&difficulty, "difficulty", "", "easy, medium or hard")
	ef.StringArrayVar(&editEnemies, "enemy", nil, "Replace the roster; repeatable")
	ef.StringVar(&date, "date", "", "Date label")
	ef.BoolVar(&completed, "completed", false, "Completed")
	ef.StringVar(&notes, "notes", "", "Notes")
	cmd.AddCommand(editCmd)
	return cmd
}
