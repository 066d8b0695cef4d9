package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/forms"
	"github.com/leap-app/leap/internal/textutil"
)

func newChallengesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "challenges",
		Aliases: []string{"ch"},
		Short:   "Browse and complete practice challenges",
	}
	cmd.AddCommand(newChallengesListCmd(o), newChallengesShowCmd(o), newChallengesCompleteCmd(o))
	return cmd
}

func newChallengesListCmd(o *rootOptions) *cobra.Command {
	var (
		difficulty string
		skill      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active challenge templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := api.TemplateFilter{AssociatedSkillID: skill}
			if difficulty != "" {
				d, err := parseDifficulty(difficulty)
				if err != nil {
					return err
				}
				filter.Difficulty = d
			}

			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.challenges.list")
			templates, err := deps.Services.Challenges.GetChallengeTemplates(ctx, filter)
			if err != nil {
				return fmt.Errorf("list challenges: %w", err)
			}

			return o.emit(cmd, templates, func(w io.Writer) {
				if len(templates) == 0 {
					fmt.Fprintln(w, "No challenges found for the selected filters.")
					return
				}
				fmt.Fprintf(w, "%-5s  %-8s  %-12s  %s\n", "ID", "Level", "Type", "Title")
				fmt.Fprintln(w, rule(72))
				for _, t := range templates {
					fmt.Fprintf(w, "%-5d  %-8s  %-12s  %s\n",
						t.ID, t.Difficulty.Label(), t.ChallengeType.Label(), textutil.Truncate(t.Title, 44))
				}
			})
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Filter by difficulty: easy, medium or hard")
	cmd.Flags().IntVar(&skill, "skill", 0, "Filter by associated skill id")
	return cmd
}

func parseDifficulty(s string) (api.Difficulty, error) {
	for _, d := range api.Difficulties {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

func newChallengesShowCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one challenge template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.challenges.show")
			t, err := deps.Services.Challenges.GetChallengeTemplateByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get challenge: %w", err)
			}

			return o.emit(cmd, t, func(w io.Writer) {
				fmt.Fprintf(w, "ID:         %d\n", t.ID)
				fmt.Fprintf(w, "Title:      %s\n", t.Title)
				fmt.Fprintf(w, "Difficulty: %s\n", t.Difficulty.Label())
				fmt.Fprintf(w, "Type:       %s\n", t.ChallengeType.Label())
				if t.AssociatedSkillID != nil {
					fmt.Fprintf(w, "Skill:      %d\n", *t.AssociatedSkillID)
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, textutil.PlainText(t.Description))
			})
		},
	}
}

func newChallengesCompleteCmd(o *rootOptions) *cobra.Command {
	var (
		response string
		done     bool
	)

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Submit a completion for a challenge",
		Long: `Submit a completion. Text challenges need --response, checkbox
challenges need --done, and photo challenges take an optional --response
link to the photo.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.challenges.complete")
			t, err := deps.Services.Challenges.GetChallengeTemplateByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get challenge: %w", err)
			}

			req, err := forms.BuildCompletion(*t, response, done)
			if err != nil {
				return err
			}

			c, err := deps.Services.Challenges.SubmitChallengeCompletion(ctx, req)
			if err != nil {
				return writeErr("submit completion", err)
			}

			return o.emit(cmd, c, func(w io.Writer) {
				fmt.Fprintln(w, "Challenge completion submitted!")
				fmt.Fprintf(w, "Completion #%d: %s\n", c.ID, c.Status)
			})
		},
	}

	cmd.Flags().StringVar(&response, "response", "", "Answer for text challenges, or a photo link")
	cmd.Flags().BoolVar(&done, "done", false, "Mark a checkbox challenge as completed")
	return cmd
}
