package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/textutil"
)

func newCompletionsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completions",
		Short: "Inspect your challenge completions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your completions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := api.WithOrigin(cmd.Context(), "cli.completions.list")
			list, err := deps.Services.Challenges.GetMyChallengeCompletions(ctx)
			if err != nil {
				return fmt.Errorf("list completions: %w", err)
			}

			return o.emit(cmd, list, func(w io.Writer) {
				if len(list) == 0 {
					fmt.Fprintln(w, "You haven't completed any challenges yet.")
					return
				}
				fmt.Fprintf(w, "%-5s  %-12s  %-14s  %-26s  %s\n", "ID", "Date", "Status", "Challenge", "Response")
				fmt.Fprintln(w, rule(90))
				for _, c := range list {
					title := api.Deref(c.ChallengeTitle)
					if title == "" {
						title = fmt.Sprintf("Challenge #%d", c.ChallengeTemplateID)
					}
					date := "-"
					if c.CompletedAt != nil {
						date = textutil.FormatDate(*c.CompletedAt)
					}
					fmt.Fprintf(w, "%-5d  %-12s  %-14s  %-26s  %s\n",
						c.ID, date, c.Status, textutil.Truncate(title, 26),
						orDash(textutil.Truncate(api.Deref(c.UserResponse), 30)))
				}
			})
		},
	})
	return cmd
}
