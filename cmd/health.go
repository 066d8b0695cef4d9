package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/textutil"
	"github.com/leap-app/leap/internal/watch"
)

func newHealthCmd(o *rootOptions) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		Example: `  leap health
  leap health --watch "@every 30s"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule != "" {
				if err := watch.Validate(schedule); err != nil {
					return err
				}
			}

			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			if schedule == "" {
				ctx := api.WithOrigin(cmd.Context(), "cli.health")
				status, err := deps.Services.Health.Health(ctx)
				if err != nil {
					return fmt.Errorf("fetch status: %w", err)
				}
				return o.emit(cmd, status, func(w io.Writer) {
					fmt.Fprintf(w, "Status:      %s\n", status.Status)
					fmt.Fprintf(w, "Server time: %s\n", serverTime(status.Timestamp))
				})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(deps.Services.Health, schedule, deps.Config.API.Timeout, func(r watch.Result) {
				printProbe(cmd.OutOrStdout(), r)
			}, deps.Logger)
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&schedule, "watch", "", "Keep probing on a cron schedule (5-field spec or @every <duration>)")
	return cmd
}

func serverTime(ts string) string {
	if t, ok := textutil.ParseTimestamp(ts); ok {
		return t.Local().Format("Jan 02, 2006 15:04:05")
	}
	return orDash(ts)
}

func printProbe(w io.Writer, r watch.Result) {
	at := r.At.Local().Format("15:04:05")
	if r.Err != nil {
		fmt.Fprintf(w, "%s  ✗ %s\n", at, r.Err)
		return
	}
	fmt.Fprintf(w, "%s  ✓ %s (server time %s)\n", at, r.Status.Status, serverTime(r.Status.Timestamp))
}
