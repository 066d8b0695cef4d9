package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/store"
)

func newRequestsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Inspect the local history of API requests",
	}
	cmd.AddCommand(newRequestsListCmd(o), newRequestsViewCmd(o), newRequestsStatsCmd(o))
	return cmd
}

func newRequestsListCmd(o *rootOptions) *cobra.Command {
	var (
		limit  int
		failed bool
		origin string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent API requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := deps.Store.EventRepo().QueryRequests(cmd.Context(), store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			filtered := events[:0]
			for _, e := range events {
				if failed && e.Success {
					continue
				}
				if origin != "" && e.Origin != origin {
					continue
				}
				filtered = append(filtered, e)
			}

			return o.emit(cmd, filtered, func(w io.Writer) {
				if len(filtered) == 0 {
					fmt.Fprintln(w, "No requests recorded.")
					return
				}
				fmt.Fprintf(w, "%-5s  %-19s  %-6s  %-40s  %-6s  %-7s  %s\n",
					"ID", "Timestamp", "Method", "Path", "Status", "Ms", "OK")
				fmt.Fprintln(w, rule(100))
				for _, e := range filtered {
					ok := "✓"
					if !e.Success {
						ok = "✗"
					}
					path := e.Path
					if len(path) > 40 {
						path = path[:40]
					}
					fmt.Fprintf(w, "%-5d  %-19s  %-6s  %-40s  %-6d  %-7d  %s\n",
						e.ID,
						e.Timestamp.Local().Format("2006-01-02 15:04:05"),
						e.Method,
						path,
						e.StatusCode,
						e.LatencyMs,
						ok,
					)
				}
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show failed requests")
	cmd.Flags().StringVar(&origin, "origin", "", "Only show requests issued by this screen or command")
	return cmd
}

func newRequestsViewCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "View one recorded request",
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

			e, err := deps.Store.EventRepo().GetRequest(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			return o.emit(cmd, e, func(w io.Writer) {
				fmt.Fprintf(w, "ID:         %d\n", e.ID)
				fmt.Fprintf(w, "Sequence:   %d\n", e.Sequence)
				fmt.Fprintf(w, "Time:       %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(w, "Request ID: %s\n", e.RequestID)
				fmt.Fprintf(w, "Request:    %s %s\n", e.Method, e.Path)
				fmt.Fprintf(w, "Origin:     %s\n", e.Origin)
				fmt.Fprintf(w, "Status:     %d\n", e.StatusCode)
				fmt.Fprintf(w, "Latency:    %dms\n", e.LatencyMs)
				fmt.Fprintf(w, "Success:    %v\n", e.Success)
				if e.ErrorMessage != "" {
					fmt.Fprintf(w, "Error:      %s\n", e.ErrorMessage)
				}
			})
		},
	}
}

func newRequestsStatsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show request counts, failures and latency per endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, cleanup, err := o.open()
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := deps.Store.EventRepo().UsageByPath(cmd.Context())
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}

			return o.emit(cmd, stats, func(w io.Writer) {
				if len(stats) == 0 {
					fmt.Fprintln(w, "No requests recorded yet.")
					return
				}
				fmt.Fprintln(w, "Usage by Endpoint")
				fmt.Fprintln(w, rule(80))
				fmt.Fprintf(w, "%-6s  %-42s  %6s  %8s  %8s\n", "Method", "Path", "Calls", "Failures", "Avg Ms")
				fmt.Fprintln(w, rule(80))

				var calls, failures int
				for _, st := range stats {
					fmt.Fprintf(w, "%-6s  %-42s  %6d  %8d  %8d\n",
						st.Method, st.Path, st.Calls, st.Failures, st.AvgLatencyMs)
					calls += st.Calls
					failures += st.Failures
				}

				fmt.Fprintln(w, rule(80))
				fmt.Fprintf(w, "%-6s  %-42s  %6d  %8d\n", "TOTAL", "", calls, failures)
			})
		},
	}
}
