package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/di"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	apiURL     string
	dbPath     string
	output     string
	screen     string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "leap",
		Short: "Practice challenges and mind content in the terminal",
		Long:  "Leap is a terminal client for the Leap practice API: daily challenges, completions and a curated content library.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch o.output {
			case "table", "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", o.output)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, o)
		},
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Path to config file (overrides LEAP_CONFIG)")
	pf.StringVar(&o.apiURL, "api-url", "", "Leap API base URL (overrides api.base_url)")
	pf.StringVar(&o.dbPath, "db", "", "Path to the request history database (overrides store.path)")
	pf.StringVarP(&o.output, "output", "o", "table", "Output format: table, json or yaml")
	cmd.Flags().StringVar(&o.screen, "screen", "", "Screen to open at startup (e.g. PracticeChallenges)")

	cmd.AddCommand(
		newHealthCmd(o),
		newChallengesCmd(o),
		newCompletionsCmd(o),
		newContentCmd(o),
		newLoginCmd(o),
		newLogoutCmd(o),
		newRequestsCmd(o),
		newDevServerCmd(),
		newResetCmd(o),
		versionCmd,
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// open builds the dependency graph for a command.
func (o *rootOptions) open() (*di.App, func(), error) {
	app, cleanup, err := di.InitializeApp(di.Overrides{
		ConfigPath: o.configPath,
		APIURL:     o.apiURL,
		DBPath:     o.dbPath,
	})
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

func parseID(s string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}
