package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command, o *rootOptions) error {
	deps, cleanup, err := o.open()
	if err != nil {
		return err
	}
	defer cleanup()

	host := deps.Config.API.BaseURL
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}

	if err := app.Run(app.Options{
		Services:   deps.Services,
		Logger:     deps.Logger,
		Host:       host,
		StartRoute: o.screen,
	}); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
