package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leap-app/leap/internal/config"
	"github.com/leap-app/leap/internal/secrets"
)

func newResetCmd(o *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete local request history and the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return err
			}
			dbPath := cfg.Store.Path
			if o.dbPath != "" {
				dbPath = o.dbPath
			}

			if !yes {
				return fmt.Errorf("this deletes %s and the stored token; rerun with --yes to confirm", dbPath)
			}

			// SQLite WAL mode leaves side files next to the database.
			for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
				if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("remove %s: %w", p, err)
				}
			}
			if err := secrets.NewTokenStore(filepath.Dir(dbPath)).Clear(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Local data cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
