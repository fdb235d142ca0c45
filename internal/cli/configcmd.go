package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/lendtrack/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the config file",
	}
	cmd.AddCommand(newConfigPathCmd(opts), newConfigInitCmd(opts))
	return cmd
}

func newConfigPathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the config file is read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]string{"path": config.Path()})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.Path())
			return err
		},
	}
}

func newConfigInitCmd(opts *options) *cobra.Command {
	var (
		force  bool
		driver string
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the config file",
		Long: `Write the effective settings (defaults, environment and any existing file) to the
config file. Passwords and API tokens are left out; keep them in the environment or use login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists; pass --force to overwrite", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if driver != "" {
				cfg.Database.Driver = driver
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			if opts.apiURL != "" {
				cfg.Client.BaseURL = opts.apiURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]string{"path": path})
			}
			PrintSuccess(cmd.OutOrStdout(), "Config written to "+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&driver, "driver", "", "Database driver: sqlite3 or postgres")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite database file")
	return cmd
}
