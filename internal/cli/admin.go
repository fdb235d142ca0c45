package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jask/lendtrack/internal/config"
	"github.com/jask/lendtrack/internal/database"
	"github.com/jask/lendtrack/internal/service"
	"github.com/jask/lendtrack/internal/testdata"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := openDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			ver, dirty, err := database.SchemaVersion(db, cfg.Database.Driver)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]any{"version": ver, "dirty": dirty})
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Database at schema version %d", ver))
			if dirty {
				PrintWarning(cmd.OutOrStdout(), "Schema is marked dirty; a migration failed part way")
			}
			return nil
		},
	}
}

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add sample friends and loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(opts.remote)
			if err != nil {
				return err
			}
			defer b.Close()

			res, err := testdata.Seed(cmd.Context(), b.lender, nil)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Added %d friends and %d items", res.Friends, res.Items))
			return nil
		},
	}
}

var errNeedsLocal = errors.New("this command works on the local database only; drop --remote")

func newResetCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every friend and item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.remote {
				return errNeedsLocal
			}
			if !yes {
				return errors.New("reset deletes all data; pass --yes to confirm")
			}
			b, err := opts.openBackend(false)
			if err != nil {
				return err
			}
			defer b.Close()

			m := &service.MaintenanceService{DB: b.db, Driver: b.cfg.Database.Driver}
			if err := m.Reset(cmd.Context()); err != nil {
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), "All friends and items deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deleting all data")
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise what is lent out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.remote {
				return errNeedsLocal
			}
			b, err := opts.openBackend(false)
			if err != nil {
				return err
			}
			defer b.Close()

			m := &service.MaintenanceService{DB: b.db, Driver: b.cfg.Database.Driver}
			st, err := m.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), st)
			}
			w := cmd.OutOrStdout()
			PrintSection(w, "Lending")
			PrintLabelValue(w, "Friends", strconv.Itoa(st.Friends))
			PrintLabelValue(w, "Items lent", strconv.Itoa(st.ItemsLent))
			PrintLabelValue(w, "Friends holding items", strconv.Itoa(st.Borrowers))
			PrintLabelValue(w, "Schema version", strconv.FormatUint(uint64(st.SchemaVer), 10))
			return nil
		},
	}
}
