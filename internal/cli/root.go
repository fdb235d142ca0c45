// Package cli is the lendtrack command line.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	remote     bool
	apiURL     string
	jsonOutput bool
}

var (
	groupTitleColor = color.New(color.FgCyan, color.Bold)
)

// NewRootCmd builds the full command tree.
func NewRootCmd(version string) *cobra.Command {
	if version == "" {
		version = "dev"
	}
	opts := &options{}

	root := &cobra.Command{
		Use:     "lendtrack",
		Version: version,
		Short:   "Keep track of what you lent to whom",
		Long: `lendtrack remembers the things you lend to friends.

Record a loan with "give", clear it with "takeback", and browse everything in the
terminal UI. Commands work on the local database, or on a running API with --remote.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				return os.Setenv("LENDTRACK_CONFIG", opts.configPath)
			}
			return nil
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/lendtrack/config.toml)")
	flags.BoolVar(&opts.remote, "remote", false, "Use the REST API instead of the local database")
	flags.StringVar(&opts.apiURL, "api-url", "", "API base URL for --remote (default client.base_url)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	root.AddGroup(
		&cobra.Group{ID: "lending", Title: groupTitleColor.Sprint("Lending:")},
		&cobra.Group{ID: "frontends", Title: groupTitleColor.Sprint("Front ends:")},
		&cobra.Group{ID: "admin", Title: groupTitleColor.Sprint("Administration:")},
	)

	for _, c := range []*cobra.Command{
		newFriendsCmd(opts),
		newItemsCmd(opts),
		newGiveCmd(opts),
		newTakeBackCmd(opts),
	} {
		c.GroupID = "lending"
		root.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		newServeCmd(opts),
		newTUICmd(opts),
		newShellCmd(opts),
	} {
		c.GroupID = "frontends"
		root.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newResetCmd(opts),
		newStatsCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newConfigCmd(opts),
	} {
		c.GroupID = "admin"
		root.AddCommand(c)
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the lendtrack version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmd.Root().Version)
		},
	})
	return root
}

// Execute runs the command line with os.Args.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}
