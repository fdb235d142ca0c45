package cli

import (
	"github.com/spf13/cobra"

	"github.com/jask/lendtrack/internal/shell"
)

func newShellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Answer questions to give, take back or add friends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(opts.remote)
			if err != nil {
				return err
			}
			defer b.Close()
			return shell.New(b.lender, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
}
