package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/lendtrack/internal/config"
	"github.com/jask/lendtrack/internal/secrets"
)

func newLoginCmd(opts *options) *cobra.Command {
	var token string
	var check bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API token used with --remote and the terminal client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(token) == "" {
				return errors.New("--token is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			base := opts.baseURL(cfg)
			if err := secrets.StoreToken(base, token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			PrintSuccess(cmd.OutOrStdout(), "Token stored for "+base)

			if check {
				if _, err := opts.newClient(cfg).ListFriends(cmd.Context()); err != nil {
					PrintWarning(cmd.OutOrStdout(), fmt.Sprintf("The API did not accept the token: %v", err))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Bearer token configured as server.api_token")
	cmd.Flags().BoolVar(&check, "check", false, "Try the token against the API")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			base := opts.baseURL(cfg)
			if err := secrets.DeleteToken(base); err != nil {
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), "Token removed for "+base)
			return nil
		},
	}
}
