package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/lendtrack/internal/domain"
)

func newFriendsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "friends",
		Aliases: []string{"friend"},
		Short:   "List, add or remove friends",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFriends(cmd, opts)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List friends",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFriends(cmd, opts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a friend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(opts.remote)
			if err != nil {
				return err
			}
			defer b.Close()

			f, err := b.lender.AddFriend(cmd.Context(), strings.Join(args, " "))
			switch {
			case errors.Is(err, domain.ErrDuplicateFriend):
				return fmt.Errorf("%s is already a friend", domain.NormalizeName(strings.Join(args, " ")))
			case err != nil:
				return err
			}
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), f)
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Added %s as a friend", f.Name))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove a friend who holds nothing of yours",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(opts.remote)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			f, err := resolveFriend(ctx, b.lender, strings.Join(args, " "))
			if err != nil {
				return err
			}
			err = b.lender.RemoveFriend(ctx, f.ID)
			switch {
			case errors.Is(err, domain.ErrFriendHasItems):
				return fmt.Errorf("%s still has borrowed items; take them back first", f.Name)
			case err != nil:
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed %s", f.Name))
			return nil
		},
	})
	return cmd
}

func listFriends(cmd *cobra.Command, opts *options) error {
	b, err := opts.openBackend(opts.remote)
	if err != nil {
		return err
	}
	defer b.Close()

	friends, err := b.lender.ListFriends(cmd.Context())
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		if friends == nil {
			friends = []domain.Friend{}
		}
		return outputJSON(cmd.OutOrStdout(), friends)
	}

	w := cmd.OutOrStdout()
	if len(friends) == 0 {
		PrintInfo(w, "No friends found. Add a friend first.")
		return nil
	}
	PrintSection(w, "Friends")
	PrintList(w, domain.FriendNames(friends), nil)
	return nil
}
