package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/lendtrack/internal/domain"
)

func newItemsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "items <friend>",
		Short: "Show what a friend has borrowed",
		Args:  cobra.MinimumNArgs(1),
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
			items, err := b.lender.ItemsFor(ctx, f.ID)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				if items == nil {
					items = []domain.Item{}
				}
				return outputJSON(cmd.OutOrStdout(), items)
			}

			w := cmd.OutOrStdout()
			if len(items) == 0 {
				PrintInfo(w, fmt.Sprintf("You haven't given anything to %s", f.Name))
				return nil
			}
			PrintSection(w, "Lent to "+f.Name)
			names := make([]string, len(items))
			notes := make([]string, len(items))
			for i, it := range items {
				names[i] = it.Name
				notes[i] = "since " + it.LentAt.Local().Format("2 Jan 2006")
			}
			PrintList(w, names, notes)
			return nil
		},
	}
}

func newGiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "give <friend> <item>",
		Short: "Record that you lent an item to a friend",
		Example: `  lendtrack give Alice "camping stove"
  lendtrack give Bob bike pump`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(opts.remote)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			f, err := resolveFriend(ctx, b.lender, args[0])
			if err != nil {
				return err
			}
			it, err := b.lender.Give(ctx, f.ID, strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("give: %w", err)
			}
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), it)
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Got it! You lent %s to %s.", it.Name, f.Name))
			return nil
		},
	}
}

func newTakeBackCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "takeback <friend> <item>",
		Aliases: []string{"return"},
		Short:   "Record that a friend gave an item back",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(opts.remote)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			f, err := resolveFriend(ctx, b.lender, args[0])
			if err != nil {
				return err
			}
			it, err := resolveItem(ctx, b.lender, f, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if err := b.lender.TakeBack(ctx, it.ID); err != nil {
				return fmt.Errorf("take back: %w", err)
			}
			if opts.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), it)
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Alright, I'll remember that you took %s from %s", it.Name, f.Name))
			return nil
		},
	}
}
