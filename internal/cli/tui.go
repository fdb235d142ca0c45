package cli

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/lendtrack/internal/client"
	"github.com/jask/lendtrack/internal/prefs"
	"github.com/jask/lendtrack/internal/tui"
)

func newTUICmd(opts *options) *cobra.Command {
	var local bool
	var panel string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal client (talks to the API unless --local)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.openBackend(!local)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			if c, ok := b.lender.(*client.Client); ok {
				if err := c.Ping(ctx); err != nil {
					return fmt.Errorf("cannot reach the API at %s (start it with \"lendtrack serve\" or use --local): %w", c.BaseURL(), err)
				}
			}

			start := panel
			if start == "" {
				if ui, err := prefs.LoadUI(); err == nil {
					start = ui.LastPanel
				}
			} else if _, ok := tui.ParsePanel(start); !ok {
				return fmt.Errorf("unknown panel %q (give, takeback or newfriend)", start)
			}

			app := tui.New(ctx, b.lender, tui.Options{
				ToastDuration: b.cfg.UI.ToastDuration(),
				StartPanel:    start,
				OnPanelChange: func(name string) {
					if err := prefs.SaveUI(prefs.UI{LastPanel: name}); err != nil {
						log.Printf("warn: saving ui prefs: %v", err)
					}
				},
			})
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Use the local database instead of the API")
	cmd.Flags().StringVar(&panel, "panel", "", "Panel to open: give, takeback or newfriend (default: last used)")
	return cmd
}
