package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/lendtrack/internal/api"
	"github.com/jask/lendtrack/internal/config"
	"github.com/jask/lendtrack/internal/service"
	"github.com/jask/lendtrack/internal/telemetry"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr, staticDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API (and the web page, with --static)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if staticDir != "" {
				cfg.Server.StaticDir = staticDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
			if err != nil {
				return fmt.Errorf("telemetry: %w", err)
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(sctx); err != nil {
					log.Printf("telemetry shutdown: %v", err)
				}
			}()

			db, err := openDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			srv := api.NewServer(cfg.Server, service.NewLendingService(db))
			log.Printf("lendtrack serve driver=%s static=%q tracing=%t", cfg.Database.Driver, cfg.Server.StaticDir, cfg.Telemetry.OTLPEndpoint != "")
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.addr)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Serve the web page from this directory")
	return cmd
}
