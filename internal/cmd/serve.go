package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gravitrone/testbuilder/internal/config"
	"github.com/gravitrone/testbuilder/internal/printer"
	"github.com/gravitrone/testbuilder/internal/server"
)

// ServeCmd returns the `testbuilder serve` command.
func ServeCmd(flags *StoreFlags) *cobra.Command {
	var (
		addr    string
		apiKey  string
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local store over HTTP",
		RunE: func(c *cobra.Command, _ []string) error {
			p := printer.New(c.OutOrStdout(), c.ErrOrStderr())
			s, err := OpenStore(c.Context(), flags)
			if err != nil {
				return p.Error("store unavailable", err.Error(), []string{"check --driver and --db"})
			}
			defer s.Close()

			if apiKey == "" {
				apiKey = os.Getenv("TESTBUILDER_SERVER_KEY")
			}
			if apiKey == "" {
				if cfg, err := config.Load(); err == nil && cfg.UsesStore() {
					apiKey = cfg.APIKey
				}
			}

			handler := server.New(s, server.Options{
				APIKey:         apiKey,
				AllowedOrigins: origins,
				StoreName:      string(s.Driver()),
			})

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p.Success("serving %s store on %s\n", s.Driver(), addr)
			if apiKey == "" {
				p.Warning("no api key set; every route is open\n")
			}
			if err := server.Run(ctx, addr, handler); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&apiKey, "key", "", "bearer key required by clients (env TESTBUILDER_SERVER_KEY)")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "allowed CORS origins")
	return cmd
}
