package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/lazypower/widgetry/internal/metrics"
	"github.com/lazypower/widgetry/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	log := newLogger(cfg)

	st, closeStore, where, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(st, VersionString(),
		server.WithConfig(cfg),
		server.WithLogger(log),
		server.WithMetrics(metrics.New()),
	)
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		p := termenv.ColorProfile()
		banner := termenv.String("widgetry").Bold().Foreground(p.Color("#8BC34A"))
		fmt.Fprintf(os.Stderr, "%s serving on %s\n", banner, addr)
		fmt.Fprintf(os.Stderr, "  store: %s (%s)\n", cfg.Store.Backend, where)
		fmt.Fprintf(os.Stderr, "  metrics: http://%s/metrics\n", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-done:
	}
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
