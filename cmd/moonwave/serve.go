package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"moonwave/internal/api"
	"moonwave/internal/diagfmt"
	"moonwave/internal/trace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve doc entry extraction over HTTP",
	Long: `Run the extraction service. POST a tag stream document to /v1/entries to
get its doc entries and diagnostics back. Use --trace-mode=ring to expose the
recent trace events at /debug/trace.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from moonwave.toml, then 127.0.0.1:7878)")
	serveCmd.Flags().Int("jobs", 0, "max parallel workers per request (0=auto)")
	serveCmd.Flags().String("path-mode", "auto", "file paths in diagnostics (auto|absolute|relative|basename)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	pathMode, err := diagfmt.ParsePathMode(s.cfg.Diagnostics.PathMode)
	if err != nil {
		return err
	}
	shutdownTimeout, err := s.cfg.ShutdownTimeout()
	if err != nil {
		return err
	}

	tracer := trace.FromContext(cmd.Context())
	srv := &http.Server{
		Addr: s.cfg.Server.Addr,
		Handler: api.NewServer(tracer, api.Options{
			MaxBodyBytes:   s.cfg.Server.MaxBodyBytes,
			Jobs:           s.cfg.Extract.Jobs,
			MaxDiagnostics: s.cfg.Extract.MaxDiagnostics,
			PathMode:       pathMode,
			RateLimit:      s.cfg.Server.RateLimit,
			RateBurst:      s.cfg.Server.RateBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "moonwave: listening on http://%s\n", ln.Addr())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	if !s.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "moonwave: shutting down")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
