package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/selimozcann/oglink/internal/api"
	"github.com/selimozcann/oglink/internal/config"
	"github.com/selimozcann/oglink/internal/resolver"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(cfg config.Config, opts *options) *cobra.Command {
	addr := cfg.Addr
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve link resolution over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if addr == "" {
				return errors.New("--addr must not be empty")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, *opts, newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.verbose))
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", addr, "Listen address")
	return serveCmd
}

func serve(ctx context.Context, addr string, opts options, log *logrus.Logger) error {
	if !opts.verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	r := resolver.New(resolver.Config{
		Timeout:      opts.timeout,
		MaxRedirects: opts.maxRedirects,
		Logger:       log,
	})
	defer r.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(api.NewHandlers(r, log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("API server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
