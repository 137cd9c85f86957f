package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"riverwalk/internal/config"
	"riverwalk/internal/renderer"
	"riverwalk/internal/server"
	"riverwalk/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the survey and report-rendering HTTP service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.Store.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	manager := renderer.New(cfg.Renderer, renderer.NewRodEngine(logger), logger)
	defer manager.Shutdown()

	srv := server.New(cfg.Server.BaseURL, manager, st, logger)

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}
	if cfg.Server.BaseURL == "" {
		// The browser runs next to us; reach the report pages over loopback.
		srv.SetBaseURL("http://" + ln.Addr().String())
	}
	httpSrv := &http.Server{Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("riverwalk listening", zap.String("addr", ln.Addr().String()))
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Hot-reload renderer tunables; a broken watcher degrades to
		// restart-to-reconfigure rather than killing the service.
		if err := config.Watch(gctx, configPath, logger, func(c *config.Config) {
			manager.SetConfig(c.Renderer)
		}); err != nil {
			logger.Warn("config watcher unavailable", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
