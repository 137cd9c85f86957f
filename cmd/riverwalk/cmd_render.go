package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"riverwalk/internal/config"
	"riverwalk/internal/renderer"
	"riverwalk/internal/server"
	"riverwalk/internal/store"
	"riverwalk/internal/survey"
)

var (
	renderOut   string
	renderSites int
)

var renderCmd = &cobra.Command{
	Use:   "render [walk-id]",
	Short: "Render one walk's report to a PDF file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default <walk-id>.pdf)")
	renderCmd.Flags().IntVar(&renderSites, "sites", 0, "site count hint (default: all sites in the survey)")
}

func runRender(cmd *cobra.Command, args []string) error {
	walk := args[0]
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	sv, err := st.Survey(ctx, walk)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no survey for walk %q (run `riverwalk seed` first?)", walk)
	}
	if err != nil {
		return err
	}

	sites := renderSites
	if sites == 0 {
		sites = len(sv.Sites)
	}
	if sites < 1 || sites > survey.MaxSites {
		return fmt.Errorf("sites must be between 1 and %d, got %d", survey.MaxSites, sites)
	}

	manager := renderer.New(cfg.Renderer, renderer.NewRodEngine(logger), logger)
	defer manager.Shutdown()

	// Serve the report page on an ephemeral loopback listener for the
	// browser to navigate to.
	srv := server.New("", manager, st, logger)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	base := "http://" + ln.Addr().String()
	srv.SetBaseURL(base)
	httpSrv := &http.Server{Handler: srv.Handler()}
	go func() { _ = httpSrv.Serve(ln) }()
	defer httpSrv.Close()

	data, err := manager.Render(ctx, renderer.Request{
		Target: walk,
		URL:    fmt.Sprintf("%s/reports/%s?sites=%d", base, walk, sites),
		Sites:  sites,
	})
	if err != nil {
		return err
	}

	out := renderOut
	if out == "" {
		out = walk + ".pdf"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Info("report written", zap.String("path", out), zap.Int("bytes", len(data)))
	fmt.Printf("wrote %s (%d bytes)\n", out, len(data))
	return nil
}
