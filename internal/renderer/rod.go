package renderer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RodEngine launches Chromium through go-rod's launcher and speaks CDP to
// it. This is the only production Engine.
type RodEngine struct {
	log *zap.Logger
}

func NewRodEngine(log *zap.Logger) *RodEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &RodEngine{log: log}
}

func (e *RodEngine) Launch(ctx context.Context, strategy LaunchStrategy) (Handle, error) {
	l := launcher.New().Headless(true)
	if strategy.Bin != "" {
		l = l.Bin(strategy.Bin)
	}
	for _, rawFlag := range strategy.Flags {
		flagStr := strings.TrimLeft(rawFlag, "-")
		name, val, hasVal := strings.Cut(flagStr, "=")
		if hasVal {
			l = l.Set(flags.Flag(name), val)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	e.log.Debug("chromium started",
		zap.String("strategy", strategy.Name),
		zap.String("control_url", controlURL))
	return &rodHandle{browser: browser, launcher: l}, nil
}

type rodHandle struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// Alive round-trips a Browser.getVersion call. That covers both halves of
// the health check: a dead websocket and an exited process both fail it.
func (h *rodHandle) Alive() bool {
	_, err := h.browser.Version()
	return err == nil
}

func (h *rodHandle) OpenPage(ctx context.Context) (Page, error) {
	page, err := h.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &rodPage{page: page}, nil
}

func (h *rodHandle) Close() error {
	err := h.browser.Close()
	h.launcher.Kill()
	return err
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

func (p *rodPage) Ready(ctx context.Context) (bool, error) {
	res, err := p.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      `() => window.__chartsReady === true`,
		ByValue: true,
	})
	if err != nil || res == nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (p *rodPage) CapturePDF(ctx context.Context, opts CaptureOptions) ([]byte, error) {
	req := &proto.PagePrintToPDF{
		PrintBackground: opts.PrintBackground,
		PaperWidth:      &opts.PaperWidth,
		PaperHeight:     &opts.PaperHeight,
		MarginTop:       &opts.Margin,
		MarginBottom:    &opts.Margin,
		MarginLeft:      &opts.Margin,
		MarginRight:     &opts.Margin,
	}
	reader, err := p.page.Context(ctx).PDF(req)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
