// Package renderer manages the headless Chromium instance that turns HTML
// survey reports into PDFs. The browser is an expensive, stateful,
// crash-prone external process; this package keeps exactly one alive per
// host process, serializes all renders onto it, health-checks it before
// every reuse, and condemns it whenever it produces garbage.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds renderer tunables. Zero values fall back to defaults so a
// partially-filled YAML section still works.
type Config struct {
	Env                 string   `yaml:"env" json:"env"` // auto, serverless, workstation
	BrowserPath         string   `yaml:"browser_path" json:"browser_path"`
	LaunchFlags         []string `yaml:"launch_flags" json:"launch_flags"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms" json:"navigation_timeout_ms"`
	ReadyTimeoutMs      int      `yaml:"ready_timeout_ms" json:"ready_timeout_ms"`
	ReadyPollMs         int      `yaml:"ready_poll_ms" json:"ready_poll_ms"`
	ReadyGraceMs        int      `yaml:"ready_grace_ms" json:"ready_grace_ms"`
	CaptureTimeoutMs    int      `yaml:"capture_timeout_ms" json:"capture_timeout_ms"`
	MinOutputBytes      int      `yaml:"min_output_bytes" json:"min_output_bytes"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Env:                 EnvAuto,
		NavigationTimeoutMs: 10000,
		ReadyTimeoutMs:      8000,
		ReadyPollMs:         250,
		ReadyGraceMs:        2000,
		CaptureTimeoutMs:    15000,
		MinOutputBytes:      1024,
	}
}

func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

func (c Config) ReadyTimeout() time.Duration {
	if c.ReadyTimeoutMs <= 0 {
		return 8 * time.Second
	}
	return time.Duration(c.ReadyTimeoutMs) * time.Millisecond
}

func (c Config) ReadyPoll() time.Duration {
	if c.ReadyPollMs <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.ReadyPollMs) * time.Millisecond
}

// ReadyGrace is the fixed delay applied when the readiness flag never
// appears. Tunable: too short risks half-drawn charts, too long wastes
// latency on simple reports.
func (c Config) ReadyGrace() time.Duration {
	if c.ReadyGraceMs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.ReadyGraceMs) * time.Millisecond
}

func (c Config) CaptureTimeout() time.Duration {
	if c.CaptureTimeoutMs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.CaptureTimeoutMs) * time.Millisecond
}

func (c Config) minOutputBytes() int {
	if c.MinOutputBytes <= 0 {
		return 1024
	}
	return c.MinOutputBytes
}

// Request describes one render. URL is the fully-formed report page the
// document-source collaborator resolved the target to.
type Request struct {
	Target string
	URL    string
	Sites  int
}

// Manager owns the process-wide browser handle and the exclusive access
// gate in front of it. One Chromium instance cannot safely serve two
// navigations at once, so every render holds mu for its full duration;
// concurrent requests queue on the lock with no bound. Under sustained
// overload they pile up until the platform request timeout intervenes --
// an accepted limitation, not a silent failure mode.
//
// mu also guards the handle slot itself: all "does a handle exist"
// mutation happens with the gate held.
type Manager struct {
	engine Engine
	log    *zap.Logger

	mu         sync.Mutex
	cfg        Config
	handle     Handle
	launchedAt time.Time
}

// New creates a Manager. The handle is launched lazily on first render.
func New(cfg Config, engine Engine, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{cfg: cfg, engine: engine, log: log}
}

// SetConfig swaps the tunables. Takes effect from the next render; the
// cached handle is kept.
func (m *Manager) SetConfig(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

// Cached reports whether a browser handle is currently held. Probe only;
// the handle may still fail its health check at the next acquire.
func (m *Manager) Cached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle != nil
}

// Shutdown closes the cached handle, if any.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.condemnLocked("shutdown")
}

// Render drives one report through the full pipeline and returns the PDF
// bytes. Callers get either a valid document or a typed error, never a
// corrupt file with a success status.
func (m *Manager) Render(ctx context.Context, req Request) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.cfg
	log := m.log.With(zap.String("target", req.Target))

	handle, err := m.acquireLocked(ctx)
	if err != nil {
		return nil, err
	}

	page, err := handle.OpenPage(ctx)
	if err != nil {
		// A handle that cannot open a page is unusable; force a fresh
		// launch on the next request.
		m.condemnLocked("open page failed")
		return nil, &LaunchError{Err: fmt.Errorf("open page: %w", err)}
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			log.Warn("page close failed", zap.Error(cerr))
		}
	}()

	data, err := m.renderPage(ctx, cfg, log, page, req)
	if err != nil {
		var capture *CaptureError
		if errors.As(err, &capture) {
			m.condemnLocked("capture failed")
		}
		return nil, err
	}

	if err := validatePDF(data, cfg.minOutputBytes()); err != nil {
		// Bad output is treated like a crashed render: a browser that is
		// "connected" but emits garbage is not reused.
		m.condemnLocked("output validation failed")
		return nil, err
	}

	log.Info("report rendered",
		zap.Int("bytes", len(data)),
		zap.Int("sites", req.Sites))
	return data, nil
}

// acquireLocked returns the cached handle after a health check, launching a
// fresh one if the slot is empty or the handle has gone stale. Caller must
// hold mu.
func (m *Manager) acquireLocked(ctx context.Context) (Handle, error) {
	if m.handle != nil {
		if m.handle.Alive() {
			return m.handle, nil
		}
		m.log.Warn("stale browser handle detected, relaunching",
			zap.Duration("age", time.Since(m.launchedAt)))
		m.condemnLocked("health check failed")
	}

	var attemptErrs []error
	for _, strategy := range strategies(m.cfg) {
		handle, err := m.engine.Launch(ctx, strategy)
		if err != nil {
			m.log.Warn("browser launch attempt failed",
				zap.String("strategy", strategy.Name),
				zap.Error(err))
			attemptErrs = append(attemptErrs, fmt.Errorf("%s: %w", strategy.Name, err))
			continue
		}
		m.handle = handle
		m.launchedAt = time.Now()
		m.log.Info("browser launched", zap.String("strategy", strategy.Name))
		return handle, nil
	}
	return nil, &LaunchError{Attempts: len(attemptErrs), Err: errors.Join(attemptErrs...)}
}

// condemnLocked discards the current handle so the next acquire is forced
// through a fresh launch. Caller must hold mu.
func (m *Manager) condemnLocked(reason string) {
	if m.handle == nil {
		return
	}
	if err := m.handle.Close(); err != nil {
		m.log.Debug("condemned handle close failed", zap.Error(err))
	}
	m.handle = nil
	m.log.Info("browser handle condemned", zap.String("reason", reason))
}

// renderPage runs navigate -> await readiness -> capture on an open page.
// The page is closed by the caller on every exit path.
func (m *Manager) renderPage(ctx context.Context, cfg Config, log *zap.Logger, page Page, req Request) ([]byte, error) {
	navCtx, cancel := context.WithTimeout(ctx, cfg.NavigationTimeout())
	defer cancel()
	if err := page.Navigate(navCtx, req.URL); err != nil {
		return nil, &NavigationError{URL: req.URL, Err: err}
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, &NavigationError{URL: req.URL, Err: fmt.Errorf("read content: %w", err)}
	}
	if reason := contentBroken(html); reason != "" {
		return nil, &NavigationError{URL: req.URL, Reason: reason}
	}

	m.awaitReady(ctx, cfg, log, page)

	captureCtx, cancel := context.WithTimeout(ctx, cfg.CaptureTimeout())
	defer cancel()
	data, err := page.CapturePDF(captureCtx, a4Capture())
	if err != nil {
		return nil, &CaptureError{Err: err}
	}
	return data, nil
}

// awaitReady polls for the readiness flag the report page sets once its
// charts finish drawing. Timing out is not an error: partial output beats
// no output for this use case, so the fallback path waits a fixed grace
// delay and proceeds.
func (m *Manager) awaitReady(ctx context.Context, cfg Config, log *zap.Logger, page Page) {
	deadline := time.Now().Add(cfg.ReadyTimeout())
	for time.Now().Before(deadline) {
		ok, err := page.Ready(ctx)
		if err == nil && ok {
			log.Debug("readiness signal observed")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.ReadyPoll()):
		}
	}

	// Degrade-gracefully branch: the signal never appeared.
	log.Warn("readiness signal timed out, capturing after grace delay",
		zap.Duration("grace", cfg.ReadyGrace()))
	select {
	case <-ctx.Done():
	case <-time.After(cfg.ReadyGrace()):
	}
}

// contentBroken reports why a loaded document is unusable, or "" if it
// looks fine. Catches the blank-document and error-page cases that would
// otherwise turn into a silently empty PDF.
func contentBroken(html string) string {
	trimmed := strings.TrimSpace(html)
	if trimmed == "" {
		return "empty document"
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range []string{"404 not found", "500 internal server error", "502 bad gateway", "503 service unavailable"} {
		if strings.Contains(lower, marker) {
			return "error page: " + marker
		}
	}
	if !strings.Contains(lower, "<body") {
		return "document has no body"
	}
	return ""
}
