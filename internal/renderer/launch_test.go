package renderer

import (
	"slices"
	"testing"
)

func TestStrategies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Env = EnvServerless
	cfg.BrowserPath = "/opt/chromium/chrome"
	cfg.LaunchFlags = []string{"--font-render-hinting=none"}

	got := strategies(cfg)
	if len(got) != 2 {
		t.Fatalf("len(strategies) = %d, want 2", len(got))
	}

	full, fallback := got[0], got[1]
	if full.Name != "full" || fallback.Name != "minimal" {
		t.Errorf("strategy order = %q, %q; want full, minimal", full.Name, fallback.Name)
	}
	if full.Bin != cfg.BrowserPath || fallback.Bin != cfg.BrowserPath {
		t.Error("strategies must keep the configured binary")
	}
	if !slices.Contains(full.Flags, "--single-process") {
		t.Error("serverless profile missing --single-process")
	}
	if !slices.Contains(full.Flags, "--font-render-hinting=none") {
		t.Error("custom launch flags not appended to the full strategy")
	}

	// The fallback drops custom flags and keeps only the
	// sandbox-disabling set.
	if !slices.Equal(fallback.Flags, minimalFlags) {
		t.Errorf("fallback flags = %v, want %v", fallback.Flags, minimalFlags)
	}
}

func TestStrategiesWorkstation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Env = EnvWorkstation

	full := strategies(cfg)[0]
	if slices.Contains(full.Flags, "--single-process") {
		t.Error("workstation profile must not force --single-process")
	}
	if !slices.Contains(full.Flags, "--hide-scrollbars") {
		t.Error("workstation profile missing --hide-scrollbars")
	}
}

func TestDetectEnv(t *testing.T) {
	if got := detectEnv(EnvServerless); got != EnvServerless {
		t.Errorf("explicit env ignored: got %q", got)
	}
	t.Setenv("K_SERVICE", "riverwalk")
	if got := detectEnv(EnvAuto); got != EnvServerless {
		t.Errorf("detectEnv(auto) = %q with K_SERVICE set, want serverless", got)
	}
}
