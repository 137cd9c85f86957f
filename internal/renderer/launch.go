package renderer

import "os"

// LaunchStrategy is one attempt at starting Chromium: a binary plus the raw
// flags it gets. Attempts are independent; no state carries over between
// them.
type LaunchStrategy struct {
	Name  string
	Bin   string
	Flags []string
}

// Environment profiles. Serverless hosts (Lambda, Cloud Run, Cloud
// Functions) need the sandbox disabled and shared memory avoided;
// workstations get a gentler flag set.
const (
	EnvAuto        = "auto"
	EnvServerless  = "serverless"
	EnvWorkstation = "workstation"
)

// serverlessMarkers are env vars set by the platforms we deploy to.
var serverlessMarkers = []string{
	"AWS_LAMBDA_FUNCTION_NAME",
	"FUNCTION_TARGET",
	"K_SERVICE",
	"VERCEL",
}

func detectEnv(env string) string {
	if env != "" && env != EnvAuto {
		return env
	}
	for _, key := range serverlessMarkers {
		if os.Getenv(key) != "" {
			return EnvServerless
		}
	}
	return EnvWorkstation
}

// minimalFlags is the maximally-compatible fallback set: only the
// sandbox-disabling flags known to be safe everywhere we run.
var minimalFlags = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
}

var serverlessFlags = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--no-zygote",
	"--single-process",
	"--hide-scrollbars",
}

var workstationFlags = []string{
	"--disable-dev-shm-usage",
	"--hide-scrollbars",
	"--mute-audio",
}

// strategies returns the ordered launch attempts: the environment-specific
// flag set first, then the minimal fallback. Exactly two; exhaustion is a
// LaunchError, not further retried within a request.
func strategies(cfg Config) []LaunchStrategy {
	full := LaunchStrategy{Name: "full", Bin: cfg.BrowserPath}
	switch detectEnv(cfg.Env) {
	case EnvServerless:
		full.Flags = append(full.Flags, serverlessFlags...)
	default:
		full.Flags = append(full.Flags, workstationFlags...)
	}
	full.Flags = append(full.Flags, cfg.LaunchFlags...)

	fallback := LaunchStrategy{
		Name:  "minimal",
		Bin:   cfg.BrowserPath,
		Flags: minimalFlags,
	}
	return []LaunchStrategy{full, fallback}
}
