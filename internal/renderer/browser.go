package renderer

import "context"

// Engine launches browser processes. The production implementation drives
// Chromium through go-rod; tests substitute fakes.
type Engine interface {
	Launch(ctx context.Context, strategy LaunchStrategy) (Handle, error)
}

// Handle is a live browser process. At most one exists per host process;
// the Manager owns the slot it lives in.
type Handle interface {
	// Alive reports whether the DevTools connection still answers and the
	// underlying process has not exited.
	Alive() bool
	OpenPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is one document-rendering context inside a Handle. It is owned by a
// single render request and closed at the end of it, success or failure.
type Page interface {
	Navigate(ctx context.Context, url string) error
	HTML(ctx context.Context) (string, error)
	// Ready polls the readiness flag the report page sets once its charts
	// have finished drawing.
	Ready(ctx context.Context) (bool, error)
	CapturePDF(ctx context.Context, opts CaptureOptions) ([]byte, error)
	Close() error
}

// CaptureOptions are the fixed layout parameters for the PDF capture.
type CaptureOptions struct {
	PaperWidth      float64 // inches
	PaperHeight     float64 // inches
	Margin          float64 // inches, applied on all four sides
	PrintBackground bool
}

// a4Capture returns the layout every report is printed with.
func a4Capture() CaptureOptions {
	return CaptureOptions{
		PaperWidth:      8.27,
		PaperHeight:     11.69,
		Margin:          0.4,
		PrintBackground: true,
	}
}
