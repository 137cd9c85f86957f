package renderer

import "fmt"

// LaunchError means the browser process could not be started even after the
// fallback launch strategy, or an existing handle could not open a page.
// Fatal for the current request.
type LaunchError struct {
	Attempts int
	Err      error
}

func (e *LaunchError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("browser launch failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("browser launch failed: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// NavigationError means the report page failed to load, or loaded empty or
// error content. The browser handle is kept: one bad navigation does not
// imply a broken browser.
type NavigationError struct {
	URL    string
	Reason string
	Err    error
}

func (e *NavigationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("navigate %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// CaptureError means the print-to-PDF step failed outright. The handle is
// condemned: a browser that cannot serialize a loaded page is not trusted
// for the next request either.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string { return fmt.Sprintf("capture pdf: %v", e.Err) }

func (e *CaptureError) Unwrap() error { return e.Err }

// ValidationError means the captured bytes are not a well-formed PDF.
// Treated like a crashed render: the handle is condemned so the next
// request is forced through a fresh launch.
type ValidationError struct {
	Reason string
	Size   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid pdf output (%d bytes): %s", e.Size, e.Reason)
}
