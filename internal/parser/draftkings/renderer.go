package draftkings

import (
	"context"
	"time"
)

// Page is a browser tab already navigated to a sportsbook page.
// It is owned by exactly one scrape and must be closed by it.
type Page interface {
	// WaitFor blocks until an element matching selector exists or timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// HTML returns the rendered outer HTML of the document.
	HTML(ctx context.Context) (string, error)
	// Screenshot returns a full-page PNG capture.
	Screenshot(ctx context.Context) ([]byte, error)
	// Close releases the tab and the browser process behind it.
	Close() error
}

// PageRenderer launches an isolated browser session and navigates it to url.
// On error no resources are left behind.
type PageRenderer interface {
	Open(ctx context.Context, url string) (Page, error)
}
