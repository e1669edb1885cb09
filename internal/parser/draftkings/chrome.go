package draftkings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// chromeMu serializes Chrome usage so only one browser runs at a time
var chromeMu sync.Mutex

const (
	viewportWidth  = 1920
	viewportHeight = 1080

	defaultNavigationTimeout = 60 * time.Second
)

// ChromeRenderer opens pages in a fresh headless Chrome per call (own process, own profile dir).
type ChromeRenderer struct {
	Headless          bool
	UserAgent         string
	NavigationTimeout time.Duration // 0 means defaultNavigationTimeout
	Debug             bool          // forward chromedp logs to slog.Debug
}

type chromePage struct {
	ctx     context.Context
	release func()
	once    sync.Once
	err     error
}

func (r *ChromeRenderer) Open(ctx context.Context, url string) (Page, error) {
	chromeMu.Lock()

	chromeDir, err := os.MkdirTemp("", "raceodds_chrome_")
	if err != nil {
		chromeMu.Unlock()
		return nil, fmt.Errorf("create chrome temp dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserDataDir(chromeDir),
		chromedp.UserAgent(r.UserAgent),
		chromedp.WindowSize(viewportWidth, viewportHeight),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		if r.Debug {
			slog.Debug("chromedp", "message", fmt.Sprintf(format, v...))
		}
	}))

	p := &chromePage{ctx: tabCtx}
	p.release = func() {
		_ = chromedp.Cancel(tabCtx)
		cancelTab()
		cancelAlloc()
		p.err = os.RemoveAll(chromeDir)
		chromeMu.Unlock()
	}

	// The first Run launches the browser; it must not use the navigation timeout context,
	// otherwise the browser would die with it.
	if err := chromedp.Run(tabCtx); err != nil {
		p.Close()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	navCtx, cancel := context.WithTimeout(tabCtx, r.navigationTimeout())
	defer cancel()

	err = chromedp.Run(navCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		navigateUntilDOMReady(url),
	)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("chromedp navigation: %w", err)
	}

	return p, nil
}

func (r *ChromeRenderer) navigationTimeout() time.Duration {
	if r.NavigationTimeout <= 0 {
		return defaultNavigationTimeout
	}
	return r.NavigationTimeout
}

// navigateUntilDOMReady navigates and returns once the document body is parsed.
// chromedp.Navigate waits for the load event, which streaming sportsbook pages delay indefinitely.
func navigateUntilDOMReady(url string) chromedp.Action {
	return chromedp.Tasks{
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, _, errorText, _, err := page.Navigate(url).Do(ctx)
			switch {
			case err != nil:
				return err
			case errorText != "":
				return fmt.Errorf("page load error %s", errorText)
			}
			return nil
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
}

// pageContext derives a context from the tab that is also cancelled with the caller's ctx.
func (p *chromePage) pageContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		c      context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		c, cancel = context.WithTimeout(p.ctx, timeout)
	} else {
		c, cancel = context.WithCancel(p.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return c, func() {
		stop()
		cancel()
	}
}

func (p *chromePage) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	c, cancel := p.pageContext(ctx, timeout)
	defer cancel()

	err := chromedp.Run(c, chromedp.WaitReady(selector, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("wait for %q: timed out after %s", selector, timeout)
	}
	return err
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	c, cancel := p.pageContext(ctx, 0)
	defer cancel()

	var html string
	if err := chromedp.Run(c, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

func (p *chromePage) Screenshot(ctx context.Context) ([]byte, error) {
	c, cancel := p.pageContext(ctx, 0)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(c, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

func (p *chromePage) Close() error {
	p.once.Do(p.release)
	return p.err
}
