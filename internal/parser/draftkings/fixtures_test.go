package draftkings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
)

// Markup helpers mirroring the DraftKings league page structure.

func priceRow(name, price string) string {
	return fmt.Sprintf(`<div class="cb-market__label cb-market__label--row"><span class="cb-market__label--truncate-strings">%s</span></div>`+
		`<div class="cb-market__button"><span class="cb-market__button-odds">%s</span></div>`, name, price)
}

func labelOnlyRow(name string) string {
	return fmt.Sprintf(`<div class="cb-market__label cb-market__label--row"><span class="cb-market__label--truncate-strings">%s</span></div>`, name)
}

func market(title string, rows ...string) string {
	return `<div class="sportsbook-event-accordion__wrapper">` +
		`<h2 class="sportsbook-event-accordion__title">` + title + `</h2>` +
		`<div class="cb-market__template cb-market__template--2-columns">` + strings.Join(rows, "") + `</div>` +
		`</div>`
}

func leaguePage(markets ...string) string {
	return `<!DOCTYPE html><html><head><title>Formula 1 Odds</title></head><body>` +
		`<div class="sportsbook-wrapper">` + strings.Join(markets, "") + `</div></body></html>`
}

type fakePage struct {
	html       string
	htmlErr    error
	waitErr    error
	screenshot []byte

	mu          sync.Mutex
	waits       []string
	timeouts    []time.Duration
	htmlCalls   int
	screenshots int
	closed      int
}

func (p *fakePage) WaitFor(_ context.Context, selector string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waits = append(p.waits, selector)
	p.timeouts = append(p.timeouts, timeout)
	return p.waitErr
}

func (p *fakePage) HTML(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.htmlCalls++
	return p.html, p.htmlErr
}

func (p *fakePage) Screenshot(context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.screenshots++
	return p.screenshot, nil
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

// fakeRenderer serves canned pages by URL.
type fakeRenderer struct {
	pages   map[string]*fakePage
	openErr error
	opened  []string
}

func (r *fakeRenderer) Open(_ context.Context, url string) (Page, error) {
	r.opened = append(r.opened, url)
	if r.openErr != nil {
		return nil, r.openErr
	}
	p, ok := r.pages[url]
	if !ok {
		return nil, errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	return p, nil
}

type recordingDiagnostics struct {
	captures []enums.Series
}

func (d *recordingDiagnostics) Capture(_ context.Context, series enums.Series, _ Page) {
	d.captures = append(d.captures, series)
}
