package draftkings

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	LocatorFirst = "first"
	LocatorLabel = "label"
)

const (
	twoColumnMarketSelector = ".cb-market__template--2-columns"
	marketTitleSelector     = "[class*='sportsbook-event-accordion__title'], [class*='cb-market__header'], [class*='market-title'], h2, h3"
	// how far up from a market we look for its title
	marketTitleDepth = 3
)

// MarketLocator picks the race-winner market container out of a rendered page.
// Locate returns nil when no market is found.
type MarketLocator interface {
	Locate(doc *goquery.Document) *goquery.Selection
	Name() string
}

// FirstTwoColumnMarket assumes the first two-column market on the league page is the race winner market.
type FirstTwoColumnMarket struct{}

func (FirstTwoColumnMarket) Locate(doc *goquery.Document) *goquery.Selection {
	m := doc.Find(twoColumnMarketSelector).First()
	if m.Length() == 0 {
		return nil
	}
	return m
}

func (FirstTwoColumnMarket) Name() string { return LocatorFirst }

// LabelledMarket picks the first two-column market whose title contains Label (case-insensitive).
type LabelledMarket struct {
	Label string
}

func (l LabelledMarket) Locate(doc *goquery.Document) *goquery.Selection {
	want := strings.ToLower(strings.TrimSpace(l.Label))
	if want == "" {
		return nil
	}

	var found *goquery.Selection
	doc.Find(twoColumnMarketSelector).EachWithBreak(func(_ int, m *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(marketTitle(m)), want) {
			found = m
			return false
		}
		return true
	})
	return found
}

func (l LabelledMarket) Name() string { return LocatorLabel }

// marketTitle finds the heading of a market: inside the market first, then in its nearest ancestors.
func marketTitle(m *goquery.Selection) string {
	if t := m.Find(marketTitleSelector).First(); t.Length() > 0 {
		return strings.TrimSpace(t.Text())
	}
	p := m.Parent()
	for i := 0; i < marketTitleDepth && p.Length() > 0; i++ {
		if t := p.Find(marketTitleSelector).First(); t.Length() > 0 {
			return strings.TrimSpace(t.Text())
		}
		p = p.Parent()
	}
	return ""
}

// NewLocator builds a locator by config name. There is no fallback between strategies.
func NewLocator(name, label string) (MarketLocator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LocatorFirst:
		return FirstTwoColumnMarket{}, nil
	case LocatorLabel:
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("market locator %q requires a market label", LocatorLabel)
		}
		return LabelledMarket{Label: label}, nil
	default:
		return nil, fmt.Errorf("unknown market locator %q", name)
	}
}
