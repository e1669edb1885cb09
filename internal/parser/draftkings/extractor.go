package draftkings

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vodeneev/raceodds/internal/pkg/oddsmath"
	"github.com/Vodeneev/raceodds/internal/pkg/validation"
)

// UnknownRace is used when the page has no recognizable event title.
const UnknownRace = "Unknown Race"

const (
	oddsWidgetSelector = "[class*='outcome'], [class*='odds'], [class*='participant']"
	raceLabelSelector  = "[class*='event-cell__name'], [class*='sportsbook-event-accordion__title'], h1, h2"
	labelRowSelector   = ".cb-market__label--row"
	driverNameSelector = ".cb-market__label--truncate-strings"
	priceButtonClass   = "cb-market__button"
	priceOddsSelector  = ".cb-market__button-odds"
)

// RawPrice is a driver name and the price text exactly as displayed.
type RawPrice struct {
	Name  string
	Price string
}

func ParseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}
	return doc, nil
}

// RaceLabel returns the text of the first event title on the page, or UnknownRace.
func RaceLabel(doc *goquery.Document) string {
	label := validation.SanitizeName(doc.Find(raceLabelSelector).First().Text())
	if label == "" {
		return UnknownRace
	}
	return label
}

// ExtractPrices walks the label rows of a market in document order.
// A row yields a price only if its next sibling is a price button with a signed odds string;
// later rows repeating an already seen name are skipped.
func ExtractPrices(market *goquery.Selection) []RawPrice {
	prices := []RawPrice{}
	if market == nil || market.Length() == 0 {
		return prices
	}

	seen := make(map[string]struct{})
	market.Find(labelRowSelector).Each(func(_ int, row *goquery.Selection) {
		nameEl := row.Find(driverNameSelector).First()
		if nameEl.Length() == 0 {
			return
		}
		button := row.Next()
		if button.Length() == 0 || !button.HasClass(priceButtonClass) {
			return
		}
		oddsEl := button.Find(priceOddsSelector).First()
		if oddsEl.Length() == 0 {
			return
		}

		name := strings.TrimSpace(nameEl.Text())
		price := strings.TrimSpace(oddsEl.Text())
		if name == "" || !oddsmath.HasSign(price) {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		prices = append(prices, RawPrice{Name: name, Price: price})
	})
	return prices
}
