package draftkings

import (
	"fmt"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
)

// DefaultURLs maps every supported series to its DraftKings league page.
var DefaultURLs = map[enums.Series]string{
	enums.F1:     "https://sportsbook.draftkings.com/leagues/motorsports/formula-1",
	enums.NASCAR: "https://sportsbook.draftkings.com/leagues/motorsports/nascar-cup-series",
}

// mergeURLs returns DefaultURLs with overrides applied. Override keys must name a known series.
func mergeURLs(overrides map[string]string) (map[enums.Series]string, error) {
	urls := make(map[enums.Series]string, len(DefaultURLs))
	for s, u := range DefaultURLs {
		urls[s] = u
	}
	for key, u := range overrides {
		s, err := enums.ParseSeries(key)
		if err != nil {
			return nil, fmt.Errorf("url override: %w", err)
		}
		if u == "" {
			continue
		}
		urls[s] = u
	}
	return urls, nil
}
