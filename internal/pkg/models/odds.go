package models

import (
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
)

// DefaultTopN is the number of favourites shown by presentation layers.
const DefaultTopN = 5

// DriverPrice is one driver's entry in a race winner market
type DriverPrice struct {
	DriverName   string  `json:"driver_name"`
	AmericanOdds string  `json:"american_odds"` // As displayed, e.g. "+450", "−110"
	DecimalOdds  float64 `json:"decimal_odds"`  // 0 when the price could not be parsed
}

// Priced reports whether the entry carries a usable decimal price.
func (d DriverPrice) Priced() bool {
	return d.DecimalOdds >= 1.0
}

// RaceOddsSnapshot is the result of one scrape of a series' race winner market.
// Entries are unique by driver name and ordered favourite first, unpriced entries last.
type RaceOddsSnapshot struct {
	RaceLabel  string        `json:"race_label"`
	Series     enums.Series  `json:"series"`
	CapturedAt time.Time     `json:"captured_at"`
	Entries    []DriverPrice `json:"entries"`
}

// Empty reports whether the snapshot has no data. Callers show "odds unavailable" for it.
func (s *RaceOddsSnapshot) Empty() bool {
	return s == nil || len(s.Entries) == 0
}

// DisplayRow is the simplified record handed to presentation layers
type DisplayRow struct {
	Driver  string  `json:"driver"`
	Odds    string  `json:"odds"`
	Decimal float64 `json:"decimal"`
	Rank    int     `json:"rank"` // 1-based
}

// Priced reports whether the row carries a usable decimal price.
func (r DisplayRow) Priced() bool {
	return r.Decimal >= 1.0
}

// Top returns the first n entries as display rows ranked from 1.
func (s *RaceOddsSnapshot) Top(n int) []DisplayRow {
	if s == nil || n <= 0 {
		return []DisplayRow{}
	}
	if n > len(s.Entries) {
		n = len(s.Entries)
	}

	rows := make([]DisplayRow, 0, n)
	for i, e := range s.Entries[:n] {
		rows = append(rows, DisplayRow{
			Driver:  e.DriverName,
			Odds:    e.AmericanOdds,
			Decimal: e.DecimalOdds,
			Rank:    i + 1,
		})
	}
	return rows
}
