package draftkings

import (
	"math"
	"sort"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
	"github.com/Vodeneev/raceodds/internal/pkg/oddsmath"
)

// Assemble converts raw prices into a snapshot ordered favourite first.
// Duplicate names keep the shortest real price; unparseable prices (decimal 0) sort last.
func Assemble(series enums.Series, raceLabel string, raw []RawPrice, capturedAt time.Time) *models.RaceOddsSnapshot {
	if raceLabel == "" {
		raceLabel = UnknownRace
	}

	entries := make([]models.DriverPrice, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, r := range raw {
		dp := models.DriverPrice{
			DriverName:   r.Name,
			AmericanOdds: r.Price,
			DecimalOdds:  oddsmath.ToDecimal(r.Price),
		}
		if i, ok := index[dp.DriverName]; ok {
			if sortKey(dp.DecimalOdds) < sortKey(entries[i].DecimalOdds) {
				entries[i] = dp
			}
			continue
		}
		index[dp.DriverName] = len(entries)
		entries = append(entries, dp)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return sortKey(entries[i].DecimalOdds) < sortKey(entries[j].DecimalOdds)
	})

	return &models.RaceOddsSnapshot{
		RaceLabel:  raceLabel,
		Series:     series,
		CapturedAt: capturedAt,
		Entries:    entries,
	}
}

func sortKey(decimal float64) float64 {
	if decimal == 0 {
		return math.Inf(1)
	}
	return decimal
}
