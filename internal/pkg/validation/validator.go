package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/Vodeneev/raceodds/internal/pkg/models"
)

// ValidateSnapshot checks a snapshot before it is written to a backend.
// A nil or empty snapshot is valid.
func ValidateSnapshot(snap *models.RaceOddsSnapshot) error {
	if snap.Empty() {
		return nil
	}
	if !snap.Series.IsValid() {
		return fmt.Errorf("unknown series %q", snap.Series)
	}
	if snap.CapturedAt.IsZero() {
		return fmt.Errorf("%s snapshot has no capture time", snap.Series)
	}

	seen := make(map[string]struct{}, len(snap.Entries))
	unpriced := false
	prev := 0.0
	for i, e := range snap.Entries {
		if e.DriverName == "" {
			return fmt.Errorf("entry %d: driver name cannot be empty", i)
		}
		if utf8.RuneCountInString(e.DriverName) > MaxNameLength {
			return fmt.Errorf("entry %d: driver name longer than %d characters", i, MaxNameLength)
		}
		if _, dup := seen[e.DriverName]; dup {
			return fmt.Errorf("entry %d: duplicate driver %q", i, e.DriverName)
		}
		seen[e.DriverName] = struct{}{}

		if e.DecimalOdds != 0 && e.DecimalOdds < 1.0 {
			return fmt.Errorf("entry %d: invalid decimal odds %.2f for %q", i, e.DecimalOdds, e.DriverName)
		}
		if !e.Priced() {
			unpriced = true
			continue
		}
		if unpriced {
			return fmt.Errorf("entry %d: priced driver %q listed after unpriced entries", i, e.DriverName)
		}
		if e.DecimalOdds < prev {
			return fmt.Errorf("entry %d: %q (%.2f) is shorter than the previous entry (%.2f)", i, e.DriverName, e.DecimalOdds, prev)
		}
		prev = e.DecimalOdds
	}
	return nil
}
