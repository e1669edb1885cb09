package enums

import (
	"fmt"
	"strings"
)

// Series represents a racing series with a DraftKings race winner market
type Series string

const (
	F1     Series = "F1"
	NASCAR Series = "NASCAR"
)

// AllSeries lists every supported series in scrape order
var AllSeries = []Series{F1, NASCAR}

// SeriesInfo contains additional information about a series
type SeriesInfo struct {
	Name  string
	Alias string
}

// GetSeriesInfo returns series information
func (s Series) GetSeriesInfo() SeriesInfo {
	switch s {
	case F1:
		return SeriesInfo{
			Name:  "Formula 1",
			Alias: "f1",
		}
	case NASCAR:
		return SeriesInfo{
			Name:  "NASCAR Cup Series",
			Alias: "nascar",
		}
	default:
		return SeriesInfo{
			Name:  string(s),
			Alias: strings.ToLower(string(s)),
		}
	}
}

// IsValid checks if the series is one of the supported series
func (s Series) IsValid() bool {
	for _, known := range AllSeries {
		if s == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the series
func (s Series) String() string {
	return string(s)
}

// ParseSeries resolves a user supplied identifier ("f1", " NASCAR ") to a known series.
func ParseSeries(raw string) (Series, error) {
	s := Series(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown series %q (available: %v)", raw, AllSeries)
	}
	return s, nil
}
