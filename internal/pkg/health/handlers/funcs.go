package handlers

import (
	"context"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
)

// ScrapeFunc runs one sync of a series and returns the fresh snapshot
type ScrapeFunc func(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error)

// LatestFunc returns the most recent stored snapshot of a series, nil if none
type LatestFunc func(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error)

// ClearFunc removes the stored odds of a series
type ClearFunc func(ctx context.Context, series enums.Series) error

// ReadyFunc reports whether the service dependencies are reachable
type ReadyFunc func(ctx context.Context) error

var (
	scrapeFunc ScrapeFunc
	latestFunc LatestFunc
	clearFunc  ClearFunc
	readyFunc  ReadyFunc
)

// SetScrapeFunc sets the function used by HandleScrape
func SetScrapeFunc(fn ScrapeFunc) {
	scrapeFunc = fn
}

// SetLatestFunc sets the function used by HandleOdds
func SetLatestFunc(fn LatestFunc) {
	latestFunc = fn
}

// SetClearFunc sets the function used by DELETE /odds
func SetClearFunc(fn ClearFunc) {
	clearFunc = fn
}

// SetReadyFunc sets the readiness check used by HandleHealth
func SetReadyFunc(fn ReadyFunc) {
	readyFunc = fn
}
