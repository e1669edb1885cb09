package storage

import (
	"context"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
)

// RaceOddsStorage persists the latest race winner odds per series
type RaceOddsStorage interface {
	// StoreSnapshot replaces the stored odds of snap.Series with snap
	StoreSnapshot(ctx context.Context, snap *models.RaceOddsSnapshot) error

	// LatestSnapshot returns the stored odds for series, or nil if nothing is stored
	LatestSnapshot(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error)

	// DeleteSeries removes all stored odds of series
	DeleteSeries(ctx context.Context, series enums.Series) error

	// Close closes the database connection
	Close() error
}

// SnapshotCache keeps the most recent non-empty snapshot per series for fast reads
type SnapshotCache interface {
	// PutSnapshot caches snap; empty snapshots are ignored
	PutSnapshot(ctx context.Context, snap *models.RaceOddsSnapshot) error

	// Latest returns the cached snapshot for series, or nil on a miss
	Latest(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error)

	// Delete drops the cached snapshot of series; a miss is not an error
	Delete(ctx context.Context, series enums.Series) error

	Close() error
}
