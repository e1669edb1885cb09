package syncer

import (
	"context"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
	"github.com/Vodeneev/raceodds/internal/pkg/storage"
)

// StorageSink persists snapshots in the race odds storage
type StorageSink struct {
	Store storage.RaceOddsStorage
}

func (s StorageSink) Name() string { return "postgres" }

func (s StorageSink) Write(ctx context.Context, snap *models.RaceOddsSnapshot) error {
	return s.Store.StoreSnapshot(ctx, snap)
}

// CacheSink keeps the latest snapshot in the snapshot cache
type CacheSink struct {
	Cache storage.SnapshotCache
}

func (s CacheSink) Name() string { return "redis" }

func (s CacheSink) Write(ctx context.Context, snap *models.RaceOddsSnapshot) error {
	return s.Cache.PutSnapshot(ctx, snap)
}

// Notifier is implemented by notify.TelegramNotifier
type Notifier interface {
	NotifySnapshot(ctx context.Context, series enums.Series, snap *models.RaceOddsSnapshot) error
}

// NotifySink posts every snapshot, empty ones included, to a chat
type NotifySink struct {
	Notifier Notifier
}

func (s NotifySink) Name() string { return "telegram" }

func (s NotifySink) Write(ctx context.Context, snap *models.RaceOddsSnapshot) error {
	return s.Notifier.NotifySnapshot(ctx, snap.Series, snap)
}
