package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/Vodeneev/raceodds/internal/pkg/config"
	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
	"github.com/Vodeneev/raceodds/internal/pkg/performance"
	"github.com/Vodeneev/raceodds/internal/pkg/validation"
)

// Ensure PostgresRaceOddsStorage implements RaceOddsStorage
var _ RaceOddsStorage = (*PostgresRaceOddsStorage)(nil)

// PostgresRaceOddsStorage keeps one row per (series, driver) with the latest price.
type PostgresRaceOddsStorage struct {
	db *sql.DB
}

// NewPostgresRaceOddsStorage creates a new PostgreSQL storage for race odds.
func NewPostgresRaceOddsStorage(cfg *config.PostgresConfig) (*PostgresRaceOddsStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", firstHostDSN(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresRaceOddsStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL race odds storage initialized successfully")
	return s, nil
}

// firstHostDSN keeps only the first host of a multi-host URL DSN
// (postgres://u:p@h1:5432,h2:5432/db); lib/pq connects to a single host.
func firstHostDSN(dsn string) string {
	scheme := ""
	switch {
	case strings.HasPrefix(dsn, "postgres://"):
		scheme = "postgres://"
	case strings.HasPrefix(dsn, "postgresql://"):
		scheme = "postgresql://"
	default:
		return dsn
	}

	rest := dsn[len(scheme):]
	hostStart := strings.LastIndex(strings.SplitN(rest, "/", 2)[0], "@") + 1
	hostEnd := len(rest)
	if i := strings.IndexAny(rest[hostStart:], "/?"); i >= 0 {
		hostEnd = hostStart + i
	}

	hosts := rest[hostStart:hostEnd]
	if i := strings.Index(hosts, ","); i >= 0 {
		hosts = hosts[:i]
	}
	return scheme + rest[:hostStart] + hosts + rest[hostEnd:]
}

func (s *PostgresRaceOddsStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS race_odds (
		series VARCHAR(32) NOT NULL,
		driver_name VARCHAR(200) NOT NULL,
		race_label VARCHAR(500) NOT NULL,
		american_odds VARCHAR(16) NOT NULL,
		decimal_odds DECIMAL(10, 2) NOT NULL,
		position INT NOT NULL,
		captured_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (series, driver_name)
	);

	CREATE INDEX IF NOT EXISTS idx_race_odds_series_position ON race_odds(series, position);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StoreSnapshot replaces the series' rows with snap in one transaction.
// Drivers no longer listed are removed, the rest are UPSERTed. Empty snapshots are skipped.
func (s *PostgresRaceOddsStorage) StoreSnapshot(ctx context.Context, snap *models.RaceOddsSnapshot) error {
	if snap.Empty() {
		return nil
	}
	if err := validation.ValidateSnapshot(snap); err != nil {
		return fmt.Errorf("refusing to store %s snapshot: %w", snap.Series, err)
	}

	start := time.Now()
	err := s.storeSnapshot(ctx, snap)
	performance.GetTracker().RecordStoreOperation("postgres", "store", snap.Series, time.Since(start), err)
	return err
}

func (s *PostgresRaceOddsStorage) storeSnapshot(ctx context.Context, snap *models.RaceOddsSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	names := make([]string, len(snap.Entries))
	for i, e := range snap.Entries {
		names[i] = e.DriverName
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM race_odds WHERE series = $1 AND NOT (driver_name = ANY($2))`,
		string(snap.Series), pq.Array(names),
	); err != nil {
		return fmt.Errorf("failed to remove delisted drivers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO race_odds (
		series, driver_name, race_label, american_odds,
		decimal_odds, position, captured_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (series, driver_name) DO UPDATE SET
		race_label = EXCLUDED.race_label,
		american_odds = EXCLUDED.american_odds,
		decimal_odds = EXCLUDED.decimal_odds,
		position = EXCLUDED.position,
		captured_at = EXCLUDED.captured_at,
		updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	capturedAt := snap.CapturedAt.UTC()
	for i, e := range snap.Entries {
		if _, err := stmt.ExecContext(ctx,
			string(snap.Series), e.DriverName, snap.RaceLabel, e.AmericanOdds,
			e.DecimalOdds, i+1, capturedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert %s odds for %q: %w", snap.Series, e.DriverName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit race odds: %w", err)
	}
	return nil
}

// LatestSnapshot rebuilds the stored snapshot for series in stored order; nil if no rows.
func (s *PostgresRaceOddsStorage) LatestSnapshot(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error) {
	start := time.Now()
	snap, err := s.latestSnapshot(ctx, series)
	performance.GetTracker().RecordStoreOperation("postgres", "latest", series, time.Since(start), err)
	return snap, err
}

func (s *PostgresRaceOddsStorage) latestSnapshot(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error) {
	query := `
	SELECT race_label, driver_name, american_odds, decimal_odds, captured_at
	FROM race_odds
	WHERE series = $1
	ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, string(series))
	if err != nil {
		return nil, fmt.Errorf("failed to query race odds: %w", err)
	}
	defer rows.Close()

	var snap *models.RaceOddsSnapshot
	for rows.Next() {
		var (
			raceLabel  string
			e          models.DriverPrice
			capturedAt time.Time
		)
		if err := rows.Scan(&raceLabel, &e.DriverName, &e.AmericanOdds, &e.DecimalOdds, &capturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan race odds: %w", err)
		}
		if snap == nil {
			snap = &models.RaceOddsSnapshot{
				RaceLabel:  raceLabel,
				Series:     series,
				CapturedAt: capturedAt.UTC(),
				Entries:    []models.DriverPrice{},
			}
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read race odds: %w", err)
	}
	return snap, nil
}

// DeleteSeries removes every stored row of series.
func (s *PostgresRaceOddsStorage) DeleteSeries(ctx context.Context, series enums.Series) error {
	start := time.Now()
	res, err := s.db.ExecContext(ctx, `DELETE FROM race_odds WHERE series = $1`, string(series))
	if err != nil {
		err = fmt.Errorf("failed to delete race odds: %w", err)
	}
	performance.GetTracker().RecordStoreOperation("postgres", "delete", series, time.Since(start), err)
	if err != nil {
		return err
	}

	rows, _ := res.RowsAffected()
	if rows > 0 {
		slog.Info("Deleted race odds", "series", series, "rows_deleted", rows)
	}
	return nil
}

// Ping checks the database connection.
func (s *PostgresRaceOddsStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *PostgresRaceOddsStorage) Close() error {
	return s.db.Close()
}
