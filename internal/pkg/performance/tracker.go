package performance

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
)

// Tracker tracks performance metrics for scrape runs and snapshot storage
type Tracker struct {
	mu sync.RWMutex

	// Overall metrics
	TotalScrapes   int
	EmptyScrapes   int
	TotalDrivers   int
	TotalDuration  time.Duration
	LastScrapeTime time.Time

	// Per-scrape metrics
	Scrapes []ScrapeTiming

	// Storage operation metrics (postgres, redis)
	StoreOperations []StoreOperation
}

// ScrapeTiming tracks timing for a single series scrape
type ScrapeTiming struct {
	Series    enums.Series
	Drivers   int
	Duration  time.Duration
	Timestamp time.Time
}

// StoreOperation tracks a single storage operation
type StoreOperation struct {
	Backend   string // "postgres", "redis"
	Operation string // "store", "latest", "delete"
	Series    enums.Series
	Duration  time.Duration
	Success   bool
	Error     string
	Timestamp time.Time
}

const (
	maxScrapes         = 1000
	maxStoreOperations = 10000
	slowestCount       = 5
)

var globalTracker = NewTracker()

// GetTracker returns the global performance tracker
func GetTracker() *Tracker {
	return globalTracker
}

func NewTracker() *Tracker {
	return &Tracker{
		Scrapes:         make([]ScrapeTiming, 0, 64),
		StoreOperations: make([]StoreOperation, 0, 256),
	}
}

// Reset resets all metrics
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalScrapes = 0
	t.EmptyScrapes = 0
	t.TotalDrivers = 0
	t.TotalDuration = 0
	t.LastScrapeTime = time.Time{}
	t.Scrapes = t.Scrapes[:0]
	t.StoreOperations = t.StoreOperations[:0]
}

// RecordScrape records one completed series scrape. drivers == 0 counts as an empty scrape.
func (t *Tracker) RecordScrape(series enums.Series, drivers int, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.TotalScrapes++
	t.TotalDrivers += drivers
	t.TotalDuration += duration
	t.LastScrapeTime = now
	if drivers == 0 {
		t.EmptyScrapes++
	}

	if len(t.Scrapes) >= maxScrapes {
		t.Scrapes = t.Scrapes[1:]
	}
	t.Scrapes = append(t.Scrapes, ScrapeTiming{
		Series:    series,
		Drivers:   drivers,
		Duration:  duration,
		Timestamp: now,
	})
}

// RecordStoreOperation records a single storage operation
func (t *Tracker) RecordStoreOperation(backend, operation string, series enums.Series, duration time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	errStr := ""
	if err != nil {
		errStr = err.Error()
	}

	if len(t.StoreOperations) >= maxStoreOperations {
		t.StoreOperations = t.StoreOperations[1:]
	}
	t.StoreOperations = append(t.StoreOperations, StoreOperation{
		Backend:   backend,
		Operation: operation,
		Series:    series,
		Duration:  duration,
		Success:   err == nil,
		Error:     errStr,
		Timestamp: time.Now(),
	})
}

// PrintSummary logs a performance summary
func (t *Tracker) PrintSummary() {
	m := t.GetMetrics()
	if m.Overall.TotalScrapes == 0 {
		slog.Info("No performance data collected yet")
		return
	}

	slog.Info("PERFORMANCE SUMMARY",
		"total_scrapes", m.Overall.TotalScrapes,
		"empty_scrapes", m.Overall.EmptyScrapes,
		"total_drivers", m.Overall.TotalDrivers,
		"avg_duration", m.Overall.AvgDuration)

	for _, s := range m.PerSeries {
		slog.Info("Series Statistics",
			"series", s.Series,
			"scrapes", s.Scrapes,
			"success_rate", s.SuccessRate,
			"avg_drivers", s.AvgDrivers,
			"avg_duration", s.AvgDuration,
			"last_drivers", s.LastDrivers)
	}

	for name, op := range m.StoreOperations {
		slog.Info("Store Operation",
			"operation", name,
			"count", op.Count,
			"avg_time", op.AvgTime,
			"success_rate", op.SuccessRate)
	}
}

// MetricsResponse represents the JSON response structure for /metrics endpoint
type MetricsResponse struct {
	Overall struct {
		TotalScrapes   int    `json:"total_scrapes"`
		EmptyScrapes   int    `json:"empty_scrapes"`
		TotalDrivers   int    `json:"total_drivers"`
		AvgDuration    string `json:"avg_duration"`
		LastScrapeTime string `json:"last_scrape_time,omitempty"`
	} `json:"overall"`

	PerSeries []SeriesMetrics `json:"per_series"`

	StoreOperations map[string]StoreOperationMetrics `json:"store_operations"`

	SlowestOperations []SlowOperation `json:"slowest_operations"`
}

type SeriesMetrics struct {
	Series      enums.Series `json:"series"`
	Scrapes     int          `json:"scrapes"`
	SuccessRate float64      `json:"success_rate"`
	AvgDrivers  float64      `json:"avg_drivers"`
	AvgDuration string       `json:"avg_duration"`
	LastDrivers int          `json:"last_drivers"`
	LastSuccess string       `json:"last_success,omitempty"`
}

type StoreOperationMetrics struct {
	Count       int     `json:"count"`
	AvgTime     string  `json:"avg_time"`
	SuccessRate float64 `json:"success_rate"`
}

type SlowOperation struct {
	Operation string `json:"operation"`
	Series    string `json:"series"`
	Duration  string `json:"duration"`
	Error     string `json:"error,omitempty"`
}

// GetMetrics returns structured metrics for JSON API
func (t *Tracker) GetMetrics() MetricsResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var resp MetricsResponse

	resp.Overall.TotalScrapes = t.TotalScrapes
	resp.Overall.EmptyScrapes = t.EmptyScrapes
	resp.Overall.TotalDrivers = t.TotalDrivers
	if t.TotalScrapes > 0 {
		resp.Overall.AvgDuration = (t.TotalDuration / time.Duration(t.TotalScrapes)).String()
		resp.Overall.LastScrapeTime = t.LastScrapeTime.Format(time.RFC3339)
	}

	// Per-series statistics, in AllSeries order
	type seriesStat struct {
		count, success, drivers, last int
		total                         time.Duration
		lastSuccess                   time.Time
	}
	stats := make(map[enums.Series]*seriesStat)
	for _, s := range t.Scrapes {
		st, ok := stats[s.Series]
		if !ok {
			st = &seriesStat{}
			stats[s.Series] = st
		}
		st.count++
		st.drivers += s.Drivers
		st.total += s.Duration
		st.last = s.Drivers
		if s.Drivers > 0 {
			st.success++
			st.lastSuccess = s.Timestamp
		}
	}
	resp.PerSeries = make([]SeriesMetrics, 0, len(stats))
	for _, series := range enums.AllSeries {
		st, ok := stats[series]
		if !ok {
			continue
		}
		sm := SeriesMetrics{
			Series:      series,
			Scrapes:     st.count,
			SuccessRate: float64(st.success) / float64(st.count) * 100,
			AvgDrivers:  float64(st.drivers) / float64(st.count),
			AvgDuration: (st.total / time.Duration(st.count)).String(),
			LastDrivers: st.last,
		}
		if !st.lastSuccess.IsZero() {
			sm.LastSuccess = st.lastSuccess.Format(time.RFC3339)
		}
		resp.PerSeries = append(resp.PerSeries, sm)
	}

	// Storage operations, keyed "<backend>.<operation>"
	resp.StoreOperations = make(map[string]StoreOperationMetrics)
	opsByType := make(map[string]struct {
		count   int
		total   time.Duration
		success int
	})
	for _, op := range t.StoreOperations {
		key := op.Backend + "." + op.Operation
		stat := opsByType[key]
		stat.count++
		stat.total += op.Duration
		if op.Success {
			stat.success++
		}
		opsByType[key] = stat
	}
	for key, stat := range opsByType {
		resp.StoreOperations[key] = StoreOperationMetrics{
			Count:       stat.count,
			AvgTime:     (stat.total / time.Duration(stat.count)).String(),
			SuccessRate: float64(stat.success) / float64(stat.count) * 100,
		}
	}

	// Slowest storage operations
	slowest := make([]StoreOperation, len(t.StoreOperations))
	copy(slowest, t.StoreOperations)
	sort.SliceStable(slowest, func(i, j int) bool { return slowest[i].Duration > slowest[j].Duration })
	if len(slowest) > slowestCount {
		slowest = slowest[:slowestCount]
	}
	resp.SlowestOperations = make([]SlowOperation, 0, len(slowest))
	for _, op := range slowest {
		resp.SlowestOperations = append(resp.SlowestOperations, SlowOperation{
			Operation: op.Backend + "." + op.Operation,
			Series:    string(op.Series),
			Duration:  op.Duration.String(),
			Error:     op.Error,
		})
	}

	return resp
}
