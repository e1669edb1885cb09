package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
)

// scrapeTimeout bounds a manual scrape; one series takes well under two minutes
const scrapeTimeout = 3 * time.Minute

// HandleScrape triggers a sync of one series and reports the result
// GET|POST /scrape?series=NASCAR
func HandleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	series, err := enums.ParseSeries(r.URL.Query().Get("series"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if scrapeFunc == nil {
		writeError(w, http.StatusServiceUnavailable, "scraper not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scrapeTimeout)
	defer cancel()

	startTime := time.Now()
	slog.Info("Manual scrape triggered", "series", series)
	snap, err := scrapeFunc(ctx, series)
	duration := time.Since(startTime)

	result := map[string]interface{}{
		"series":   series,
		"duration": duration.String(),
		"success":  err == nil && !snap.Empty(),
	}
	if err != nil {
		result["error"] = err.Error()
		slog.Error("Manual scrape failed", "series", series, "error", err, "duration", duration)
	} else {
		drivers := 0
		if snap != nil {
			drivers = len(snap.Entries)
			result["race_label"] = snap.RaceLabel
		}
		result["drivers"] = drivers
		slog.Info("Manual scrape completed", "series", series, "drivers", drivers, "duration", duration)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Failed to encode scrape response", "error", err)
	}
}
