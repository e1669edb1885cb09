package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
)

type oddsResponse struct {
	Snapshot *models.RaceOddsSnapshot `json:"snapshot"`
	Top      []models.DisplayRow      `json:"top"`
}

// HandleOdds returns the latest stored snapshot of a series
// GET /odds?series=F1&top=5
// DELETE /odds?series=F1 clears it
func HandleOdds(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodDelete {
		handleClearOdds(w, r)
		return
	}
	startTime := time.Now()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	series, err := enums.ParseSeries(r.URL.Query().Get("series"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	top := models.DefaultTopN
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid top %q", raw))
			return
		}
		top = n
	}

	if latestFunc == nil {
		writeError(w, http.StatusServiceUnavailable, "odds storage not configured")
		return
	}

	snap, err := latestFunc(r.Context(), series)
	if err != nil {
		slog.Error("Failed to read latest odds", "series", series, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read odds")
		return
	}
	if snap.Empty() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("odds unavailable for %s", series))
		return
	}

	duration := time.Since(startTime)
	w.Header().Set("X-Query-Duration", duration.String())
	w.Header().Set("X-Drivers-Count", strconv.Itoa(len(snap.Entries)))

	if err := json.NewEncoder(w).Encode(oddsResponse{Snapshot: snap, Top: snap.Top(top)}); err != nil {
		slog.Error("Failed to encode odds", "error", err)
	}
}

func handleClearOdds(w http.ResponseWriter, r *http.Request) {
	series, err := enums.ParseSeries(r.URL.Query().Get("series"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if clearFunc == nil {
		writeError(w, http.StatusServiceUnavailable, "odds storage not configured")
		return
	}
	if err := clearFunc(r.Context(), series); err != nil {
		slog.Error("Failed to clear odds", "series", series, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear odds")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"series": series, "cleared": true})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
