package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
)

func snapshotWith(n int) *RaceOddsSnapshot {
	s := &RaceOddsSnapshot{
		RaceLabel:  "Las Vegas Grand Prix",
		Series:     enums.F1,
		CapturedAt: time.Date(2026, 11, 20, 12, 0, 0, 0, time.UTC),
		Entries:    []DriverPrice{},
	}
	for i := 0; i < n; i++ {
		s.Entries = append(s.Entries, DriverPrice{
			DriverName:   fmt.Sprintf("Driver %d", i+1),
			AmericanOdds: fmt.Sprintf("+%d", (i+1)*100),
			DecimalOdds:  float64(i+1) + 1,
		})
	}
	return s
}

func TestTop_ReturnsFirstNRanked(t *testing.T) {
	s := snapshotWith(10)

	rows := s.Top(3)
	if len(rows) != 3 {
		t.Fatalf("Top(3) returned %d rows, want 3", len(rows))
	}
	for i, row := range rows {
		e := s.Entries[i]
		if row.Rank != i+1 {
			t.Errorf("row %d rank = %d, want %d", i, row.Rank, i+1)
		}
		if row.Driver != e.DriverName || row.Odds != e.AmericanOdds || row.Decimal != e.DecimalOdds {
			t.Errorf("row %d = %+v, want entry %+v", i, row, e)
		}
	}
}

func TestTop_Bounds(t *testing.T) {
	s := snapshotWith(2)

	if got := len(s.Top(DefaultTopN)); got != 2 {
		t.Errorf("Top(%d) on 2 entries returned %d rows, want 2", DefaultTopN, got)
	}
	if got := s.Top(0); got == nil || len(got) != 0 {
		t.Errorf("Top(0) = %v, want empty non-nil slice", got)
	}
	if got := s.Top(-1); len(got) != 0 {
		t.Errorf("Top(-1) = %v, want empty", got)
	}

	var nilSnap *RaceOddsSnapshot
	if got := nilSnap.Top(3); len(got) != 0 {
		t.Errorf("nil snapshot Top(3) = %v, want empty", got)
	}
}

func TestEmpty(t *testing.T) {
	var nilSnap *RaceOddsSnapshot
	if !nilSnap.Empty() {
		t.Error("nil snapshot should be empty")
	}
	if !snapshotWith(0).Empty() {
		t.Error("snapshot without entries should be empty")
	}
	if snapshotWith(1).Empty() {
		t.Error("snapshot with entries should not be empty")
	}
}

func TestPriced(t *testing.T) {
	if (DriverPrice{DecimalOdds: 0}).Priced() {
		t.Error("0 decimal should not be priced")
	}
	if !(DisplayRow{Decimal: 1.91}).Priced() {
		t.Error("1.91 decimal should be priced")
	}
}
