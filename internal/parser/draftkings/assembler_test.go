package draftkings

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
)

var capturedAt = time.Date(2026, 3, 15, 4, 0, 0, 0, time.UTC)

func TestAssemble_DuplicateKeepsFavourite(t *testing.T) {
	raw := []RawPrice{
		{"Max Verstappen", "-250"},
		{"Lando Norris", "+450"},
		{"Max Verstappen", "-200"},
	}

	snap := Assemble(enums.F1, "Australian Grand Prix", raw, capturedAt)

	want := []models.DriverPrice{
		{DriverName: "Max Verstappen", AmericanOdds: "-250", DecimalOdds: 1.40},
		{DriverName: "Lando Norris", AmericanOdds: "+450", DecimalOdds: 5.50},
	}
	if diff := cmp.Diff(want, snap.Entries); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}

	rows := snap.Top(models.DefaultTopN)
	wantRows := []models.DisplayRow{
		{Driver: "Max Verstappen", Odds: "-250", Decimal: 1.40, Rank: 1},
		{Driver: "Lando Norris", Odds: "+450", Decimal: 5.50, Rank: 2},
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Errorf("Top() mismatch (-want +got):\n%s", diff)
	}

	if snap.Series != enums.F1 || snap.RaceLabel != "Australian Grand Prix" || !snap.CapturedAt.Equal(capturedAt) {
		t.Errorf("snapshot header = %q %q %v", snap.Series, snap.RaceLabel, snap.CapturedAt)
	}
}

func TestAssemble_DuplicateLaterFavourite(t *testing.T) {
	raw := []RawPrice{
		{"Lando Norris", "+450"},
		{"Lando Norris", "+300"},
	}
	snap := Assemble(enums.F1, "", raw, capturedAt)
	if len(snap.Entries) != 1 || snap.Entries[0].AmericanOdds != "+300" {
		t.Errorf("Entries = %+v, want single +300 entry", snap.Entries)
	}
	if snap.RaceLabel != UnknownRace {
		t.Errorf("RaceLabel = %q, want %q", snap.RaceLabel, UnknownRace)
	}
}

func TestAssemble_SortedAndUnique(t *testing.T) {
	raw := []RawPrice{
		{"Oscar Piastri", "+600"},
		{"Max Verstappen", "+150"},
		{"George Russell", "+900"},
		{"Lando Norris", "+300"},
		{"Charles Leclerc", "+600"},
		{"Oscar Piastri", "+700"},
		{"Lewis Hamilton", "-120"},
		{"Yuki Tsunoda", "+25000"},
	}

	snap := Assemble(enums.F1, "Japanese Grand Prix", raw, capturedAt)

	seen := make(map[string]bool)
	for i, e := range snap.Entries {
		if seen[e.DriverName] {
			t.Errorf("driver %q repeated", e.DriverName)
		}
		seen[e.DriverName] = true
		if i > 0 && e.DecimalOdds < snap.Entries[i-1].DecimalOdds {
			t.Errorf("entries[%d] = %v < entries[%d] = %v", i, e.DecimalOdds, i-1, snap.Entries[i-1].DecimalOdds)
		}
	}
	if len(snap.Entries) != 7 {
		t.Errorf("len(Entries) = %d, want 7", len(snap.Entries))
	}

	// equal prices keep page order
	var ties []string
	for _, e := range snap.Entries {
		if e.DecimalOdds == 7.0 {
			ties = append(ties, e.DriverName)
		}
	}
	if diff := cmp.Diff([]string{"Oscar Piastri", "Charles Leclerc"}, ties); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_UnparseablePricesLast(t *testing.T) {
	raw := []RawPrice{
		{"Pit Lane Starter", "+"},
		{"Max Verstappen", "+150"},
		{"Reserve Driver", "-0"},
		{"Lando Norris", "+300"},
	}

	snap := Assemble(enums.F1, "Monaco Grand Prix", raw, capturedAt)

	var got []string
	for _, e := range snap.Entries {
		got = append(got, e.DriverName)
	}
	want := []string{"Max Verstappen", "Lando Norris", "Pit Lane Starter", "Reserve Driver"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if snap.Entries[2].Priced() || snap.Entries[3].Priced() {
		t.Errorf("unparseable entries should be unpriced: %+v", snap.Entries[2:])
	}
}

func TestAssemble_UnparseableDuplicateLosesToRealPrice(t *testing.T) {
	raw := []RawPrice{
		{"Max Verstappen", "+"},
		{"Max Verstappen", "+150"},
	}
	snap := Assemble(enums.F1, "Monaco Grand Prix", raw, capturedAt)
	if len(snap.Entries) != 1 || snap.Entries[0].DecimalOdds != 2.5 {
		t.Errorf("Entries = %+v, want single 2.5 entry", snap.Entries)
	}
}

func TestAssemble_Empty(t *testing.T) {
	snap := Assemble(enums.NASCAR, UnknownRace, nil, capturedAt)
	if snap.Entries == nil || len(snap.Entries) != 0 {
		t.Errorf("Entries = %#v, want empty non-nil slice", snap.Entries)
	}
	if !snap.Empty() {
		t.Error("Empty() = false, want true")
	}
}
