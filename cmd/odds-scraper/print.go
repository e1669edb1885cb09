package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Vodeneev/raceodds/internal/pkg/models"
)

// printSnapshot writes a header and a ranked table; top <= 0 prints every entry.
func printSnapshot(w io.Writer, snap *models.RaceOddsSnapshot, top int) error {
	info := snap.Series.GetSeriesInfo()
	fmt.Fprintf(w, "%s | %s\n", info.Name, snap.RaceLabel)
	if !snap.CapturedAt.IsZero() {
		fmt.Fprintf(w, "captured %s\n", snap.CapturedAt.UTC().Format(time.RFC3339))
	}

	if snap.Empty() {
		_, err := fmt.Fprintln(w, "odds unavailable")
		return err
	}

	if top <= 0 {
		top = len(snap.Entries)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDRIVER\tODDS\tDECIMAL")
	for _, row := range snap.Top(top) {
		decimal := "-"
		if row.Priced() {
			decimal = fmt.Sprintf("%.2f", row.Decimal)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", row.Rank, row.Driver, row.Odds, decimal)
	}
	return tw.Flush()
}
