package draftkings

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := ParseDocument(html)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func TestExtractPrices(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want []RawPrice
	}{
		{
			name: "document order",
			rows: []string{
				priceRow("Max Verstappen", "+150"),
				priceRow("Lando Norris", "+300"),
				priceRow("Oscar Piastri", "+450"),
			},
			want: []RawPrice{
				{"Max Verstappen", "+150"},
				{"Lando Norris", "+300"},
				{"Oscar Piastri", "+450"},
			},
		},
		{
			name: "unicode minus kept as displayed",
			rows: []string{priceRow("Max Verstappen", "−250"), priceRow("Lando Norris", " +450 ")},
			want: []RawPrice{{"Max Verstappen", "−250"}, {"Lando Norris", "+450"}},
		},
		{
			name: "unsigned prices skipped",
			rows: []string{priceRow("Max Verstappen", "450"), priceRow("Lando Norris", "EVEN"), priceRow("George Russell", "+900")},
			want: []RawPrice{{"George Russell", "+900"}},
		},
		{
			name: "row without price button skipped",
			rows: []string{labelOnlyRow("Suspended Driver"), priceRow("Charles Leclerc", "+800")},
			want: []RawPrice{{"Charles Leclerc", "+800"}},
		},
		{
			name: "repeated name keeps first",
			rows: []string{priceRow("Max Verstappen", "-250"), priceRow("Max Verstappen", "-200")},
			want: []RawPrice{{"Max Verstappen", "-250"}},
		},
		{
			name: "empty name skipped",
			rows: []string{priceRow("  ", "+100"), priceRow("Lewis Hamilton", "+1200")},
			want: []RawPrice{{"Lewis Hamilton", "+1200"}},
		},
		{
			name: "name trimmed but otherwise as rendered",
			rows: []string{priceRow("  Nico  Hülkenberg ", "+5000")},
			want: []RawPrice{{"Nico  Hülkenberg", "+5000"}},
		},
		{
			name: "no rows",
			rows: nil,
			want: []RawPrice{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, leaguePage(market("Race Winner", tt.rows...)))
			got := ExtractPrices(FirstTwoColumnMarket{}.Locate(doc))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractPrices() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractPrices_NilMarket(t *testing.T) {
	got := ExtractPrices(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("ExtractPrices(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestExtractPrices_OnlyFirstMarket(t *testing.T) {
	doc := mustParse(t, leaguePage(
		market("Race Winner", priceRow("Max Verstappen", "+150")),
		market("Top 3 Finish", priceRow("Max Verstappen", "-400"), priceRow("Yuki Tsunoda", "+2500")),
	))

	got := ExtractPrices(FirstTwoColumnMarket{}.Locate(doc))
	want := []RawPrice{{"Max Verstappen", "+150"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractPrices() mismatch (-want +got):\n%s", diff)
	}
}

func TestRaceLabel(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"accordion title", leaguePage(market("Las Vegas Grand Prix", priceRow("Max Verstappen", "+150"))), "Las Vegas Grand Prix"},
		{"label whitespace collapsed", leaguePage(market("Las Vegas\n   Grand Prix ", priceRow("Max Verstappen", "+150"))), "Las Vegas Grand Prix"},
		{"event cell before heading", `<html><body><h1>Motorsports</h1><div class="event-cell__name-text"> Daytona 500 </div></body></html>`, "Motorsports"},
		{"event cell only", `<html><body><span class="event-cell__name-text"> Daytona 500 </span></body></html>`, "Daytona 500"},
		{"no title", `<html><body><div class="cb-market__template--2-columns"></div></body></html>`, UnknownRace},
		{"blank title", `<html><body><h1>   </h1></body></html>`, UnknownRace},
	}
	for _, tt := range tests {
		got := RaceLabel(mustParse(t, tt.html))
		if got != tt.want {
			t.Errorf("RaceLabel(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
