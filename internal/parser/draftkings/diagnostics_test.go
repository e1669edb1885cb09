package draftkings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
)

func TestFileDiagnostics_Paths(t *testing.T) {
	tests := []struct {
		dir      string
		series   enums.Series
		wantHTML string
		wantPNG  string
	}{
		{"", enums.F1, "debug_f1.html", "debug_f1.png"},
		{"/var/lib/raceodds", enums.NASCAR, "/var/lib/raceodds/debug_nascar.html", "/var/lib/raceodds/debug_nascar.png"},
	}
	for _, tt := range tests {
		html, png := FileDiagnostics{Dir: tt.dir}.Paths(tt.series)
		if html != tt.wantHTML || png != tt.wantPNG {
			t.Errorf("Paths(%q, %s) = %q, %q, want %q, %q", tt.dir, tt.series, html, png, tt.wantHTML, tt.wantPNG)
		}
	}
}

func TestFileDiagnostics_Capture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	page := &fakePage{html: "<html><body>blocked</body></html>", screenshot: []byte("\x89PNG fake")}

	d := FileDiagnostics{Dir: dir}
	d.Capture(context.Background(), enums.NASCAR, page)

	htmlPath, pngPath := d.Paths(enums.NASCAR)
	if got, err := os.ReadFile(htmlPath); err != nil || string(got) != page.html {
		t.Errorf("debug html = %q, %v, want %q", got, err, page.html)
	}
	if got, err := os.ReadFile(pngPath); err != nil || string(got) != string(page.screenshot) {
		t.Errorf("debug png = %q, %v", got, err)
	}
}

func TestFileDiagnostics_CaptureHTMLFailureStillScreenshots(t *testing.T) {
	dir := t.TempDir()
	page := &fakePage{htmlErr: errors.New("target closed"), screenshot: []byte("png")}

	d := FileDiagnostics{Dir: dir}
	d.Capture(context.Background(), enums.F1, page)

	htmlPath, pngPath := d.Paths(enums.F1)
	if _, err := os.Stat(htmlPath); !os.IsNotExist(err) {
		t.Errorf("Stat(%s) = %v, want not exist", htmlPath, err)
	}
	if _, err := os.Stat(pngPath); err != nil {
		t.Errorf("Stat(%s) = %v, want screenshot written", pngPath, err)
	}
	if page.screenshots != 1 {
		t.Errorf("screenshots = %d, want 1", page.screenshots)
	}
}
