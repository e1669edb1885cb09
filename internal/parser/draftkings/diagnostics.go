package draftkings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Vodeneev/raceodds/internal/pkg/enums"
)

// Diagnostics records what the page looked like when a scrape came back empty.
// Implementations are best effort and never fail the scrape.
type Diagnostics interface {
	Capture(ctx context.Context, series enums.Series, page Page)
}

// FileDiagnostics writes debug_<series>.html and debug_<series>.png into Dir.
// Files are overwritten on every empty scrape.
type FileDiagnostics struct {
	Dir string
}

func (d FileDiagnostics) Paths(series enums.Series) (htmlPath, pngPath string) {
	base := "debug_" + series.GetSeriesInfo().Alias
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, base+".html"), filepath.Join(dir, base+".png")
}

func (d FileDiagnostics) Capture(ctx context.Context, series enums.Series, page Page) {
	htmlPath, pngPath := d.Paths(series)
	log := slog.With("series", series)

	if d.Dir != "" {
		if err := os.MkdirAll(d.Dir, 0o755); err != nil {
			log.Warn("Failed to create diagnostics dir", "dir", d.Dir, "error", err)
			return
		}
	}

	if err := d.writeHTML(ctx, page, htmlPath); err != nil {
		log.Warn("Failed to save debug html", "path", htmlPath, "error", err)
	} else {
		log.Info("Saved debug html", "path", htmlPath)
	}

	if err := d.writeScreenshot(ctx, page, pngPath); err != nil {
		log.Warn("Failed to save debug screenshot", "path", pngPath, "error", err)
	} else {
		log.Info("Saved debug screenshot", "path", pngPath)
	}
}

func (d FileDiagnostics) writeHTML(ctx context.Context, page Page, path string) error {
	html, err := page.HTML(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (d FileDiagnostics) writeScreenshot(ctx context.Context, page Page, path string) error {
	png, err := page.Screenshot(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type noDiagnostics struct{}

func (noDiagnostics) Capture(context.Context, enums.Series, Page) {}
