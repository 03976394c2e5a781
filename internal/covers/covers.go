// Package covers downloads catalog cover images and produces thumbnails
// for terminal-adjacent tooling.
package covers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"bookstand/internal/book"
	"bookstand/internal/fileutil"
)

// ThumbnailWidth is the pixel width of generated thumbnails; height scales
// to keep the aspect ratio.
const ThumbnailWidth = 200

// Options configures a download run.
type Options struct {
	// OutputDir is where covers and thumbnails are written
	OutputDir string
	// Update forces re-downloading covers that already exist
	Update bool
	// Thumbnails enables thumbnail generation alongside full covers
	Thumbnails bool
}

// Result summarizes one download run.
type Result struct {
	Downloaded int
	Skipped    int
	Failed     int
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Download fetches the cover image for every listable book in the
// snapshot. Books without images are ignored. Individual failures are
// logged and counted, not fatal.
func Download(ctx context.Context, snap *book.Snapshot, opts Options) (Result, error) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return Result{}, fmt.Errorf("failed to create covers directory: %w", err)
	}

	var res Result
	for _, b := range snap.Books {
		if !b.Listable() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path := filepath.Join(opts.OutputDir, coverFilename(b))
		if fileutil.FileExists(path) && !opts.Update {
			res.Skipped++
			continue
		}

		if err := fetchCover(ctx, b.Cover(), path); err != nil {
			slog.Warn("Cover download failed", "sku", b.SKU, "url", b.Cover(), "error", err)
			res.Failed++
			continue
		}
		res.Downloaded++

		if opts.Thumbnails {
			if err := writeThumbnail(path); err != nil {
				slog.Warn("Thumbnail generation failed", "sku", b.SKU, "error", err)
			}
		}
	}
	return res, nil
}

// coverFilename builds a filesystem-safe name keyed by SKU.
func coverFilename(b book.Record) string {
	ext := filepath.Ext(b.Cover())
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	sku := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, b.SKU)
	return sku + " - cover" + ext
}

func fetchCover(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cover request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cover request returned status: %s", resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cover file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write cover file: %w", err)
	}
	return nil
}

func writeThumbnail(coverPath string) error {
	img, err := imaging.Open(coverPath)
	if err != nil {
		return fmt.Errorf("failed to open cover image: %w", err)
	}
	thumb := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)

	ext := filepath.Ext(coverPath)
	thumbPath := strings.TrimSuffix(coverPath, ext) + " - thumb" + ext
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}
