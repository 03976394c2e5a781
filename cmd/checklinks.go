package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"bookstand/internal/bookstore"
	"bookstand/internal/config"
	"bookstand/internal/links"
	"bookstand/internal/lookup"
)

// ChecklinksCmd represents the detail-link verification command. The detail
// pages are client-rendered, so a plain GET always returns the app shell;
// a headless browser is needed to confirm a SKU actually renders.
type ChecklinksCmd struct {
	SKUs    []string      `arg:"" optional:"" help:"SKUs to check (defaults to every listable SKU)"`
	Limit   int           `help:"Maximum number of links to check" default:"25"`
	Timeout time.Duration `help:"Per-page render timeout" default:"15s"`
}

func (c *ChecklinksCmd) Run() error {
	store, cleanup := newStore()
	defer cleanup()

	ctx := context.Background()
	snap, err := store.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	skus := c.SKUs
	for _, sku := range skus {
		if _, ok := lookup.FindBySKU(snap, sku); !ok {
			return fmt.Errorf("%w: no book with SKU %q in the catalog", bookstore.ErrNotFound, sku)
		}
	}
	if len(skus) == 0 {
		for _, b := range snap.Books {
			if b.Listable() {
				skus = append(skus, b.SKU)
			}
			if len(skus) == c.Limit {
				break
			}
		}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}

	broken := 0
	for _, sku := range skus {
		url := links.DetailURL(config.BaseURL, sku)
		if err := checkDetailPage(browserCtx, url, c.Timeout); err != nil {
			broken++
			slog.Error("Detail page broken", "sku", sku, "url", url, "error", err)
			continue
		}
		slog.Info("Detail page ok", "sku", sku, "url", url)
	}

	if broken > 0 {
		return fmt.Errorf("%d of %d detail pages failed to render", broken, len(skus))
	}
	slog.Info("All detail pages rendered", "checked", len(skus))
	return nil
}

// checkDetailPage loads a detail URL and waits for the rendered title node.
func checkDetailPage(ctx context.Context, url string, timeout time.Duration) error {
	pageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var title string
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("h1", chromedp.ByQuery),
		chromedp.Text("h1", &title, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("page did not render: %w", err)
	}
	if title == "" {
		return fmt.Errorf("rendered page has an empty title")
	}
	return nil
}
