package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"bookstand/internal/config"
	"bookstand/internal/fileutil"
	"bookstand/internal/links"
	"bookstand/internal/lookup"
	"bookstand/internal/sanitize"
)

// ShowCmd represents the show command
type ShowCmd struct {
	SKU string `arg:"" help:"SKU of the book to show"`

	Share   string `help:"Print a share URL for the given platform instead of the detail view"`
	Ref     string `help:"Attribution ref parameter to append to the detail URL"`
	Related int    `help:"Number of related books to list" default:"6"`
}

func (s *ShowCmd) Run() error {
	store, cleanup := newStore()
	defer cleanup()

	snap, err := store.Catalog(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	b, found := lookup.FindBySKU(snap, s.SKU)
	if !found {
		// A missing SKU is a normal outcome, not a command failure.
		fmt.Printf("book not found: no book with SKU %q in the catalog\n", s.SKU)
		return nil
	}

	if s.Share != "" {
		fmt.Println(links.ShareURLWithTracking(config.BaseURL, b.SKU, s.Share))
		return nil
	}

	fmt.Println(b.Title)
	printField("SKU", b.SKU)
	printField("Author", b.Author)
	printField("Language", b.Language)
	printField("Publisher", b.Publisher)
	printField("Published", b.PublishedOn)
	printField("ISBN", b.ISBN)
	if b.Pages > 0 {
		printField("Pages", fmt.Sprintf("%d", b.Pages))
	}

	if desc := sanitize.Text(b.Description); desc != "" {
		fmt.Printf("\n%s\n", desc)
	}

	if purchase := loadPurchaseLinks().Find(b.ISBN); len(purchase) > 0 {
		fmt.Println("\nPurchase:")
		for _, p := range purchase {
			fmt.Printf("  %-12s %s\n", p.Platform, p.URL)
		}
	}

	if editions := lookup.AvailableLanguages(b, snap.Books); len(editions) > 1 {
		fmt.Println("\nAvailable in:")
		for _, e := range editions {
			fmt.Printf("  %-12s %s\n", e.Language, e.SKU)
		}
	}

	if related := lookup.Related(b, snap.Books, s.Related); len(related) > 0 {
		fmt.Println("\nRelated:")
		for _, r := range related {
			fmt.Printf("  %-10s %s\n", r.SKU, r.Title)
		}
	}

	detailURL := links.DetailURL(config.BaseURL, b.SKU)
	if s.Ref != "" {
		detailURL = links.DetailURLWithParams(config.BaseURL, b.SKU, map[string]string{"ref": s.Ref})
	}
	fmt.Printf("\n%s\n", detailURL)
	fmt.Println("\nShare:")
	shareURLs := links.ShareURLs(config.BaseURL, b)
	for _, platform := range links.Platforms() {
		fmt.Printf("  %-12s %s\n", platform, shareURLs[platform])
	}
	return nil
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-10s %s\n", label+":", value)
}

// loadPurchaseLinks reads the configured index; a missing file just means
// no purchase buttons, same as the web catalog.
func loadPurchaseLinks() *links.Index {
	path := config.LinksFile
	if path == "" || !fileutil.FileExists(path) {
		return links.NewIndex()
	}
	ix, err := links.LoadIndex(path)
	if err != nil {
		slog.Warn("Failed to load purchase links", "file", path, "error", err)
		return links.NewIndex()
	}
	return ix
}
