package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"bookstand/internal/catalog"
	"bookstand/internal/fileutil"
)

// ListCmd represents the list command
type ListCmd struct {
	Query    string `short:"q" help:"Text to match (case-insensitive substring)"`
	Field    string `help:"Field the query matches against" enum:"title,author,language,all" default:"title"`
	Language string `short:"l" help:"Language filter (case-insensitive substring)"`
	Sort     string `help:"Sort order" enum:"none,title-asc,title-desc" default:"none"`
	Page     int    `short:"p" help:"Page number (1-indexed)" default:"1"`
	PageSize int    `help:"Books per page" default:"50"`

	Distinct   string `help:"List distinct field values instead of books" enum:"language,author,sku," default:""`
	JSON       bool   `help:"Write the page to JSON instead of a table"`
	JSONOutput string `help:"Path to JSON output file" default:"books.json"`
}

func (l *ListCmd) Run() error {
	store, cleanup := newStore()
	defer cleanup()

	snap, err := store.Catalog(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if l.Distinct != "" {
		for _, v := range catalog.Distinct(snap, catalog.SearchField(l.Distinct)) {
			fmt.Println(v)
		}
		return nil
	}

	query := catalog.Query{
		Text:     l.Query,
		Language: l.Language,
		Field:    catalog.SearchField(l.Field),
		SortKey:  catalog.SortKey(l.Sort),
		Page:     l.Page,
		PageSize: l.PageSize,
	}
	result := catalog.Run(snap, query)

	// The engine serves the requested slice as-is; clamp here so an
	// out-of-range --page lands on a real page.
	if clamped := catalog.ClampPage(l.Page, result.PageCount); clamped != l.Page {
		slog.Info("Page out of range, clamped", "requested", l.Page, "page", clamped)
		query.Page = clamped
		result = catalog.Run(snap, query)
	}

	if l.JSON {
		written, err := fileutil.WriteJSONFile(result.Items, l.JSONOutput, true)
		if err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
		if written {
			slog.Info("Wrote book list", "file", l.JSONOutput, "books", len(result.Items))
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SKU\tTITLE\tAUTHOR\tLANGUAGE")
	for _, b := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.SKU, b.Title, b.Author, b.Language)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\npage %d of %d (%d books)\n", catalog.ClampPage(l.Page, result.PageCount), result.PageCount, result.Total)
	fmt.Println(renderPageWindow(catalog.ClampPage(l.Page, result.PageCount), result.PageCount))
	return nil
}

// renderPageWindow prints the page-number control line, collapsing long
// runs into an ellipsis exactly like the web pagination widget.
func renderPageWindow(current, pageCount int) string {
	window := catalog.PageWindow(current, pageCount)
	out := ""
	for i, n := range window {
		if i > 0 {
			out += " "
		}
		switch {
		case n == catalog.Ellipsis:
			out += "..."
		case n == current:
			out += fmt.Sprintf("[%d]", n)
		default:
			out += fmt.Sprintf("%d", n)
		}
	}
	return out
}
