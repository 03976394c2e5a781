// Package catalog implements the pure filter/sort/paginate pipeline over a
// catalog snapshot. Nothing here mutates the snapshot; every query builds a
// derived view.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"bookstand/internal/book"
)

// DefaultPageSize matches the 50-card pages of the catalog UI.
const DefaultPageSize = 50

// SortKey selects the ordering of filtered results.
type SortKey string

const (
	SortNone      SortKey = "none"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
)

// SearchField selects which fields the text predicate inspects.
type SearchField string

const (
	FieldTitle    SearchField = "title"
	FieldAuthor   SearchField = "author"
	FieldLanguage SearchField = "language"
	// FieldAll matches title, author, language or SKU.
	FieldAll SearchField = "all"
)

// Query holds the visible-page inputs.
type Query struct {
	Text     string
	Language string
	Field    SearchField
	SortKey  SortKey
	Page     int
	PageSize int
}

// Result is one visible page of the filtered, sorted sequence.
type Result struct {
	Items     []book.Record
	Total     int
	PageCount int
}

var titleCollator = collate.New(language.Und)

// Run filters, sorts and paginates the snapshot. Pages are 1-indexed; the
// engine does not clamp out-of-range pages, callers are expected to keep
// Page within [1, PageCount].
func Run(snap *book.Snapshot, q Query) Result {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Field == "" {
		q.Field = FieldTitle
	}

	filtered := filter(snap, q)
	sortBooks(filtered, q.SortKey)

	total := len(filtered)
	pageCount := (total + q.PageSize - 1) / q.PageSize

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result{
		Items:     filtered[start:end],
		Total:     total,
		PageCount: pageCount,
	}
}

func filter(snap *book.Snapshot, q Query) []book.Record {
	text := strings.ToLower(q.Text)
	lang := strings.ToLower(q.Language)

	var out []book.Record
	if snap == nil {
		return out
	}
	for _, b := range snap.Books {
		if !b.Listable() {
			continue
		}
		if !matchesText(b, text, q.Field) {
			continue
		}
		if !strings.Contains(strings.ToLower(b.Language), lang) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesText(b book.Record, text string, field SearchField) bool {
	if text == "" {
		return true
	}
	switch field {
	case FieldAuthor:
		return strings.Contains(strings.ToLower(b.Author), text)
	case FieldLanguage:
		return strings.Contains(strings.ToLower(b.Language), text)
	case FieldAll:
		return strings.Contains(strings.ToLower(b.Title), text) ||
			strings.Contains(strings.ToLower(b.Author), text) ||
			strings.Contains(strings.ToLower(b.Language), text) ||
			strings.Contains(strings.ToLower(b.SKU), text)
	default:
		return strings.Contains(strings.ToLower(b.Title), text)
	}
}

// sortBooks orders by title with locale-aware collation. The sort is stable
// so equal titles keep their snapshot order. SortNone leaves the filtered
// order untouched.
func sortBooks(books []book.Record, key SortKey) {
	switch key {
	case SortTitleAsc:
		sort.SliceStable(books, func(i, j int) bool {
			return titleCollator.CompareString(books[i].Title, books[j].Title) < 0
		})
	case SortTitleDesc:
		sort.SliceStable(books, func(i, j int) bool {
			return titleCollator.CompareString(books[i].Title, books[j].Title) > 0
		})
	}
}

// ClampPage keeps a requested page inside [1, pageCount]. Page clamping is
// the caller's job, mirroring the prev/next buttons of the catalog UI.
func ClampPage(page, pageCount int) int {
	if pageCount < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

// Distinct returns the unique non-empty values of a field, ascending.
func Distinct(snap *book.Snapshot, field SearchField) []string {
	if snap == nil {
		return nil
	}
	seen := make(map[string]bool)
	var values []string
	for _, b := range snap.Books {
		var v string
		switch field {
		case FieldAuthor:
			v = b.Author
		case FieldLanguage:
			v = b.Language
		default:
			v = b.SKU
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
