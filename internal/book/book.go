// Package book defines the catalog record model shared by every component.
package book

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Record represents one published edition as returned by the catalog API.
// Field names mirror the API payload keys. Optional fields stay at their
// zero value; comparison helpers treat missing strings as empty, never as
// a wildcard.
type Record struct {
	ID          int      `json:"ID"`
	SKU         string   `json:"SKU"`
	ISBN        string   `json:"ISBN"`
	Title       string   `json:"Title"`
	Author      string   `json:"Author"`
	Language    string   `json:"Language"`
	Publisher   string   `json:"Publisher"`
	PublishedOn string   `json:"PublishedOn"`
	Pages       int      `json:"Pages"`
	Price       int      `json:"Price"`
	Description string   `json:"Description"`
	Images      []string `json:"Images"`
	BookType    string   `json:"BookType"`
}

// Snapshot is the full set of records as of one fetch. It is never mutated
// in place; queries operate on derived views.
type Snapshot struct {
	Books     []Record  `json:"books"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Listable reports whether the record is eligible for catalog listing.
// Records without a single image are hidden from every listing surface.
func (r Record) Listable() bool {
	return len(r.Images) > 0
}

// Cover returns the first image URL, or "" when the record has none.
func (r Record) Cover() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0]
}

var trailingParen = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// BaseTitle strips one trailing parenthetical qualifier from the title,
// e.g. "Dhamma Talk (EPUB, French)" -> "Dhamma Talk". Used to group
// editions of the same work across formats and languages.
func (r Record) BaseTitle() string {
	return strings.TrimSpace(trailingParen.ReplaceAllString(r.Title, ""))
}

// TitleToken returns the first whitespace-delimited token of the lowercased
// base title. Editions sharing an author and a title token are treated as
// translations of the same work.
func (r Record) TitleToken() string {
	fields := strings.Fields(strings.ToLower(r.BaseTitle()))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// NormalizeISBN strips hyphens and whitespace so that the surface forms
// "978-0-123" and "9780123" compare equal.
func NormalizeISBN(isbn string) string {
	var b strings.Builder
	for _, c := range isbn {
		if c == '-' || unicode.IsSpace(c) {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Fresh reports whether the snapshot is still trusted for new lookups.
func (s *Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	if s == nil || s.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}
