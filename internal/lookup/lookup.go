// Package lookup resolves single books from a snapshot and derives their
// alternate-language editions and related titles.
package lookup

import (
	"sort"
	"strings"

	"bookstand/internal/book"
)

// DefaultRelatedLimit caps the related-books strip on the detail view.
const DefaultRelatedLimit = 6

// FindBySKU resolves a book by exact SKU equality. SKUs are opaque
// identifiers; no normalization or case folding is applied. A miss is a
// normal result, not an error.
func FindBySKU(snap *book.Snapshot, sku string) (book.Record, bool) {
	if snap == nil {
		return book.Record{}, false
	}
	for _, b := range snap.Books {
		if b.SKU == sku {
			return b, true
		}
	}
	return book.Record{}, false
}

// AvailableLanguages returns one edition per distinct language of the same
// work, sorted ascending by language name.
//
// Editions are grouped by author plus the first word of the base title
// (title with its trailing parenthetical stripped). The first-word rule is
// the catalog's historical heuristic: it can merge unrelated works that
// share an author and a leading word, and it can split multi-word title
// variants. Kept as-is for compatibility.
func AvailableLanguages(b book.Record, all []book.Record) []book.Record {
	token := b.TitleToken()
	author := strings.ToLower(b.Author)

	seen := make(map[string]bool)
	var editions []book.Record
	for _, candidate := range all {
		if strings.ToLower(candidate.Author) != author {
			continue
		}
		if candidate.TitleToken() != token {
			continue
		}
		langKey := strings.ToLower(candidate.Language)
		if seen[langKey] {
			continue
		}
		seen[langKey] = true
		editions = append(editions, candidate)
	}

	sort.SliceStable(editions, func(i, j int) bool {
		return editions[i].Language < editions[j].Language
	})
	return editions
}

// Related returns up to limit books sharing the language or the author of
// b, in original collection order. Candidates without images are skipped,
// as is b itself. A limit of 0 or less falls back to DefaultRelatedLimit.
func Related(b book.Record, all []book.Record, limit int) []book.Record {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	lang := strings.ToLower(b.Language)
	author := strings.ToLower(b.Author)

	var related []book.Record
	for _, candidate := range all {
		if candidate.SKU == b.SKU {
			continue
		}
		if !candidate.Listable() {
			continue
		}
		sameLang := strings.ToLower(candidate.Language) == lang
		sameAuthor := strings.ToLower(candidate.Author) == author
		if !sameLang && !sameAuthor {
			continue
		}
		related = append(related, candidate)
		if len(related) == limit {
			break
		}
	}
	return related
}
