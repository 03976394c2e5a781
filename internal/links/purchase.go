// Package links holds the purchase-link index and the share/detail URL
// builders for the catalog.
package links

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"bookstand/internal/book"
)

// PurchaseLink points at one retailer listing for an edition.
type PurchaseLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
}

type indexEntry struct {
	isbn  string
	links []PurchaseLink
}

// Index maps ISBNs to purchase links. Key order from the source file is
// preserved because the fallback match returns the links of the first key
// whose normalized form equals the normalized query.
type Index struct {
	entries []indexEntry
	exact   map[string]int
}

// NewIndex builds an index from ordered (isbn, links) pairs.
func NewIndex() *Index {
	return &Index{exact: make(map[string]int)}
}

// Add appends one ISBN entry, replacing the links on a duplicate key.
func (ix *Index) Add(isbn string, links []PurchaseLink) {
	if pos, ok := ix.exact[isbn]; ok {
		ix.entries[pos].links = links
		return
	}
	ix.exact[isbn] = len(ix.entries)
	ix.entries = append(ix.entries, indexEntry{isbn: isbn, links: links})
}

// Len returns the number of indexed ISBNs.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Find returns the purchase links for an ISBN. Exact key match wins; failing
// that, the first key (in file order) whose hyphen/whitespace-stripped form
// equals the stripped query matches. A missing or unknown ISBN yields an
// empty slice.
func (ix *Index) Find(isbn string) []PurchaseLink {
	if ix == nil || isbn == "" {
		return nil
	}
	if pos, ok := ix.exact[isbn]; ok {
		return ix.entries[pos].links
	}
	normalized := book.NormalizeISBN(isbn)
	for _, e := range ix.entries {
		if book.NormalizeISBN(e.isbn) == normalized {
			return e.links
		}
	}
	return nil
}

// LoadIndex reads a purchase-link mapping from a YAML or JSON file, keyed
// by ISBN, preserving the key order of the file.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read purchase link file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return parseJSON(data)
	}
}

func parseYAML(data []byte) (*Index, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse purchase link YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return NewIndex(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("purchase link file must map ISBNs to link lists")
	}

	ix := NewIndex()
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		var links []PurchaseLink
		if err := valueNode.Decode(&links); err != nil {
			return nil, fmt.Errorf("failed to decode links for ISBN %q: %w", keyNode.Value, err)
		}
		ix.Add(keyNode.Value, links)
	}
	return ix, nil
}

// parseJSON walks the object token by token so that key order survives;
// a plain map unmarshal would randomize it.
func parseJSON(data []byte) (*Index, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse purchase link JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("purchase link file must map ISBNs to link lists")
	}

	ix := NewIndex()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse purchase link JSON: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected purchase link key %v", keyTok)
		}
		var links []PurchaseLink
		if err := dec.Decode(&links); err != nil {
			return nil, fmt.Errorf("failed to decode links for ISBN %q: %w", key, err)
		}
		ix.Add(key, links)
	}
	return ix, nil
}
