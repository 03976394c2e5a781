package links

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"bookstand/internal/book"
)

// DefaultBaseURL is the production site serving the detail pages.
const DefaultBaseURL = "https://www.vridhamma.org"

// DetailURL returns the canonical detail page address for a SKU.
func DetailURL(base, sku string) string {
	if sku == "" {
		return ""
	}
	return fmt.Sprintf("%s/bookDetail/%s", strings.TrimRight(base, "/"), sku)
}

// DetailURLWithParams appends query parameters to the detail URL. Parameters
// are attribution metadata only; the SKU in the path is what resolves the
// book.
func DetailURLWithParams(base, sku string, params map[string]string) string {
	detail := DetailURL(base, sku)
	if detail == "" || len(params) == 0 {
		return detail
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		values.Set(k, params[k])
	}
	return detail + "?" + values.Encode()
}

// ShareURLWithTracking returns the detail URL tagged with the standard
// share-campaign attribution parameters for a platform.
func ShareURLWithTracking(base, sku, platform string) string {
	if platform == "" {
		platform = "direct"
	}
	return DetailURLWithParams(base, sku, map[string]string{
		"utm_source":   platform,
		"utm_medium":   "social",
		"utm_campaign": "book_share",
	})
}

// ShareURLs builds the social share links for a book, keyed by platform.
func ShareURLs(base string, b book.Record) map[string]string {
	if b.SKU == "" {
		return map[string]string{}
	}

	pageURL := DetailURL(base, b.SKU)
	encodedURL := url.QueryEscape(pageURL)

	message := b.Title
	if b.Author != "" {
		message += " by " + b.Author
	}
	encodedMessage := url.QueryEscape(message)

	return map[string]string{
		"facebook":  fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s", encodedURL),
		"twitter":   fmt.Sprintf("https://twitter.com/intent/tweet?url=%s&text=%s", encodedURL, encodedMessage),
		"whatsapp":  fmt.Sprintf("https://wa.me/?text=%s%%0A%s", encodedMessage, encodedURL),
		"email":     fmt.Sprintf("mailto:?subject=%s&body=Check out this book:%%0A%s", encodedMessage, pageURL),
		"linkedin":  fmt.Sprintf("https://www.linkedin.com/sharing/share-offsite/?url=%s", encodedURL),
		"pinterest": fmt.Sprintf("https://pinterest.com/pin/create/button/?url=%s&description=%s", encodedURL, encodedMessage),
		"reddit":    fmt.Sprintf("https://reddit.com/submit?url=%s&title=%s", encodedURL, encodedMessage),
	}
}

// Platforms lists the supported share platforms in stable order.
func Platforms() []string {
	return []string{"email", "facebook", "linkedin", "pinterest", "reddit", "twitter", "whatsapp"}
}
