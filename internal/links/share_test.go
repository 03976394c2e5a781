package links

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstand/internal/book"
)

func TestDetailURL(t *testing.T) {
	assert.Equal(t, "https://www.vridhamma.org/bookDetail/E01", DetailURL(DefaultBaseURL, "E01"))
	assert.Equal(t, "https://example.org/bookDetail/E01", DetailURL("https://example.org/", "E01"))
	assert.Equal(t, "", DetailURL(DefaultBaseURL, ""))
}

func TestDetailURLWithParams(t *testing.T) {
	got := DetailURLWithParams(DefaultBaseURL, "E01", map[string]string{
		"utm_source": "twitter",
		"ref":        "newsletter",
	})

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/bookDetail/E01", parsed.Path)
	assert.Equal(t, "twitter", parsed.Query().Get("utm_source"))
	assert.Equal(t, "newsletter", parsed.Query().Get("ref"))

	// Deterministic parameter order.
	assert.Equal(t, got, DetailURLWithParams(DefaultBaseURL, "E01", map[string]string{
		"ref":        "newsletter",
		"utm_source": "twitter",
	}))

	assert.Equal(t, DetailURL(DefaultBaseURL, "E01"), DetailURLWithParams(DefaultBaseURL, "E01", nil))
}

func TestShareURLWithTracking(t *testing.T) {
	got := ShareURLWithTracking(DefaultBaseURL, "E01", "twitter")
	parsed, err := url.Parse(got)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "twitter", q.Get("utm_source"))
	assert.Equal(t, "social", q.Get("utm_medium"))
	assert.Equal(t, "book_share", q.Get("utm_campaign"))

	direct, err := url.Parse(ShareURLWithTracking(DefaultBaseURL, "E01", ""))
	require.NoError(t, err)
	assert.Equal(t, "direct", direct.Query().Get("utm_source"))
}

func TestShareURLsCoverAllPlatforms(t *testing.T) {
	b := book.Record{SKU: "E01", Title: "The Art of Living", Author: "William Hart"}
	urls := ShareURLs(DefaultBaseURL, b)

	require.Len(t, urls, len(Platforms()))
	for _, platform := range Platforms() {
		link, ok := urls[platform]
		require.True(t, ok, "missing %s", platform)
		assert.NotEmpty(t, link)
	}

	detail := url.QueryEscape(DetailURL(DefaultBaseURL, "E01"))
	assert.Contains(t, urls["facebook"], detail)
	assert.Contains(t, urls["twitter"], url.QueryEscape("The Art of Living by William Hart"))
	assert.True(t, strings.HasPrefix(urls["email"], "mailto:?subject="))
}

func TestShareURLsWithoutAuthorOmitsByline(t *testing.T) {
	urls := ShareURLs(DefaultBaseURL, book.Record{SKU: "E01", Title: "Discourse Summaries"})
	assert.Contains(t, urls["twitter"], url.QueryEscape("Discourse Summaries"))
	assert.NotContains(t, urls["twitter"], url.QueryEscape(" by "))
}

func TestShareURLsEmptySKU(t *testing.T) {
	assert.Empty(t, ShareURLs(DefaultBaseURL, book.Record{Title: "No SKU"}))
}
