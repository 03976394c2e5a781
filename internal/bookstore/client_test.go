package bookstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, func()) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL)
	return client, server.Close
}

func TestFetchBooksDecodesRecords(t *testing.T) {
	client, closeServer := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get-books-info", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"ID": 1, "SKU": "E01", "Title": "The Art of Living", "Author": "William Hart",
			 "Language": "English", "ISBN": "978-0-06-063724-8", "Images": ["cover.jpg"], "Price": 25000}
		]`))
	})
	defer closeServer()

	books, err := client.FetchBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "E01", books[0].SKU)
	assert.Equal(t, "The Art of Living", books[0].Title)
	assert.Equal(t, 25000, books[0].Price)
	assert.Equal(t, []string{"cover.jpg"}, books[0].Images)
}

func TestFetchBooksToleratesMissingFields(t *testing.T) {
	client, closeServer := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"SKU": "M01"}]`))
	})
	defer closeServer()

	books, err := client.FetchBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "", books[0].Title)
	assert.Equal(t, "", books[0].ISBN)
	assert.Empty(t, books[0].Images)
}

func TestFetchBooksStatusError(t *testing.T) {
	client, closeServer := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer closeServer()

	_, err := client.FetchBooks(context.Background())
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.False(t, IsFormatError(err))
}

func TestFetchBooksNonArrayPayload(t *testing.T) {
	client, closeServer := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "maintenance"}`))
	})
	defer closeServer()

	_, err := client.FetchBooks(context.Background())
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.False(t, IsFetchError(err))
}

func TestFetchBooksInvalidJSON(t *testing.T) {
	client, closeServer := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<!doctype html><html>`))
	})
	defer closeServer()

	_, err := client.FetchBooks(context.Background())
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
}

func TestFetchBooksNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.FetchBooks(context.Background())
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
}
