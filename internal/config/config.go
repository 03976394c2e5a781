package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// BaseURL is the site serving the catalog API and detail pages
	BaseURL string
	// LinksFile is the path to the purchase-link mapping file
	LinksFile string
	// CacheTTL is the snapshot freshness window as a duration string
	CacheTTL string
)

// InitConfig initializes the global configuration
func InitConfig() {
	viper.SetDefault("api.baseurl", "https://www.vridhamma.org")
	viper.SetDefault("cache.dbfile", ":memory:")
	viper.SetDefault("cache.ttl", "30m")
	viper.SetDefault("links.file", "purchase-links.yaml")
	viper.SetDefault("covers.output", "./covers/")

	BaseURL = viper.GetString("api.baseurl")
	LinksFile = viper.GetString("links.file")
	CacheTTL = viper.GetString("cache.ttl")
}

// SetBaseURL overrides the catalog base URL
func SetBaseURL(baseURL string) {
	BaseURL = baseURL
	viper.Set("api.baseurl", baseURL)
}
