package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"bookstand/internal/bookstore"
	"bookstand/internal/config"
	"bookstand/internal/session"
)

// CLI represents the complete command structure for the bookstand application
type CLI struct {
	// Global flags
	BaseURL string `help:"Catalog site base URL (serves the API and detail pages)"`
	Verbose bool   `help:"Enable debug logging"`

	// Cache flags
	CacheDBFile string `help:"Path to the session cache database (\":memory:\" keeps it session-scoped)" default:":memory:"`
	CacheTTL    string `help:"Catalog snapshot time-to-live (e.g. 30m)" default:"30m"`

	// Purchase link flags
	LinksFile string `help:"Path to the ISBN to purchase-links mapping file (YAML or JSON)"`

	List       ListCmd       `cmd:"" help:"List and search the book catalog"`
	Show       ShowCmd       `cmd:"" help:"Show the detail view for one book by SKU"`
	Browse     BrowseCmd     `cmd:"" help:"Browse the catalog interactively"`
	Covers     CoversCmd     `cmd:"" help:"Download cover images for listed books"`
	Checklinks ChecklinksCmd `cmd:"" help:"Verify that book detail pages render"`
	Cache      CacheCmd      `cmd:"" help:"Manage the session cache"`
}

// CacheCmd groups the session cache subcommands
type CacheCmd struct {
	Clear  session.ClearCmd  `cmd:"" help:"Drop every cached entry"`
	Status session.StatusCmd `cmd:"" help:"List cached entries with sizes and ages"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bookstand"),
		kong.Description("Browse a remote book catalog from the terminal: search, filter, open detail pages and share links."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)
	if cli.Verbose {
		initLogging(true)
	}

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("api.baseurl", "BOOKSTAND_BASE_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.BaseURL != "" {
		config.SetBaseURL(cli.BaseURL)
	}
	if cli.LinksFile != "" {
		viper.Set("links.file", cli.LinksFile)
		config.LinksFile = cli.LinksFile
	}

	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
	config.CacheTTL = cli.CacheTTL
}

// newStore builds the catalog store from the current configuration. The
// session cache is optional; a broken cache degrades to fetch-per-command.
func newStore() (*bookstore.Store, func()) {
	opts := []bookstore.Option{}

	if ttlStr := viper.GetString("cache.ttl"); ttlStr != "" {
		if ttl, err := time.ParseDuration(ttlStr); err == nil {
			opts = append(opts, bookstore.WithTTL(ttl))
		} else {
			slog.Warn("Invalid cache TTL, using default", "ttl", ttlStr, "error", err)
		}
	}

	cleanup := func() {}
	cache, err := session.OpenFromConfig()
	if err != nil {
		slog.Warn("Session cache unavailable, fetching directly", "error", err)
	} else {
		opts = append(opts, bookstore.WithSessionCache(cache))
		cleanup = func() { _ = cache.Close() }
	}

	client := bookstore.NewClient(config.BaseURL)
	return bookstore.New(client, opts...), cleanup
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
