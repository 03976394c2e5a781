package cmd

import (
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstand/internal/config"
	"bookstand/internal/session"
)

func resetCmdState(t *testing.T) {
	origBaseURL := config.BaseURL
	origLinksFile := config.LinksFile
	origCacheTTL := config.CacheTTL

	t.Cleanup(func() {
		config.BaseURL = origBaseURL
		config.LinksFile = origLinksFile
		config.CacheTTL = origCacheTTL
		viper.Reset()
	})

	viper.Reset()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"bookstand"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("bookstand"),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		BaseURL:     "https://staging.example.org",
		LinksFile:   "/tmp/links.yaml",
		CacheDBFile: "/tmp/session.db",
		CacheTTL:    "15m",
	}

	updateGlobalConfig(cli)

	assert.Equal(t, "https://staging.example.org", config.BaseURL)
	assert.Equal(t, "https://staging.example.org", viper.GetString("api.baseurl"))
	assert.Equal(t, "/tmp/links.yaml", config.LinksFile)
	assert.Equal(t, "/tmp/session.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "15m", viper.GetString("cache.ttl"))
}

func TestUpdateGlobalConfigLeavesBaseURLWhenUnset(t *testing.T) {
	resetCmdState(t)
	config.InitConfig()

	updateGlobalConfig(&CLI{CacheDBFile: ":memory:", CacheTTL: "30m"})

	assert.Equal(t, "https://www.vridhamma.org", config.BaseURL)
}

func TestListCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "list", "-q", "art", "--field", "author", "-l", "english", "--sort", "title-asc", "-p", "2")

	assert.Equal(t, "art", cli.List.Query)
	assert.Equal(t, "author", cli.List.Field)
	assert.Equal(t, "english", cli.List.Language)
	assert.Equal(t, "title-asc", cli.List.Sort)
	assert.Equal(t, 2, cli.List.Page)
	assert.Equal(t, 50, cli.List.PageSize)
}

func TestShowCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "show", "E01", "--share", "twitter", "--ref", "newsletter", "--related", "3")

	assert.Equal(t, "E01", cli.Show.SKU)
	assert.Equal(t, "twitter", cli.Show.Share)
	assert.Equal(t, "newsletter", cli.Show.Ref)
	assert.Equal(t, 3, cli.Show.Related)
}

func TestCLIDefaultFlags(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "list")

	assert.Equal(t, "", cli.BaseURL, "BaseURL should default to empty so config wins")
	assert.Equal(t, ":memory:", cli.CacheDBFile, "the session cache should default to in-memory")
	assert.Equal(t, "30m", cli.CacheTTL)
	assert.Equal(t, "title", cli.List.Field)
	assert.Equal(t, "none", cli.List.Sort)
	assert.Equal(t, 1, cli.List.Page)
}

func TestCacheCommandStructure(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{}
	assert.IsType(t, session.ClearCmd{}, cli.Cache.Clear)
	assert.IsType(t, session.StatusCmd{}, cli.Cache.Status)
}

func TestInitConfigSetsDefaults(t *testing.T) {
	resetCmdState(t)

	config.InitConfig()

	assert.Equal(t, "https://www.vridhamma.org", viper.GetString("api.baseurl"))
	assert.Equal(t, ":memory:", viper.GetString("cache.dbfile"))
	assert.Equal(t, "30m", viper.GetString("cache.ttl"))
	assert.Equal(t, "purchase-links.yaml", viper.GetString("links.file"))
	assert.Equal(t, "./covers/", viper.GetString("covers.output"))
}

func TestEnvironmentVariableBinding(t *testing.T) {
	resetCmdState(t)

	t.Setenv("BOOKSTAND_BASE_URL", "https://mirror.example.org")

	viper.AutomaticEnv()
	require.NoError(t, viper.BindEnv("api.baseurl", "BOOKSTAND_BASE_URL"))
	config.InitConfig()

	assert.Equal(t, "https://mirror.example.org", viper.GetString("api.baseurl"))
	assert.Equal(t, "https://mirror.example.org", config.BaseURL)
}

func TestInitLoggingDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		initLogging(false)
		initLogging(true)
	})
}

func TestRenderPageWindow(t *testing.T) {
	assert.Equal(t, "1 [2] 3", renderPageWindow(2, 3))
	assert.Equal(t, "[1] 2 3 4 ... 10", renderPageWindow(1, 10))
	assert.Equal(t, "1 ... 4 [5] 6 ... 10", renderPageWindow(5, 10))
	assert.Equal(t, "", renderPageWindow(1, 0))
}
