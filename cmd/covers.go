package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"bookstand/internal/covers"
)

// CoversCmd represents the covers download command
type CoversCmd struct {
	Output     string `short:"o" help:"Directory to write covers into (defaults to covers.output from config)"`
	Update     bool   `help:"Re-download covers that already exist"`
	Thumbnails bool   `help:"Generate resized thumbnails alongside full covers" default:"true"`
}

func (c *CoversCmd) Run() error {
	output := c.Output
	if output == "" {
		output = viper.GetString("covers.output")
	}

	store, cleanup := newStore()
	defer cleanup()

	ctx := context.Background()
	snap, err := store.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	result, err := covers.Download(ctx, snap, covers.Options{
		OutputDir:  output,
		Update:     c.Update,
		Thumbnails: c.Thumbnails,
	})
	if err != nil {
		return fmt.Errorf("cover download failed: %w", err)
	}

	slog.Info("Cover download finished",
		"downloaded", result.Downloaded,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"output", output)
	return nil
}
