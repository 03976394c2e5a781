package session

import (
	"fmt"
	"log/slog"
	"time"
)

// ClearCmd represents the cache clear subcommand.
type ClearCmd struct{}

func (c *ClearCmd) Run() error {
	store, err := OpenFromConfig()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() { _ = store.Close() }()

	rows, err := store.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	slog.Info("Session cache cleared", "rows_deleted", rows)
	return nil
}

// StatusCmd represents the cache status subcommand.
type StatusCmd struct{}

func (c *StatusCmd) Run() error {
	store, err := OpenFromConfig()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Entries()
	if err != nil {
		return fmt.Errorf("failed to read cache status: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("session cache is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s\t%d bytes\tcached %s ago\n", e.Key, e.Size, time.Since(e.CachedAt).Round(time.Second))
	}
	return nil
}
