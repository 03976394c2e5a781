package cmd

import (
	"bookstand/internal/config"
	"bookstand/internal/tui"
)

// BrowseCmd represents the interactive browse command
type BrowseCmd struct{}

func (b *BrowseCmd) Run() error {
	store, cleanup := newStore()
	defer cleanup()

	return tui.Browse(store, loadPurchaseLinks(), config.BaseURL)
}
