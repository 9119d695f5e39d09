// Package history tracks recently cast spells so the palette can rank them
// ahead of the rest of the catalog.
package history

import (
	"path/filepath"

	"spellcast/internal/config"
	"spellcast/internal/store"
)

// maxEntries caps the persisted history length.
const maxEntries = 50

// filePath returns the history storage file path.
func filePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// Recent returns triggers ordered most-recently-cast first.
// Missing file yields an empty list.
func Recent() ([]string, error) {
	p, err := filePath()
	if err != nil {
		return nil, err
	}
	return store.LoadStringList(p)
}

// Record moves trigger to the front of the history.
func Record(trigger string) error {
	p, err := filePath()
	if err != nil {
		return err
	}
	_, err = store.PromoteFront(p, trigger, maxEntries)
	return err
}

