package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// The cart mirrors to disk as a plain JSON blob so an interrupted session
// picks up where it left off. The file is a backup, not a source of truth:
// checkout always goes through the live catalog and the server's totals.

// Load restores a cart from its file; a missing or unreadable file yields an
// empty cart.
func Load(path string) *Cart {
	c := New()
	if path == "" {
		return c
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return c
	}
	c.items = items
	return c
}

// Save writes the cart to its file, removing the file when the cart is empty.
func (c *Cart) Save(path string) error {
	if path == "" {
		return nil
	}
	if c.IsEmpty() {
		os.Remove(path)
		return nil
	}
	data, err := json.Marshal(c.items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
