package billboard

import (
	"errors"
	"fmt"
)

// ErrUnknownAsset is returned for an AssetID the catalog never handed out
var ErrUnknownAsset = errors.New("unknown billboard asset")

// AssetID is a handle to a sprite registered in a Catalog
type AssetID int

// Catalog owns every sprite of a ride. Billboards refer to sprites by
// AssetID so pixel data exists once however many billboards use it.
type Catalog struct {
	sets  []*Lods
	names map[string]AssetID
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{names: make(map[string]AssetID)}
}

// Add registers a sprite under a name and returns its handle. Adding a
// name twice replaces the sprite behind the existing handle.
func (c *Catalog) Add(name string, lods *Lods) AssetID {
	if id, ok := c.names[name]; ok {
		c.sets[id] = lods
		return id
	}
	id := AssetID(len(c.sets))
	c.sets = append(c.sets, lods)
	c.names[name] = id
	return id
}

// Lookup returns the handle registered under name
func (c *Catalog) Lookup(name string) (AssetID, bool) {
	id, ok := c.names[name]
	return id, ok
}

// Get resolves a handle
func (c *Catalog) Get(id AssetID) (*Lods, error) {
	if id < 0 || int(id) >= len(c.sets) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAsset, id)
	}
	return c.sets[id], nil
}

// Len returns the number of registered sprites
func (c *Catalog) Len() int {
	return len(c.sets)
}
