package market

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Item is immutable reference data for a tradeable item.
// BuyLimit is the maximum number of units purchasable per trailing window; nil means unknown.
type Item struct {
	ID       int
	Name     string
	BuyLimit *int64
	Members  *bool
}

// NewItem creates a new Item with validation
func NewItem(id int, name string, buyLimit *int64, members *bool) (Item, error) {
	if id <= 0 {
		return Item{}, errors.New("item id must be positive")
	}
	if buyLimit != nil && *buyLimit < 0 {
		return Item{}, errors.New("buy limit must be non-negative")
	}
	if name == "" {
		name = strconv.Itoa(id)
	}
	return Item{ID: id, Name: name, BuyLimit: buyLimit, Members: members}, nil
}

// HasBuyLimit reports whether the item has a known purchase cap
func (i Item) HasBuyLimit() bool {
	return i.BuyLimit != nil
}

// Catalog maps item id to item reference data
type Catalog map[int]Item

// Lookup returns the item and whether it exists
func (c Catalog) Lookup(id int) (Item, bool) {
	item, ok := c[id]
	return item, ok
}

// DisplayName returns the item's name, or its id when the item is unknown
func (c Catalog) DisplayName(id int) string {
	if item, ok := c[id]; ok && item.Name != "" {
		return item.Name
	}
	return strconv.Itoa(id)
}

// BuyLimits returns the known purchase caps. Items without a cap are omitted.
func (c Catalog) BuyLimits() map[int]int64 {
	limits := make(map[int]int64, len(c))
	for id, item := range c {
		if item.BuyLimit != nil {
			limits[id] = *item.BuyLimit
		}
	}
	return limits
}

// Search returns items whose name contains query (case-insensitive), sorted by name
func (c Catalog) Search(query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []Item
	for _, item := range c {
		if strings.Contains(strings.ToLower(item.Name), q) {
			results = append(results, item)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Name == results[j].Name {
			return results[i].ID < results[j].ID
		}
		return results[i].Name < results[j].Name
	})
	return results
}
