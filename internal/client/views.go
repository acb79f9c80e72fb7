package client

import (
	"sort"
	"strings"

	"github.com/dukerupert/hamfast/internal/model"
	"github.com/dukerupert/hamfast/internal/status"
)

// Read-side projections. All are pure derivations over the cached
// collection; none touch the network.

// Items returns a copy of the whole collection.
func (c *Client) Items() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

// ItemsByStatus returns the partition for st in display order.
func (c *Client) ItemsByStatus(st status.Status) []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []model.Item
	for _, i := range c.partitionLocked(st) {
		out = append(out, c.items[i])
	}
	return out
}

// ItemsByCategory returns all items in a category, current period first.
func (c *Client) ItemsByCategory(category string) []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []model.Item
	for i := range c.items {
		if c.items[i].Category == category {
			out = append(out, c.items[i])
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Status != out[b].Status {
			return out[a].Status == status.Current
		}
		return out[a].OrderIndex < out[b].OrderIndex
	})
	return out
}

// Search returns the items in st whose name contains the query,
// case-insensitively, in display order.
func (c *Client) Search(st status.Status, query string) []model.Item {
	query = strings.ToLower(strings.TrimSpace(query))

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []model.Item
	for _, i := range c.partitionLocked(st) {
		if query == "" || strings.Contains(strings.ToLower(c.items[i].Name), query) {
			out = append(out, c.items[i])
		}
	}
	return out
}

// Counts returns how many items in st are completed, and the partition total.
func (c *Client) Counts(st status.Status) (completed, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Status != st {
			continue
		}
		total++
		if c.items[i].Completed {
			completed++
		}
	}
	return completed, total
}
