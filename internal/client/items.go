package client

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/hamfast/internal/apperr"
	"github.com/dukerupert/hamfast/internal/category"
	"github.com/dukerupert/hamfast/internal/model"
	"github.com/dukerupert/hamfast/internal/ordering"
	"github.com/dukerupert/hamfast/internal/status"
)

const maxNameLength = 100

type addRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// Add creates an item. Validation failures are reported locally without a
// network call. Add is not optimistic: nothing in the UI depends on the
// server-assigned id before the round-trip completes, so the item is
// appended only once the server returns it.
func (c *Client) Add(ctx context.Context, name, cat string, st status.Status) (*model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, apperr.Validation("name must be 100 characters or fewer")
	}
	if !category.Valid(cat) {
		return nil, apperr.Validation("unknown category")
	}
	if !st.Valid() {
		return nil, apperr.Validation("invalid status")
	}

	var created model.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", addRequest{Name: name, Category: cat, Status: st.String()}, &created); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items = append(c.items, created)
	c.mu.Unlock()
	return &created, nil
}

// ItemChanges is a partial item update. Nil fields are left untouched.
type ItemChanges struct {
	Name      *string
	Category  *string
	Status    *status.Status
	Completed *bool
}

type patchRequest struct {
	Name      *string `json:"name,omitempty"`
	Category  *string `json:"category,omitempty"`
	Status    *string `json:"status,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (ch ItemChanges) payload() patchRequest {
	p := patchRequest{Name: ch.Name, Category: ch.Category, Completed: ch.Completed}
	if ch.Status != nil {
		s := ch.Status.String()
		p.Status = &s
	}
	return p
}

// Update applies a partial update optimistically: the cached entity is
// mutated before the request is sent and restored from its snapshot if the
// request fails. On success the server's authoritative fields (updated_at,
// server-assigned order_index) replace the local guess.
func (c *Client) Update(ctx context.Context, id string, ch ItemChanges) error {
	if ch.Name == nil && ch.Category == nil && ch.Status == nil && ch.Completed == nil {
		return apperr.Validation("no fields to update")
	}
	if ch.Name != nil {
		name := strings.TrimSpace(*ch.Name)
		if name == "" {
			return apperr.Validation("name is required")
		}
		if utf8.RuneCountInString(name) > maxNameLength {
			return apperr.Validation("name must be 100 characters or fewer")
		}
		ch.Name = &name
	}
	if ch.Category != nil && !category.Valid(*ch.Category) {
		return apperr.Validation("unknown category")
	}
	if ch.Status != nil && !ch.Status.Valid() {
		return apperr.Validation("invalid status")
	}

	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return apperr.NotFound("item not found")
	}
	snapshot := c.items[idx]
	applyLocal(&c.items[idx], ch)
	c.mu.Unlock()

	var updated model.Item
	if err := c.do(ctx, http.MethodPatch, "/api/items/"+id, ch.payload(), &updated); err != nil {
		c.restore(id, snapshot)
		return err
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = updated
	}
	c.mu.Unlock()
	return nil
}

// Delete removes an item optimistically, reinserting it at its old position
// if the request fails.
func (c *Client) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return apperr.NotFound("item not found")
	}
	snapshot := c.items[idx]
	position := idx
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.mu.Unlock()

	if err := c.do(ctx, http.MethodDelete, "/api/items/"+id, nil, nil); err != nil {
		c.mu.Lock()
		if position > len(c.items) {
			position = len(c.items)
		}
		c.items = append(c.items[:position], append([]model.Item{snapshot}, c.items[position:]...)...)
		c.mu.Unlock()
		return err
	}
	return nil
}

// ToggleCompleted flips an item's completed flag. Completing an item also
// moves it to the next period and un-completing brings it back; both fields
// travel in one optimistic update.
func (c *Client) ToggleCompleted(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return apperr.NotFound("item not found")
	}
	completed := !c.items[idx].Completed
	c.mu.Unlock()

	st := status.Current
	if completed {
		st = status.Next
	}
	return c.Update(ctx, id, ItemChanges{Completed: &completed, Status: &st})
}

// MoveToStatus moves an item to the end of another partition. The local
// order index is a preview (max in target + 1); the server assigns the
// authoritative one and the success merge adopts it.
func (c *Client) MoveToStatus(ctx context.Context, id string, st status.Status) error {
	if !st.Valid() {
		return apperr.Validation("invalid status")
	}

	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return apperr.NotFound("item not found")
	}
	if c.items[idx].Status == st {
		c.mu.Unlock()
		return nil
	}
	snapshot := c.items[idx]
	next := 0
	for i := range c.items {
		if c.items[i].Status == st && c.items[i].OrderIndex >= next {
			next = c.items[i].OrderIndex + 1
		}
	}
	c.items[idx].Status = st
	c.items[idx].OrderIndex = next
	c.mu.Unlock()

	stToken := st.String()
	var updated model.Item
	if err := c.do(ctx, http.MethodPatch, "/api/items/"+id, patchRequest{Status: &stToken}, &updated); err != nil {
		c.restore(id, snapshot)
		return err
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = updated
	}
	c.mu.Unlock()
	return nil
}

type reorderRequest struct {
	Status      string `json:"status"`
	SourceIndex int    `json:"source_index"`
	DestIndex   int    `json:"dest_index"`
}

// Reorder moves the item at sourceIndex to destIndex within the partition
// for st, applying the new ordering locally before the request is sent. A
// same-position move issues no request. On failure every touched entity is
// restored from its own snapshot.
func (c *Client) Reorder(ctx context.Context, st status.Status, sourceIndex, destIndex int) error {
	if !st.Valid() {
		return apperr.Validation("invalid status")
	}

	c.mu.Lock()
	refs := make([]ordering.ItemRef, 0)
	for _, p := range c.partitionLocked(st) {
		refs = append(refs, ordering.ItemRef{ID: c.items[p].ID, OrderIndex: c.items[p].OrderIndex})
	}

	updates, err := ordering.Reorder(refs, sourceIndex, destIndex)
	if err != nil {
		c.mu.Unlock()
		return apperr.Validation("source or destination index out of range")
	}
	if len(updates) == 0 {
		c.mu.Unlock()
		return nil
	}

	snapshots := make(map[string]model.Item, len(updates))
	for _, u := range updates {
		if i := c.indexOf(u.ID); i >= 0 {
			snapshots[u.ID] = c.items[i]
			c.items[i].OrderIndex = u.OrderIndex
		}
	}
	c.mu.Unlock()

	body := reorderRequest{Status: st.String(), SourceIndex: sourceIndex, DestIndex: destIndex}
	if err := c.do(ctx, http.MethodPost, "/api/items/reorder", body, nil); err != nil {
		c.mu.Lock()
		for id, snapshot := range snapshots {
			if i := c.indexOf(id); i >= 0 {
				c.items[i] = snapshot
			}
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

// restore puts a snapshot back, re-appending it if the entity vanished from
// the collection in the meantime.
func (c *Client) restore(id string, snapshot model.Item) {
	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = snapshot
	} else {
		c.items = append(c.items, snapshot)
	}
	c.mu.Unlock()
}

func applyLocal(item *model.Item, ch ItemChanges) {
	if ch.Name != nil {
		item.Name = *ch.Name
	}
	if ch.Category != nil {
		item.Category = *ch.Category
	}
	if ch.Status != nil {
		item.Status = *ch.Status
	}
	if ch.Completed != nil {
		item.Completed = *ch.Completed
	}
}

// partitionLocked returns the collection indexes of items in st, in display
// order. Callers hold mu.
func (c *Client) partitionLocked(st status.Status) []int {
	var idxs []int
	for i := range c.items {
		if c.items[i].Status == st {
			idxs = append(idxs, i)
		}
	}
	sort.Slice(idxs, func(a, b int) bool {
		return c.items[idxs[a]].OrderIndex < c.items[idxs[b]].OrderIndex
	})
	return idxs
}
