package store

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/hamfast/internal/model"
	"github.com/dukerupert/hamfast/internal/ordering"
	"github.com/dukerupert/hamfast/internal/status"
)

func createTestItems(t *testing.T, s *ItemStore, ownerID int64, st status.Status, names ...string) []model.Item {
	t.Helper()

	out := make([]model.Item, 0, len(names))
	for _, name := range names {
		item, err := s.Create(ownerID, name, "pantry", st)
		if err != nil {
			t.Fatalf("create item %q: %v", name, err)
		}
		out = append(out, *item)
	}
	return out
}

func assertDense(t *testing.T, items []model.Item) {
	t.Helper()

	for i, item := range items {
		if item.OrderIndex != i {
			t.Errorf("position %d: order index = %d (%s)", i, item.OrderIndex, item.Name)
		}
	}
}

func TestItemCreateAssignsDenseIndexes(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	createTestItems(t, s, owner.ID, status.Current, "milk", "bread", "eggs")
	createTestItems(t, s, owner.ID, status.Next, "flour", "honey")

	current, err := s.ListByOwnerAndStatus(owner.ID, status.Current)
	if err != nil {
		t.Fatalf("list current: %v", err)
	}
	if len(current) != 3 {
		t.Fatalf("current partition size = %d, want 3", len(current))
	}
	assertDense(t, current)

	next, err := s.ListByOwnerAndStatus(owner.ID, status.Next)
	if err != nil {
		t.Fatalf("list next: %v", err)
	}
	if len(next) != 2 {
		t.Fatalf("next partition size = %d, want 2", len(next))
	}
	assertDense(t, next)
}

func TestItemCreateDefaults(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	item, err := s.Create(owner.ID, "milk", "dairy", status.Current)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == "" {
		t.Error("missing id")
	}
	if item.Completed {
		t.Error("new item should not be completed")
	}
	if item.Status != status.Current {
		t.Errorf("status = %q, want current", item.Status)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestItemGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	s := NewItemStore(db)

	item, err := s.GetByID("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item != nil {
		t.Error("expected nil for missing item")
	}
}

func TestItemUpdateRewritesUpdatedAt(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	item, err := s.Create(owner.ID, "milk", "dairy", status.Current)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	name := "oat milk"
	updated, err := s.Update(item.ID, ItemChanges{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "oat milk" {
		t.Errorf("name = %q", updated.Name)
	}
	if !updated.UpdatedAt.After(item.UpdatedAt) {
		t.Error("updated_at not rewritten")
	}
	if !updated.CreatedAt.Equal(item.CreatedAt) {
		t.Error("created_at changed on update")
	}
	if updated.OrderIndex != item.OrderIndex {
		t.Error("order index changed without a status change")
	}
}

func TestItemUpdateEmptyChanges(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	item, err := s.Create(owner.ID, "milk", "dairy", status.Current)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Update(item.ID, ItemChanges{}); err == nil {
		t.Error("expected error for empty change set")
	}
}

func TestItemStatusChangeAppendsAndCompacts(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	current := createTestItems(t, s, owner.ID, status.Current, "milk", "bread", "eggs")
	createTestItems(t, s, owner.ID, status.Next, "flour")

	st := status.Next
	moved, err := s.Update(current[0].ID, ItemChanges{Status: &st})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Status != status.Next {
		t.Errorf("status = %q, want next", moved.Status)
	}
	if moved.OrderIndex != 1 {
		t.Errorf("moved item order index = %d, want 1 (end of target)", moved.OrderIndex)
	}

	remaining, err := s.ListByOwnerAndStatus(owner.ID, status.Current)
	if err != nil {
		t.Fatalf("list current: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("current partition size = %d, want 2", len(remaining))
	}
	assertDense(t, remaining)
}

func TestItemDeleteCompactsPartition(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	items := createTestItems(t, s, owner.ID, status.Current, "milk", "bread", "eggs")

	if err := s.Delete(items[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining, err := s.ListByOwnerAndStatus(owner.ID, status.Current)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("partition size = %d, want 2", len(remaining))
	}
	assertDense(t, remaining)
	if remaining[0].Name != "milk" || remaining[1].Name != "eggs" {
		t.Errorf("order after delete: %s, %s", remaining[0].Name, remaining[1].Name)
	}
}

func TestItemDeleteMissingIsNoop(t *testing.T) {
	db := setupTestDB(t)
	s := NewItemStore(db)

	if err := s.Delete("nope"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestItemReorder(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	createTestItems(t, s, owner.ID, status.Current, "milk", "bread", "eggs")

	if err := s.Reorder(owner.ID, status.Current, 0, 2); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	items, err := s.ListByOwnerAndStatus(owner.ID, status.Current)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	assertDense(t, items)
	want := []string{"bread", "eggs", "milk"}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, items[i].Name, name)
		}
	}
}

func TestItemReorderSamePosition(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	items := createTestItems(t, s, owner.ID, status.Current, "milk", "bread")

	if err := s.Reorder(owner.ID, status.Current, 1, 1); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	after, err := s.ListByOwnerAndStatus(owner.ID, status.Current)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := range items {
		if after[i].ID != items[i].ID {
			t.Errorf("order changed at %d", i)
		}
		if !after[i].UpdatedAt.Equal(items[i].UpdatedAt) {
			t.Errorf("updated_at rewritten for untouched row %s", after[i].Name)
		}
	}
}

func TestItemReorderOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	// Empty partition: any indexes are out of range.
	if err := s.Reorder(owner.ID, status.Current, 0, 0); !errors.Is(err, ordering.ErrIndexOutOfRange) {
		t.Errorf("empty partition error = %v, want ErrIndexOutOfRange", err)
	}

	createTestItems(t, s, owner.ID, status.Current, "milk", "bread")
	if err := s.Reorder(owner.ID, status.Current, 0, 5); !errors.Is(err, ordering.ErrIndexOutOfRange) {
		t.Errorf("dest past end error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestItemReorderScopedToPartition(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	s := NewItemStore(db)

	createTestItems(t, s, owner.ID, status.Current, "milk", "bread", "eggs")
	next := createTestItems(t, s, owner.ID, status.Next, "flour", "honey")

	if err := s.Reorder(owner.ID, status.Current, 0, 2); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	after, err := s.ListByOwnerAndStatus(owner.ID, status.Next)
	if err != nil {
		t.Fatalf("list next: %v", err)
	}
	for i := range next {
		if after[i].ID != next[i].ID || after[i].OrderIndex != next[i].OrderIndex {
			t.Errorf("next partition disturbed at %d", i)
		}
	}
}

func TestItemListByOwnerIsolation(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	s := NewItemStore(db)

	createTestItems(t, s, alice.ID, status.Current, "milk")
	createTestItems(t, s, bob.ID, status.Current, "bread", "eggs")

	items, err := s.ListByOwner(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "milk" {
		t.Errorf("alice sees %d items", len(items))
	}
}
