package store

import (
	"testing"

	"github.com/dukerupert/hamfast/internal/apperr"
	"github.com/dukerupert/hamfast/internal/model"
)

func TestAccessRequestCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	requester := createTestUser(t, db, "member@example.com")
	s := NewAccessRequestStore(db)

	r, err := s.Create(owner.ID, requester.ID, requester.Email, requester.Name, "Groceries", "let me in")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Status != model.RequestPending {
		t.Errorf("status = %q, want pending", r.Status)
	}
	if r.ListOwnerID != owner.ID || r.RequesterID != requester.ID {
		t.Error("ids not persisted")
	}

	got, err := s.GetByID(r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Message != "let me in" {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestAccessRequestGetMissing(t *testing.T) {
	db := setupTestDB(t)
	s := NewAccessRequestStore(db)

	r, err := s.GetByID("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r != nil {
		t.Error("expected nil for missing request")
	}
}

func TestAccessRequestDuplicatePendingConflicts(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	requester := createTestUser(t, db, "member@example.com")
	s := NewAccessRequestStore(db)

	if _, err := s.Create(owner.ID, requester.ID, requester.Email, requester.Name, "Groceries", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The unique index catches duplicates that slip past the service's
	// pending check, and the insert reports them as a conflict rather than
	// an opaque failure.
	_, err := s.Create(owner.ID, requester.ID, requester.Email, requester.Name, "Groceries", "again")
	if !apperr.Is(err, apperr.CodeConflict) {
		t.Errorf("duplicate insert error = %v, want conflict", err)
	}

	r, err := s.Create(owner.ID, requester.ID, requester.Email, requester.Name, "Groceries", "")
	if r != nil || !apperr.Is(err, apperr.CodeConflict) {
		t.Errorf("third insert = %+v, %v", r, err)
	}
}

func TestAccessRequestHasPending(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	requester := createTestUser(t, db, "member@example.com")
	s := NewAccessRequestStore(db)

	has, err := s.HasPending(owner.ID, requester.ID)
	if err != nil {
		t.Fatalf("has pending: %v", err)
	}
	if has {
		t.Error("pending before any request")
	}

	r, err := s.Create(owner.ID, requester.ID, requester.Email, requester.Name, "Groceries", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	has, err = s.HasPending(owner.ID, requester.ID)
	if err != nil {
		t.Fatalf("has pending: %v", err)
	}
	if !has {
		t.Error("pending request not detected")
	}

	if err := s.UpdateStatus(r.ID, model.RequestApproved); err != nil {
		t.Fatalf("update status: %v", err)
	}

	has, err = s.HasPending(owner.ID, requester.ID)
	if err != nil {
		t.Fatalf("has pending: %v", err)
	}
	if has {
		t.Error("resolved request still counted as pending")
	}
}

func TestAccessRequestListDirections(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	requester := createTestUser(t, db, "member@example.com")
	s := NewAccessRequestStore(db)

	if _, err := s.Create(owner.ID, requester.ID, requester.Email, requester.Name, "Groceries", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	incoming, err := s.ListByOwner(owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(incoming) != 1 {
		t.Errorf("incoming = %d, want 1", len(incoming))
	}

	outgoing, err := s.ListByRequester(requester.ID)
	if err != nil {
		t.Fatalf("list by requester: %v", err)
	}
	if len(outgoing) != 1 {
		t.Errorf("outgoing = %d, want 1", len(outgoing))
	}

	none, err := s.ListByOwner(requester.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("requester has %d incoming, want 0", len(none))
	}
}

func TestAccessRequestDelete(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	requester := createTestUser(t, db, "member@example.com")
	s := NewAccessRequestStore(db)

	r, err := s.Create(owner.ID, requester.ID, requester.Email, requester.Name, "Groceries", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.GetByID(r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("request survived delete")
	}
}
