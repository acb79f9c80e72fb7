package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/hamfast/internal/apperr"
	"github.com/dukerupert/hamfast/internal/model"
)

// AccessRequestStore persists cross-user list access requests.
type AccessRequestStore struct {
	db *sql.DB
}

func NewAccessRequestStore(db *sql.DB) *AccessRequestStore {
	return &AccessRequestStore{db: db}
}

const requestCols = `id, list_owner_id, requester_id, requester_email, requester_name, list_name, message, status, created_at`

func scanRequest(scanner interface{ Scan(...any) error }) (*model.AccessRequest, error) {
	var r model.AccessRequest
	var st string
	err := scanner.Scan(
		&r.ID, &r.ListOwnerID, &r.RequesterID, &r.RequesterEmail,
		&r.RequesterName, &r.ListName, &r.Message, &st, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Status = model.RequestStatus(st)
	return &r, nil
}

// Create persists a new request in pending state and returns it. The partial
// unique index on pending pairs makes a concurrent duplicate surface here as
// a conflict even when the service-level check raced.
func (s *AccessRequestStore) Create(ownerID, requesterID int64, requesterEmail, requesterName, listName, message string) (*model.AccessRequest, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO access_requests (id, list_owner_id, requester_id, requester_email, requester_name, list_name, message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, requesterID, requesterEmail, requesterName, listName, message,
		string(model.RequestPending), time.Now().UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, apperr.Conflict("a pending request for this list already exists")
		}
		return nil, fmt.Errorf("insert access request: %w", err)
	}
	return s.GetByID(id)
}

func (s *AccessRequestStore) GetByID(id string) (*model.AccessRequest, error) {
	row := s.db.QueryRow(`SELECT `+requestCols+` FROM access_requests WHERE id = ?`, id)
	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get access request: %w", err)
	}
	return r, nil
}

// HasPending reports whether a pending request exists for the pair.
func (s *AccessRequestStore) HasPending(ownerID, requesterID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM access_requests WHERE list_owner_id = ? AND requester_id = ? AND status = ?`,
		ownerID, requesterID, string(model.RequestPending),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count pending requests: %w", err)
	}
	return count > 0, nil
}

func (s *AccessRequestStore) ListByOwner(ownerID int64) ([]model.AccessRequest, error) {
	return s.list(`SELECT `+requestCols+` FROM access_requests WHERE list_owner_id = ? ORDER BY created_at DESC`, ownerID)
}

func (s *AccessRequestStore) ListByRequester(requesterID int64) ([]model.AccessRequest, error) {
	return s.list(`SELECT `+requestCols+` FROM access_requests WHERE requester_id = ? ORDER BY created_at DESC`, requesterID)
}

func (s *AccessRequestStore) list(query string, arg any) ([]model.AccessRequest, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list access requests: %w", err)
	}
	defer rows.Close()

	var requests []model.AccessRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan access request: %w", err)
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func (s *AccessRequestStore) UpdateStatus(id string, st model.RequestStatus) error {
	_, err := s.db.Exec(`UPDATE access_requests SET status = ? WHERE id = ?`, string(st), id)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	return nil
}

func (s *AccessRequestStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM access_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete access request: %w", err)
	}
	return nil
}
