package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/hamfast/internal/model"
)

// SharedAccessStore persists the grants that authorize a member to read a
// list owner's current items.
type SharedAccessStore struct {
	db *sql.DB
}

func NewSharedAccessStore(db *sql.DB) *SharedAccessStore {
	return &SharedAccessStore{db: db}
}

const grantCols = `id, list_owner_id, member_id, granted_at`

func scanGrant(scanner interface{ Scan(...any) error }) (*model.SharedListAccess, error) {
	var g model.SharedListAccess
	err := scanner.Scan(&g.ID, &g.ListOwnerID, &g.MemberID, &g.GrantedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Upsert creates the grant if it does not exist. Re-granting an existing
// pair keeps the original row and granted_at.
func (s *SharedAccessStore) Upsert(ownerID, memberID int64) (*model.SharedListAccess, error) {
	_, err := s.db.Exec(
		`INSERT INTO shared_list_access (id, list_owner_id, member_id, granted_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(list_owner_id, member_id) DO NOTHING`,
		uuid.NewString(), ownerID, memberID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert grant: %w", err)
	}
	return s.Get(ownerID, memberID)
}

func (s *SharedAccessStore) Get(ownerID, memberID int64) (*model.SharedListAccess, error) {
	row := s.db.QueryRow(
		`SELECT `+grantCols+` FROM shared_list_access WHERE list_owner_id = ? AND member_id = ?`,
		ownerID, memberID,
	)
	g, err := scanGrant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grant: %w", err)
	}
	return g, nil
}

func (s *SharedAccessStore) ListByMember(memberID int64) ([]model.SharedListAccess, error) {
	rows, err := s.db.Query(
		`SELECT `+grantCols+` FROM shared_list_access WHERE member_id = ? ORDER BY granted_at DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var grants []model.SharedListAccess
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, *g)
	}
	return grants, rows.Err()
}

// Delete removes a grant and reports whether one existed.
func (s *SharedAccessStore) Delete(ownerID, memberID int64) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM shared_list_access WHERE list_owner_id = ? AND member_id = ?`,
		ownerID, memberID,
	)
	if err != nil {
		return false, fmt.Errorf("delete grant: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
