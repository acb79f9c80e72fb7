package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/hamfast/internal/model"
	"github.com/dukerupert/hamfast/internal/ordering"
	"github.com/dukerupert/hamfast/internal/status"
)

// ItemStore persists shopping items. It is the sole arbiter of order_index:
// every write path that moves an item between partitions re-assigns indexes
// so they stay dense (0..n-1) within each (owner, status) partition.
type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemCols = `id, owner_id, name, category, status, completed, order_index, created_at, updated_at`

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var item model.Item
	var dbStatus string
	var completed int

	err := scanner.Scan(
		&item.ID, &item.OwnerID, &item.Name, &item.Category, &dbStatus,
		&completed, &item.OrderIndex, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	st, err := status.DecodeDB(dbStatus)
	if err != nil {
		return nil, err
	}
	item.Status = st
	item.Completed = completed != 0
	return &item, nil
}

func (s *ItemStore) GetByID(id string) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) ListByOwner(ownerID int64) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM items WHERE owner_id = ? ORDER BY status ASC, order_index ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ItemStore) ListByOwnerAndStatus(ownerID int64, st status.Status) ([]model.Item, error) {
	dbStatus, err := status.EncodeDB(st)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM items WHERE owner_id = ? AND status = ? ORDER BY order_index ASC`,
		ownerID, dbStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("list items by status: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Create inserts an item at the end of its (owner, status) partition.
func (s *ItemStore) Create(ownerID int64, name, category string, st status.Status) (*model.Item, error) {
	dbStatus, err := status.EncodeDB(st)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRow(
		`SELECT COALESCE(MAX(order_index) + 1, 0) FROM items WHERE owner_id = ? AND status = ?`,
		ownerID, dbStatus,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("next order index: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = tx.Exec(
		`INSERT INTO items (id, owner_id, name, category, status, completed, order_index, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		id, ownerID, name, category, dbStatus, next, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// ItemChanges is a partial update. Nil fields are left untouched.
type ItemChanges struct {
	Name      *string
	Category  *string
	Status    *status.Status
	Completed *bool
}

// IsEmpty reports whether no field is set.
func (ch ItemChanges) IsEmpty() bool {
	return ch.Name == nil && ch.Category == nil && ch.Status == nil && ch.Completed == nil
}

// Update applies a partial update and rewrites updated_at. A status change
// appends the item to the end of the target partition and compacts the
// partition it left; the caller-visible order_index is always server
// assigned.
func (s *ItemStore) Update(id string, ch ItemChanges) (*model.Item, error) {
	if ch.IsEmpty() {
		return nil, fmt.Errorf("update item: no fields")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	current, err := scanItem(tx.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	name := current.Name
	if ch.Name != nil {
		name = *ch.Name
	}
	category := current.Category
	if ch.Category != nil {
		category = *ch.Category
	}
	completed := current.Completed
	if ch.Completed != nil {
		completed = *ch.Completed
	}
	st := current.Status
	if ch.Status != nil {
		st = *ch.Status
	}

	orderIndex := current.OrderIndex
	if st != current.Status {
		dbStatus, err := status.EncodeDB(st)
		if err != nil {
			return nil, err
		}
		err = tx.QueryRow(
			`SELECT COALESCE(MAX(order_index) + 1, 0) FROM items WHERE owner_id = ? AND status = ?`,
			current.OwnerID, dbStatus,
		).Scan(&orderIndex)
		if err != nil {
			return nil, fmt.Errorf("next order index: %w", err)
		}
	}

	dbStatus, err := status.EncodeDB(st)
	if err != nil {
		return nil, err
	}

	completedInt := 0
	if completed {
		completedInt = 1
	}
	_, err = tx.Exec(
		`UPDATE items SET name = ?, category = ?, status = ?, completed = ?, order_index = ?, updated_at = ? WHERE id = ?`,
		name, category, dbStatus, completedInt, orderIndex, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	// Close the gap the item left behind.
	if st != current.Status {
		if err := compactPartition(tx, current.OwnerID, current.Status); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes an item and compacts its partition.
func (s *ItemStore) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	current, err := scanItem(tx.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return tx.Commit()
	}
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if err := compactPartition(tx, current.OwnerID, current.Status); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Reorder moves the item at sourceIndex to destIndex within the owner's
// partition for st. All row updates commit atomically or not at all; a
// partial write would leave duplicate or gapped indexes behind.
func (s *ItemStore) Reorder(ownerID int64, st status.Status, sourceIndex, destIndex int) error {
	dbStatus, err := status.EncodeDB(st)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT id, order_index FROM items WHERE owner_id = ? AND status = ? ORDER BY order_index ASC`,
		ownerID, dbStatus,
	)
	if err != nil {
		return fmt.Errorf("load partition: %w", err)
	}
	var refs []ordering.ItemRef
	for rows.Next() {
		var ref ordering.ItemRef
		if err := rows.Scan(&ref.ID, &ref.OrderIndex); err != nil {
			rows.Close()
			return fmt.Errorf("scan partition: %w", err)
		}
		refs = append(refs, ref)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load partition: %w", err)
	}

	updates, err := ordering.Reorder(refs, sourceIndex, destIndex)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, u := range updates {
		if _, err := tx.Exec(
			`UPDATE items SET order_index = ?, updated_at = ? WHERE id = ?`,
			u.OrderIndex, now, u.ID,
		); err != nil {
			return fmt.Errorf("apply reorder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

// compactPartition reassigns dense order indexes within one partition.
func compactPartition(tx *sql.Tx, ownerID int64, st status.Status) error {
	dbStatus, err := status.EncodeDB(st)
	if err != nil {
		return err
	}

	rows, err := tx.Query(
		`SELECT id FROM items WHERE owner_id = ? AND status = ? ORDER BY order_index ASC`,
		ownerID, dbStatus,
	)
	if err != nil {
		return fmt.Errorf("load partition: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan partition: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load partition: %w", err)
	}

	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE items SET order_index = ? WHERE id = ? AND order_index != ?`, i, id, i); err != nil {
			return fmt.Errorf("compact partition: %w", err)
		}
	}
	return nil
}
