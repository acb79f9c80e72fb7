package store

import (
	"database/sql"
	"testing"

	"github.com/dukerupert/hamfast/internal/database"
	"github.com/dukerupert/hamfast/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()

	u, err := NewUserStore(db).Create(email, "Test User", "correct-horse")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}
