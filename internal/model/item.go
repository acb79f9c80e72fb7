package model

import (
	"time"

	"github.com/dukerupert/hamfast/internal/status"
)

type Item struct {
	ID         string        `json:"id"`
	OwnerID    int64         `json:"owner_id"`
	Name       string        `json:"name"`
	Category   string        `json:"category"`
	Status     status.Status `json:"status"`
	Completed  bool          `json:"completed"`
	OrderIndex int           `json:"order_index"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
