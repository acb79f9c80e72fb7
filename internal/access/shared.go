package access

import (
	"fmt"

	"github.com/dukerupert/hamfast/internal/apperr"
	"github.com/dukerupert/hamfast/internal/model"
	"github.com/dukerupert/hamfast/internal/status"
)

// ListItemsFor returns the owner's current-period items for a granted
// member. Next-period items are never exposed to a grantee; a member
// previews only what is actively being shopped for. The filter is applied on
// read, not stored on the item.
func (s *Service) ListItemsFor(ownerID, memberID int64) ([]model.Item, error) {
	g, err := s.grants.Get(ownerID, memberID)
	if err != nil {
		return nil, fmt.Errorf("get grant: %w", err)
	}
	if g == nil {
		return nil, apperr.Forbidden("no access to this list")
	}

	items, err := s.items.ListByOwnerAndStatus(ownerID, status.Current)
	if err != nil {
		return nil, fmt.Errorf("list shared items: %w", err)
	}
	return items, nil
}

// ListGrantsFor returns the lists a member has been granted access to.
func (s *Service) ListGrantsFor(memberID int64) ([]model.SharedListAccess, error) {
	grants, err := s.grants.ListByMember(memberID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return grants, nil
}
