// Package access manages the lifecycle of cross-user list access: requests,
// their approval or rejection by the list owner, and the grants approval
// produces.
package access

import (
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/dukerupert/hamfast/internal/apperr"
	"github.com/dukerupert/hamfast/internal/model"
	"github.com/dukerupert/hamfast/internal/store"
)

type Service struct {
	requests *store.AccessRequestStore
	grants   *store.SharedAccessStore
	items    *store.ItemStore
	logger   *slog.Logger
}

func NewService(requests *store.AccessRequestStore, grants *store.SharedAccessStore, items *store.ItemStore, logger *slog.Logger) *Service {
	return &Service{requests: requests, grants: grants, items: items, logger: logger}
}

// CreateRequestInput carries the fields of a new access request. The
// requester identity comes from the authenticated session, never the body.
type CreateRequestInput struct {
	ListOwnerID    int64
	RequesterID    int64
	RequesterEmail string
	RequesterName  string
	ListName       string
	Message        string
}

// CreateRequest validates the input, suppresses duplicates, and persists a
// new pending request.
func (s *Service) CreateRequest(in CreateRequestInput) (*model.AccessRequest, error) {
	if in.ListOwnerID == 0 {
		return nil, apperr.Validation("list owner is required")
	}
	if in.RequesterID == 0 {
		return nil, apperr.Validation("requester is required")
	}
	if in.RequesterEmail == "" {
		return nil, apperr.Validation("requester email is required")
	}
	if in.ListName == "" {
		return nil, apperr.Validation("list name is required")
	}
	if in.ListOwnerID == in.RequesterID {
		return nil, apperr.Validation("cannot request access to your own list")
	}

	pending, err := s.requests.HasPending(in.ListOwnerID, in.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("check pending: %w", err)
	}
	if pending {
		return nil, apperr.Conflict("a pending request for this list already exists")
	}

	req, err := s.requests.Create(in.ListOwnerID, in.RequesterID, in.RequesterEmail, in.RequesterName, in.ListName, in.Message)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Info("access request created",
		"request_id", req.ID, "owner_id", req.ListOwnerID, "requester_id", req.RequesterID)
	return req, nil
}

// Transition resolves a pending request. Only the list owner may act, and
// only approved or rejected are valid targets. Approval issues the grant; if
// granting fails the status change is rolled back so the request can be
// approved again.
func (s *Service) Transition(requestID string, actingUserID int64, newStatus model.RequestStatus) (*model.AccessRequest, error) {
	if newStatus != model.RequestApproved && newStatus != model.RequestRejected {
		return nil, apperr.Validation("status must be approved or rejected")
	}

	req, err := s.requests.GetByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, apperr.NotFound("access request not found")
	}
	if req.ListOwnerID != actingUserID {
		return nil, apperr.Forbidden("only the list owner may resolve this request")
	}
	if req.Status != model.RequestPending {
		s.logger.Warn("transition on resolved request",
			"request_id", req.ID, "status", string(req.Status), "target", string(newStatus))
		return nil, apperr.Conflict("request has already been resolved")
	}

	if err := s.requests.UpdateStatus(requestID, newStatus); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if newStatus == model.RequestApproved {
		if _, err := s.Grant(req.ListOwnerID, req.RequesterID); err != nil {
			revertErr := s.requests.UpdateStatus(requestID, model.RequestPending)
			return nil, multierr.Append(fmt.Errorf("issue grant: %w", err), revertErr)
		}
	}

	req.Status = newStatus
	s.logger.Info("access request resolved",
		"request_id", req.ID, "status", string(newStatus), "owner_id", req.ListOwnerID)
	return req, nil
}

// Grant records that member may read ownerID's current items. Approval is
// the only caller, but it is a separate step so the approval-implies-grant
// rule can be tested on its own. Granting an existing pair is a no-op.
func (s *Service) Grant(ownerID, memberID int64) (*model.SharedListAccess, error) {
	g, err := s.grants.Upsert(ownerID, memberID)
	if err != nil {
		return nil, fmt.Errorf("upsert grant: %w", err)
	}
	return g, nil
}

// DeleteRequest removes a request record. Owner only. An already-issued
// grant survives; revocation is a separate operation.
func (s *Service) DeleteRequest(requestID string, actingUserID int64) error {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return apperr.NotFound("access request not found")
	}
	if req.ListOwnerID != actingUserID {
		return apperr.Forbidden("only the list owner may delete this request")
	}
	if err := s.requests.Delete(requestID); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	return nil
}

// Revoke removes a member's grant. Owner only. Request history keeps its
// status; a revoked member must go through the request flow again.
func (s *Service) Revoke(ownerID, memberID, actingUserID int64) error {
	if actingUserID != ownerID {
		return apperr.Forbidden("only the list owner may revoke access")
	}
	deleted, err := s.grants.Delete(ownerID, memberID)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	if !deleted {
		return apperr.NotFound("no grant for this member")
	}
	s.logger.Info("access revoked", "owner_id", ownerID, "member_id", memberID)
	return nil
}

// ListForUser returns requests where the user is the owner (incoming) and
// where they are the requester (outgoing).
func (s *Service) ListForUser(userID int64) (incoming, outgoing []model.AccessRequest, err error) {
	incoming, err = s.requests.ListByOwner(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list incoming: %w", err)
	}
	outgoing, err = s.requests.ListByRequester(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list outgoing: %w", err)
	}
	return incoming, outgoing, nil
}
