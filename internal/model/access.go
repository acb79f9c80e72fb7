package model

import "time"

// RequestStatus is the lifecycle state of an access request. Pending is
// initial; approved and rejected are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// AccessRequest asks a list owner to let the requester view their list.
type AccessRequest struct {
	ID             string        `json:"id"`
	ListOwnerID    int64         `json:"list_owner_id"`
	RequesterID    int64         `json:"requester_id"`
	RequesterEmail string        `json:"requester_email"`
	RequesterName  string        `json:"requester_name"`
	ListName       string        `json:"list_name"`
	Message        string        `json:"message,omitempty"`
	Status         RequestStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// SharedListAccess is the durable grant produced by approving a request. Its
// presence is what authorizes a member to read the owner's current items.
type SharedListAccess struct {
	ID          string    `json:"id"`
	ListOwnerID int64     `json:"list_owner_id"`
	MemberID    int64     `json:"member_id"`
	GrantedAt   time.Time `json:"granted_at"`
}
