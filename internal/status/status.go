// Package status models the two-valued planning period an item belongs to.
//
// The API and the database spell the same two values differently. The API
// speaks "current-period"/"next-period"; the items table stores
// "this_month"/"next_month". Both spellings are confined to this package:
// business logic only ever sees the Status enum, handlers use Parse/String,
// and the store uses EncodeDB/DecodeDB.
package status

import (
	"strconv"

	"github.com/dukerupert/hamfast/internal/apperr"
)

// Status is the planning period of a shopping item.
type Status string

const (
	// Current is the period actively being shopped for.
	Current Status = "current-period"
	// Next is the upcoming planning period.
	Next Status = "next-period"
)

// Database spellings, inherited from the original schema.
const (
	dbCurrent = "this_month"
	dbNext    = "next_month"
)

// Valid reports whether s is one of the two defined values.
func (s Status) Valid() bool {
	return s == Current || s == Next
}

// String returns the API token for s.
func (s Status) String() string { return string(s) }

// Parse converts an API token into a Status.
func Parse(token string) (Status, error) {
	switch Status(token) {
	case Current:
		return Current, nil
	case Next:
		return Next, nil
	}
	return "", apperr.Validation("invalid status " + strconv.Quote(token))
}

// EncodeDB converts a Status into its database spelling.
func EncodeDB(s Status) (string, error) {
	switch s {
	case Current:
		return dbCurrent, nil
	case Next:
		return dbNext, nil
	}
	return "", apperr.Validation("invalid status " + strconv.Quote(string(s)))
}

// DecodeDB converts a database spelling into a Status. It is the exact
// inverse of EncodeDB.
func DecodeDB(token string) (Status, error) {
	switch token {
	case dbCurrent:
		return Current, nil
	case dbNext:
		return Next, nil
	}
	return "", apperr.Validation("invalid stored status " + strconv.Quote(token))
}
