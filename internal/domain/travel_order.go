// Package domain contains the core data types and rules of the travel orders
// API: the order entity and its status machine, the filter expression tree,
// the authorization gate and the error variants shared by every layer.
// It depends only on the standard library and google/uuid.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Status is the lifecycle state of a travel order. The string values are part
// of the persisted and transmitted contract and must not be renamed without a
// migration.
type Status string

const (
	StatusRequested Status = "solicitado"
	StatusApproved  Status = "aprovado"
	StatusCancelled Status = "cancelado"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusRequested, StatusApproved, StatusCancelled}

// ParseStatus converts a wire literal into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", NewValidationError("status", ReasonUnknownStatus)
	}
	return st, nil
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusCancelled
}

func (s Status) String() string { return string(s) }

// CanTransition reports whether an order in status from may move to status to.
// Only requested orders may change, and only into a terminal status.
func CanTransition(from, to Status) bool {
	return from == StatusRequested && to.Terminal()
}

// MaxTextLength bounds requester name and destination.
const MaxTextLength = 255

// TravelOrder is a request to travel, owned by the user who created it.
// Dates are calendar days stored as UTC midnight.
type TravelOrder struct {
	ID            int64
	UserID        int64
	RequesterName string
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTravelOrder builds a requested order owned by ownerID.
// Returns a *ValidationError when a field is missing or too long, or when the
// return date precedes the departure date. Same-day trips are valid.
func NewTravelOrder(ownerID int64, requesterName, destination string, departure, ret time.Time) (TravelOrder, error) {
	requesterName = strings.TrimSpace(requesterName)
	destination = strings.TrimSpace(destination)

	if err := requireText("requester_name", requesterName); err != nil {
		return TravelOrder{}, err
	}
	if err := requireText("destination", destination); err != nil {
		return TravelOrder{}, err
	}
	if departure.IsZero() {
		return TravelOrder{}, NewValidationError("departure_date", ReasonRequired)
	}
	if ret.IsZero() {
		return TravelOrder{}, NewValidationError("return_date", ReasonRequired)
	}

	departure, ret = DateOf(departure), DateOf(ret)
	if ret.Before(departure) {
		return TravelOrder{}, NewValidationError("return_date", ReasonInvalidDates)
	}

	return TravelOrder{
		UserID:        ownerID,
		RequesterName: requesterName,
		Destination:   destination,
		DepartureDate: departure,
		ReturnDate:    ret,
		Status:        StatusRequested,
	}, nil
}

func requireText(field, v string) error {
	if v == "" {
		return NewValidationError(field, ReasonRequired)
	}
	if utf8.RuneCountInString(v) > MaxTextLength {
		return NewValidationError(field, ReasonTooLong)
	}
	return nil
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
