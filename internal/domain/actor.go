package domain

import "time"

// Actor is the authenticated caller of an operation.
// TokenID and ExpiresAt identify the credential the actor presented; they are
// only needed to revoke it on logout.
type Actor struct {
	ID        int64
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

// Scope restricts which orders a query may see.
type Scope struct {
	actor Actor
}

// ScopeFor returns the query scope of actor.
func ScopeFor(actor Actor) Scope {
	return Scope{actor: actor}
}

// Owner returns the owner id results are restricted to, or false when the
// scope is unrestricted (administrators).
func (s Scope) Owner() (int64, bool) {
	if s.actor.IsAdmin {
		return 0, false
	}
	return s.actor.ID, true
}

// CanRead reports whether actor may see order.
func CanRead(actor Actor, order TravelOrder) bool {
	return actor.IsAdmin || actor.ID == order.UserID
}

// CanMutateStatus reports whether actor may change order statuses.
func CanMutateStatus(actor Actor) bool {
	return actor.IsAdmin
}

// CanCreate reports whether actor may create orders. Any authenticated actor
// can; the order is owned by its creator.
func CanCreate(actor Actor) bool {
	return actor.ID != 0
}
