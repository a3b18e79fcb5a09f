package domain

import (
	"strings"
	"time"
)

// OrderFilter is the set of optional criteria accepted when listing orders.
// A nil field imposes no constraint. Date fields are compared as calendar days.
type OrderFilter struct {
	Status        *Status
	Destination   *string // case-insensitive substring
	DepartureDate *time.Time
	ReturnDate    *time.Time

	DepartureDateFrom *time.Time
	DepartureDateTo   *time.Time
	ReturnDateFrom    *time.Time
	ReturnDateTo      *time.Time
	CreatedAtFrom     *time.Time
	CreatedAtTo       *time.Time
}

// Field names an order attribute a Condition can test.
type Field string

const (
	FieldUserID        Field = "user_id"
	FieldStatus        Field = "status"
	FieldDestination   Field = "destination"
	FieldDepartureDate Field = "departure_date"
	FieldReturnDate    Field = "return_date"
	FieldCreatedDate   Field = "created_at" // calendar day of created_at
)

// Op is a comparison operator.
type Op string

const (
	OpEq       Op = "eq"
	OpContains Op = "contains" // case-insensitive substring
	OpGTE      Op = "gte"
	OpLTE      Op = "lte"
)

// Condition is one leaf of the filter expression. A filter compiles to a
// conjunction of conditions; the repository renders it as SQL and MatchAll
// evaluates it in memory, so both share one definition of the semantics.
//
// Value holds int64 for FieldUserID, Status for FieldStatus, string for
// FieldDestination and a UTC-midnight time.Time for the date fields.
type Condition struct {
	Field Field
	Op    Op
	Value any
}

// Conditions compiles f into a conjunction. When scope restricts results to
// an owner, a user_id equality is appended. Order is deterministic.
func (f OrderFilter) Conditions(scope Scope) []Condition {
	var conds []Condition
	if owner, ok := scope.Owner(); ok {
		conds = append(conds, Condition{FieldUserID, OpEq, owner})
	}
	if f.Status != nil {
		conds = append(conds, Condition{FieldStatus, OpEq, *f.Status})
	}
	if f.Destination != nil && strings.TrimSpace(*f.Destination) != "" {
		conds = append(conds, Condition{FieldDestination, OpContains, strings.TrimSpace(*f.Destination)})
	}

	dates := []struct {
		v     *time.Time
		field Field
		op    Op
	}{
		{f.DepartureDate, FieldDepartureDate, OpEq},
		{f.ReturnDate, FieldReturnDate, OpEq},
		{f.DepartureDateFrom, FieldDepartureDate, OpGTE},
		{f.DepartureDateTo, FieldDepartureDate, OpLTE},
		{f.ReturnDateFrom, FieldReturnDate, OpGTE},
		{f.ReturnDateTo, FieldReturnDate, OpLTE},
		{f.CreatedAtFrom, FieldCreatedDate, OpGTE},
		{f.CreatedAtTo, FieldCreatedDate, OpLTE},
	}
	for _, d := range dates {
		if d.v != nil {
			conds = append(conds, Condition{d.field, d.op, DateOf(*d.v)})
		}
	}
	return conds
}

// MatchAll reports whether o satisfies every condition.
func MatchAll(conds []Condition, o TravelOrder) bool {
	for _, c := range conds {
		if !c.Match(o) {
			return false
		}
	}
	return true
}

// Match evaluates a single condition against o.
// Unknown field/operator combinations never match.
func (c Condition) Match(o TravelOrder) bool {
	switch c.Field {
	case FieldUserID:
		v, ok := c.Value.(int64)
		return ok && c.Op == OpEq && o.UserID == v
	case FieldStatus:
		v, ok := c.Value.(Status)
		return ok && c.Op == OpEq && o.Status == v
	case FieldDestination:
		v, ok := c.Value.(string)
		return ok && c.Op == OpContains &&
			strings.Contains(strings.ToLower(o.Destination), strings.ToLower(v))
	case FieldDepartureDate:
		return compareDate(c, o.DepartureDate)
	case FieldReturnDate:
		return compareDate(c, o.ReturnDate)
	case FieldCreatedDate:
		return compareDate(c, o.CreatedAt)
	}
	return false
}

func compareDate(c Condition, t time.Time) bool {
	v, ok := c.Value.(time.Time)
	if !ok {
		return false
	}
	d := DateOf(t)
	switch c.Op {
	case OpEq:
		return d.Equal(v)
	case OpGTE:
		return !d.Before(v)
	case OpLTE:
		return !d.After(v)
	}
	return false
}
