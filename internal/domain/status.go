package domain

import (
	"errors"
	"fmt"
)

// Status is the closed set of order fulfillment states. The string values are
// the wire format used by the REST API and the database.
type Status string

const (
	StatusPending         Status = "Pending"
	StatusReadytoDelivery Status = "ReadytoDelivery"
	StatusProcessing      Status = "Processing"
	StatusShipped         Status = "Shipped"
	StatusDelivered       Status = "Delivered"
	StatusFailed          Status = "Failed"
	StatusCancelled       Status = "Cancelled"
)

// State machine errors. ErrIllegalTransition means the transition table has no
// edge between the two states; ErrTransitionForbidden means the edge exists
// but the acting role may not trigger it.
var (
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrTransitionForbidden = errors.New("role not permitted for this transition")
)

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []Status {
	return []Status{
		StatusPending,
		StatusReadytoDelivery,
		StatusProcessing,
		StatusShipped,
		StatusDelivered,
		StatusFailed,
		StatusCancelled,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(s Status) bool {
	for _, v := range ValidStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusCancelled
}

// edge is a directed transition in the order lifecycle.
type edge struct {
	from, to Status
}

// transitions is the full edge table. Absence of an edge means the
// transition is illegal.
var transitions = map[Status][]Status{
	StatusPending:         {StatusReadytoDelivery, StatusCancelled},
	StatusReadytoDelivery: {StatusProcessing, StatusCancelled},
	StatusProcessing:      {StatusShipped, StatusFailed},
	StatusShipped:         {StatusDelivered, StatusFailed},
	StatusDelivered:       {},
	StatusFailed:          {},
	StatusCancelled:       {},
}

// edgeRoles maps each legal edge to the roles permitted to trigger it.
// Cancellation by the placing customer is additionally ownership-checked in
// the order service; this table only answers the role question.
var edgeRoles = map[edge][]Role{
	{StatusPending, StatusReadytoDelivery}:    {RoleSeller},
	{StatusPending, StatusCancelled}:          {RoleCustomer, RoleSuperAdmin},
	{StatusReadytoDelivery, StatusProcessing}: {RoleDeliveryAdmin},
	{StatusReadytoDelivery, StatusCancelled}:  {RoleCustomer, RoleSuperAdmin},
	{StatusProcessing, StatusShipped}:         {RoleDeliveryAdmin},
	{StatusProcessing, StatusFailed}:          {RoleDeliveryAdmin},
	{StatusShipped, StatusDelivered}:          {RoleDeliveryAdmin},
	{StatusShipped, StatusFailed}:             {RoleDeliveryAdmin},
}

// CanTransition reports whether the edge table contains a directed edge from
// current to next. Self-loops are not edges; their idempotent no-op handling
// lives in Transition.
func CanTransition(current, next Status) bool {
	for _, to := range transitions[current] {
		if to == next {
			return true
		}
	}
	return false
}

// TransitionRoles returns the roles permitted to trigger the given legal edge.
func TransitionRoles(current, next Status) []Role {
	return edgeRoles[edge{current, next}]
}

// ValidateTransition checks that moving an order from current to next is both
// legal per the edge table and permitted for the acting role.
//
// A transition into the order's current state is an explicit no-op success
// (idempotent re-application), checked before the edge lookup because the
// table carries no self-loops.
func ValidateTransition(current, next Status, acting Role) error {
	if current == next {
		return nil
	}
	if !CanTransition(current, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, next)
	}
	for _, r := range edgeRoles[edge{current, next}] {
		if r == acting {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s may not move %s -> %s", ErrTransitionForbidden, acting, current, next)
}
