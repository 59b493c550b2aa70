package order

import (
	"errors"
	"fmt"

	"agrimarket/internal/pkg/errs"
)

// ErrIllegalTransition is the sentinel for any rejected order status transition.
// Use errors.Is to classify; the concrete IllegalTransitionError carries the
// from/to detail.
var ErrIllegalTransition = errors.New("illegal order status transition")

// IllegalTransitionError reports a rejected status transition with the states
// involved, so callers can tell the user what was requested versus what is legal.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal order status transition: %s -> %s", e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions:
//
//	Pending ──> Confirmed ──> PickedUp ──> InTransit ──> Delivered
//	    │           │             │            │
//	    └───────────┴─────────────┴────────────┴──────> Cancelled
//
// Transitions advance one step forward along the chain, or jump to Cancelled
// from any non-terminal state. Skipping forward, moving backward, and leaving
// a terminal state are all rejected.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after order creation, before a courier accepts.
	Pending

	// Confirmed indicates a courier has been assigned and accepted the order.
	Confirmed

	// PickedUp indicates the courier has collected the goods from the seller.
	PickedUp

	// InTransit indicates the goods are on their way to the buyer.
	InTransit

	// Delivered indicates the order reached the buyer. Terminal.
	Delivered

	// Cancelled indicates the order was abandoned before delivery. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Confirmed: "Confirmed",
		PickedUp:  "Picked Up",
		InTransit: "In Transit",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Confirmed: "Confirmed",
		PickedUp:  "Picked Up",
		InTransit: "In Transit",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// StatusFromString parses a status from its display name.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer; safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// RequiresCourier reports whether an order may only hold this status while a
// courier is assigned.
func (s Status) RequiresCourier() bool {
	return s == PickedUp || s == InTransit || s == Delivered
}

// next returns the immediate successor on the forward chain, or Unknown when
// there is none.
func (s Status) next() Status {
	switch s {
	case Pending:
		return Confirmed
	case Confirmed:
		return PickedUp
	case PickedUp:
		return InTransit
	case InTransit:
		return Delivered
	default:
		return Unknown
	}
}

// Advance transitions the status one step forward to target.
//
// Returns an IllegalTransitionError (wrapping ErrIllegalTransition) when the
// current status is terminal, when target skips forward or moves backward, or
// when target is not a valid status. Cancellation goes through Cancel, not
// Advance.
func (s Status) Advance(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if target == Cancelled || s.IsTerminal() || target != s.next() {
		return Unknown, &IllegalTransitionError{From: s, To: target}
	}

	return target, nil
}

// Cancel transitions the status to Cancelled.
// Valid from any non-terminal state; re-entering a terminal state is rejected.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}

	if s.IsTerminal() {
		return Unknown, &IllegalTransitionError{From: s, To: Cancelled}
	}

	return Cancelled, nil
}
