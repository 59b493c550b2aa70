package delivery

import (
	"fmt"

	"agrimarket/internal/pkg/errs"
)

// Status represents a delivery's shipment progress, tracked alongside the
// owning order's status.
type Status int

const (
	// UnknownStatus represents an invalid or undefined status.
	UnknownStatus Status = iota

	// Assigned means the delivery exists and is waiting on or bound to a partner.
	Assigned

	// PickedUp means the partner collected the goods at the pickup point.
	PickedUp

	// InTransit means the goods are on the way to the destination.
	InTransit

	// Delivered means the goods reached the destination. Terminal.
	Delivered

	// Failed means the delivery was abandoned, typically because the order
	// was cancelled. Terminal.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "unknown",
		Assigned:      "assigned",
		PickedUp:      "picked_up",
		InTransit:     "in_transit",
		Delivered:     "delivered",
		Failed:        "failed",
	}
}

// StatusFromString parses a delivery status from its wire representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != UnknownStatus {
			return status, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("delivery status",
		fmt.Errorf("%q is not a valid delivery status", s))
}

// Validate checks if the Status is one of the defined shipment states.
func (s Status) Validate() error {
	if s < Assigned || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("delivery status",
			fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

// IsTerminal reports whether the status admits no further progress.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed
}

// String returns the lowercase name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
