package courier

import (
	"fmt"

	"agrimarket/internal/pkg/errs"
)

// Status represents a courier's work state.
//
//	offline ──> available ──> busy
//	    ^           ^          │
//	    └───────────┴──────────┘
//
// Going online moves an offline courier to available; dispatch moves an
// available courier to busy; completing or cancelling a delivery returns the
// courier to available; going offline from available moves to offline. A busy
// courier that disconnects keeps the busy status (its active delivery is still
// in flight) and only its online flag drops.
type Status int

const (
	// UnknownStatus represents an invalid or undefined status.
	UnknownStatus Status = iota

	// Available means the courier can be dispatched.
	Available

	// Busy means the courier is carrying an active delivery.
	Busy

	// Offline means the courier is not working.
	Offline
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "unknown",
		Available:     "available",
		Busy:          "busy",
		Offline:       "offline",
	}
}

// StatusFromString parses a courier status from its wire representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != UnknownStatus {
			return status, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("courier status",
		fmt.Errorf("%q is not a valid courier status", s))
}

// Validate checks if the Status is one of the defined work states.
func (s Status) Validate() error {
	if s != Available && s != Busy && s != Offline {
		return errs.NewValueIsInvalidErrorWithCause("courier status",
			fmt.Errorf("%d is not a valid courier status", s))
	}
	return nil
}

// String returns the lowercase name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
