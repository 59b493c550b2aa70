package chat

import (
	"fmt"

	"agrimarket/internal/pkg/errs"
)

// Kind scopes a conversation to the thing it is about.
type Kind int

const (
	// UnknownKind represents an invalid or undefined kind.
	UnknownKind Kind = iota

	// OrderChat is a conversation attached to a placed order.
	OrderChat

	// ProductInquiry is a pre-order conversation attached to a listed item.
	ProductInquiry
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		UnknownKind:    "unknown",
		OrderChat:      "order",
		ProductInquiry: "product_inquiry",
	}
}

// KindFromString parses a conversation kind from its wire representation.
func KindFromString(s string) (Kind, error) {
	for kind, str := range getKindStrings() {
		if str == s && kind != UnknownKind {
			return kind, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("conversation kind",
		fmt.Errorf("%q is not a valid conversation kind", s))
}

// Validate checks if the Kind is one of the defined scopes.
func (k Kind) Validate() error {
	if k != OrderChat && k != ProductInquiry {
		return errs.NewValueIsInvalidErrorWithCause("conversation kind",
			fmt.Errorf("%d is not a valid conversation kind", k))
	}
	return nil
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// Role identifies which side of a conversation a participant is on.
type Role int

const (
	// UnknownRole represents an invalid or undefined role.
	UnknownRole Role = iota

	// Customer is the buying side of a conversation.
	Customer

	// Seller is the selling side of a conversation.
	Seller
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "unknown",
		Customer:    "customer",
		Seller:      "seller",
	}
}

// RoleFromString parses a participant role from its wire representation.
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if str == s && role != UnknownRole {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("participant role",
		fmt.Errorf("%q is not a valid participant role", s))
}

// Validate checks if the Role is one of the defined sides.
func (r Role) Validate() error {
	if r != Customer && r != Seller {
		return errs.NewValueIsInvalidErrorWithCause("participant role",
			fmt.Errorf("%d is not a valid participant role", r))
	}
	return nil
}

// String returns the lowercase name of the role.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}
