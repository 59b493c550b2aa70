package inventory

import (
	"fmt"

	"agrimarket/internal/pkg/errs"
)

// ItemType categorizes sellable units on the marketplace.
type ItemType int

const (
	// UnknownItemType represents an invalid or undefined item type.
	UnknownItemType ItemType = iota

	// Crop is farm produce sold by weight.
	Crop

	// Seed is sowing material.
	Seed

	// Pesticide is crop-protection chemicals.
	Pesticide

	// Fertilizer is soil nutrient products.
	Fertilizer

	// Equipment is farming tools and machinery.
	Equipment
)

func getItemTypeStrings() map[ItemType]string {
	return map[ItemType]string{
		UnknownItemType: "unknown",
		Crop:            "crop",
		Seed:            "seed",
		Pesticide:       "pesticide",
		Fertilizer:      "fertilizer",
		Equipment:       "equipment",
	}
}

// ItemTypeFromString parses an item type from its wire representation.
func ItemTypeFromString(s string) (ItemType, error) {
	for itemType, str := range getItemTypeStrings() {
		if str == s && itemType != UnknownItemType {
			return itemType, nil
		}
	}
	return UnknownItemType, errs.NewValueIsInvalidErrorWithCause("item type",
		fmt.Errorf("%q is not a valid item type", s))
}

// Validate checks if the ItemType is one of the defined categories.
func (t ItemType) Validate() error {
	if t == UnknownItemType {
		return errs.NewValueIsInvalidErrorWithCause("item type",
			fmt.Errorf("%d is not a valid item type", t))
	}
	if _, ok := getItemTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("item type",
			fmt.Errorf("%d is not a valid item type", t))
	}
	return nil
}

// String returns the lowercase name of the item type.
// Implements fmt.Stringer; safe to call on any value.
func (t ItemType) String() string {
	if str, ok := getItemTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}
