// Package services provides domain services that orchestrate business
// operations across multiple aggregates. It implements workflows that don't
// naturally belong to a single aggregate root.
//
// The package includes:
//   - CourierMatcher: ranks delivery partners against an order's pickup
//     point, weight, and requested city
package services
