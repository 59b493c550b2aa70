// Package kernel contains shared value objects used across all domain aggregates:
// UUID identifiers, geographic points with great-circle distance math, and postal
// addresses. All types are immutable and enforce their invariants at construction.
package kernel
