// Package order contains the Order aggregate: the canonical owner of the
// delivery lifecycle state machine and its append-only status timeline.
// All status transitions go through the aggregate, which is the sole writer.
package order
