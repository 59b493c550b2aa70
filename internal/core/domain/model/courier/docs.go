// Package courier contains the Courier aggregate: a delivery partner with a
// capacity-bearing vehicle, a declared service area, a live position, and a
// work status coordinated with the presence registry and the dispatcher.
package courier
