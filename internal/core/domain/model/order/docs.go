// Package order contains the Order aggregate and its lifecycle.
//
// Orders are placed elsewhere and arrive in PENDING_ASSIGNMENT. From there
// they are assigned to an agent (by a dispatch pass or manually), picked up,
// sent out for delivery and delivered against a six digit confirmation code
// issued at pickup. Cancellation is possible until pickup.
//
// Every transition takes the current time explicitly so that callers control
// the clock, and returns an error wrapping errs.ErrInvalidStateTransition
// when attempted from the wrong status.
package order
