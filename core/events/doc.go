// Package events defines the assignment related events emitted on the event bus.
//
// Available event types:
//   - SweepEvent: outcome of one fleet-wide assignment sweep
//   - AssignmentEvent: one battery linked to one reservation
//   - HandoffEvent: previous-holder information surfaced to a member
package events
