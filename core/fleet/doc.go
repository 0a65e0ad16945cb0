// Package fleet holds the in-memory arena of boats, batteries and
// reservations and implements the battery assignment engine.
//
// Entities are addressed by id; relationships are id fields plus index
// lookups, so the object graph carries no ownership cycles. Battery links
// are mutated through a single entry point that keeps the
// reservations-by-battery index and the usage counters in step.
package fleet
