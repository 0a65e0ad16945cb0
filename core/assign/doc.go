// Package assign drives fleet-wide battery assignment sweeps.
//
// The Orchestrator loads the fleet, runs each boat's assignment pass,
// persists the mutated aggregate and then dispatches hand-off notifications
// in one batch. The Scheduler repeats sweeps on a fixed interval and falls
// back to a short retry delay after a failure.
package assign
