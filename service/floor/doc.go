// Package floor owns the shared allocation state of the restaurant: which
// group holds which table, who is in the waiting room and in which phase
// every group is.  A single mutex guards all of it; every decision that
// depends on the state's consistency happens inside one locked operation.
// Cross-unit notifications are dedicated per-group and per-table channels
// rather than shared flags, so a wake-up can never be stolen by an
// unrelated unit.
package floor
