// Package frontdesk hosts the receptionist: the single control loop that
// consumes group requests from the rendezvous queue and drives the seating
// and payment/release protocols against the floor.  The receptionist is the
// only unit that mutates allocation state, and it persists its phase before
// every decision so the run can be audited from the snapshot trace.
package frontdesk
