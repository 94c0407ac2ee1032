// Package party implements the customer side of the simulation: one
// goroutine per group living the arrive/request/dine/pay cycle against the
// receptionist, plus the busser role that cleans tables as they turn over.
package party
