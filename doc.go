// Package maitred provides an embeddable restaurant front-desk simulation
// engine.
//
// The engine coordinates a fixed set of tables among concurrently arriving
// customer groups through a single receptionist.  The receptionist consumes
// requests from a single-slot rendezvous queue, decides between immediate
// seating and the waiting room, and on payment releases the vacated table to
// the next waiting group according to a swappable policy.
//
// The engine is assembled through the high-level Service façade exposed by
// this package:
//
//	srv, err := maitred.New(maitred.WithConfig(cfg))
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := srv.Run(ctx)
//
// Sub-packages host the individual service layers:
//
//   - service/floor     – the shared allocation state, guarded by one lock
//   - service/messaging – the request channel contract and implementations
//   - service/frontdesk – the receptionist control loop
//   - service/party     – simulated customer groups driving the protocol
//   - service/dao       – snapshot persistence (memory and afs-backed)
//   - policy            – seating and wait-resolution policies
package maitred
