package frontdesk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/policy"
	"github.com/maitred/maitred/service/dao"
	"github.com/maitred/maitred/service/event"
	"github.com/maitred/maitred/service/floor"
	"github.com/maitred/maitred/service/messaging"
	"github.com/maitred/maitred/tracing"
)

// ErrUnknownRequest is returned for a request kind the receptionist does
// not understand.
var ErrUnknownRequest = errors.New("frontdesk: unknown request kind")

// Config represents receptionist configuration.
type Config struct {
	// Requests is the number of requests served before the loop exits
	// normally. The reference configuration expects one table request and
	// one bill request per group; this is a simulation parameter, not a
	// protocol invariant.
	Requests int
}

// Service is the receptionist control loop.
type Service struct {
	config    Config
	floor     *floor.Floor
	queue     messaging.Queue[model.Request]
	snapshots dao.Service[string, model.Snapshot]
	policies  *policy.Policy
	events    *event.Publisher[*model.Snapshot]

	seq        int
	shutdownCh chan struct{}
}

// New creates a receptionist service.
func New(options ...Option) (*Service, error) {
	s := &Service{
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.floor == nil {
		return nil, fmt.Errorf("floor is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("request queue is required")
	}
	if s.snapshots == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	if s.policies == nil {
		s.policies = policy.Default()
	}
	if s.config.Requests <= 0 {
		s.config.Requests = 2 * s.floor.Groups()
	}
	return s, nil
}

// Start runs the receptionist loop until the configured number of requests
// has been served, the context is cancelled or a protocol violation occurs.
// Any failure is final: the protocol has no retry path, matching a
// crash-stop fault model.
func (s *Service) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.shutdownCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// A policy attached to the context overrides the configured one.
	if p := policy.FromContext(ctx); p != nil {
		s.policies = p
	}

	for served := 0; served < s.config.Requests; served++ {
		if err := s.persistPhase(ctx, model.PhaseAwaitingRequest); err != nil {
			return err
		}
		msg, err := s.queue.Consume(ctx)
		if err != nil {
			return fmt.Errorf("failed to receive request: %w", err)
		}
		request := *msg.T()
		if err := s.handle(ctx, request); err != nil {
			// Release the submitter with the failure before aborting.
			_ = msg.Nack(err)
			return err
		}
		if err := msg.Ack(); err != nil {
			return fmt.Errorf("failed to release request slot: %w", err)
		}
	}
	return nil
}

// Shutdown stops the receptionist loop.
func (s *Service) Shutdown() {
	close(s.shutdownCh)
}

func (s *Service) handle(ctx context.Context, request model.Request) error {
	switch request.Kind {
	case model.TableRequest:
		return s.provideTable(ctx, request.Group)
	case model.BillRequest:
		return s.receivePayment(ctx, request.Group)
	}
	return fmt.Errorf("%w: %q", ErrUnknownRequest, request.Kind)
}

// provideTable decides whether the group occupies a table or waits. The
// floor seats and wakes the group inside one locked operation.
func (s *Service) provideTable(ctx context.Context, group model.GroupID) (err error) {
	ctx, span := tracing.StartSpan(ctx, "frontdesk.provideTable", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"group": strconv.Itoa(int(group))})

	if err = s.persistPhase(ctx, model.PhaseAssigningTable); err != nil {
		return err
	}
	table, err := s.floor.Allocate(group, s.policies.Seating)
	if err != nil {
		return err
	}
	if table != model.NoTable {
		span.WithAttributes(map[string]string{"table": strconv.Itoa(int(table))})
	}
	return nil
}

// receivePayment settles the group's bill, hands the vacated table to the
// next waiting group (if any) and signals the cleanup role. The turnover
// signal is raised outside the allocation region, with the table id
// captured before release.
func (s *Service) receivePayment(ctx context.Context, group model.GroupID) (err error) {
	ctx, span := tracing.StartSpan(ctx, "frontdesk.receivePayment", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"group": strconv.Itoa(int(group))})

	if err = s.persistPhase(ctx, model.PhaseReceivingPayment); err != nil {
		return err
	}
	vacated, promoted, err := s.floor.Settle(group, s.policies.Waiting)
	if err != nil {
		return err
	}
	if promoted != model.NoGroup {
		span.WithAttributes(map[string]string{"promoted": strconv.Itoa(int(promoted))})
	}
	return s.floor.SignalTurnover(vacated)
}

// persistPhase snapshots the shared state under the floor lock and hands it
// to the persister before the decision is made.
func (s *Service) persistPhase(ctx context.Context, phase model.ReceptionistPhase) error {
	s.seq++
	snapshot := s.floor.Snapshot(phase, s.seq)
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist phase snapshot: %w", err)
	}
	if s.events != nil {
		eCtx := &event.Context{Seq: snapshot.Seq, Phase: string(phase), EventType: "phaseChanged"}
		if err := s.events.Publish(ctx, event.NewEvent(eCtx, snapshot)); err != nil {
			log.Printf("failed to publish phase event: %v", err)
		}
	}
	return nil
}
