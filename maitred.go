package maitred

import (
	"context"
	"fmt"
	"time"

	"github.com/maitred/maitred/internal/clock"
	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/policy"
	"github.com/maitred/maitred/service/dao"
	snapshotfs "github.com/maitred/maitred/service/dao/snapshot/fs"
	snapshotmem "github.com/maitred/maitred/service/dao/snapshot/memory"
	"github.com/maitred/maitred/service/event"
	"github.com/maitred/maitred/service/floor"
	"github.com/maitred/maitred/service/frontdesk"
	"github.com/maitred/maitred/service/messaging"
	"github.com/maitred/maitred/service/messaging/memory"
	"github.com/maitred/maitred/service/party"
)

// Service wires the floor, the receptionist, the customer groups and the
// busser into one runnable simulation.
type Service struct {
	config    *Config
	floor     *floor.Floor
	queue     messaging.Queue[model.Request]
	snapshots dao.Service[string, model.Snapshot]
	policies  *policy.Policy
	events    *event.Publisher[*model.Snapshot]
}

// Report summarises a completed run.
type Report struct {
	// Served is the number of requests the receptionist handled.
	Served int
	// Cleaned is the number of table turnovers the busser processed.
	Cleaned int
	// Snapshots is the length of the persisted phase trace.
	Snapshots int
	Elapsed   time.Duration
}

// New creates a simulation service. Components not supplied via options are
// built from the configuration.
func New(options ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range options {
		opt(s)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	s.config.Init()
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.policies == nil {
		waiting, err := policy.WaitSelectionFor(s.config.Policies.Waiting)
		if err != nil {
			return err
		}
		seating, err := policy.TableSelectionFor(s.config.Policies.Seating)
		if err != nil {
			return err
		}
		s.policies = &policy.Policy{Waiting: waiting, Seating: seating}
	}
	if s.queue == nil {
		s.queue = memory.NewRendezvous[model.Request]()
	}
	if s.snapshots == nil {
		if s.config.Trace.URL != "" {
			snapshots, err := snapshotfs.New(s.config.Trace.URL)
			if err != nil {
				return fmt.Errorf("failed to open snapshot trace: %w", err)
			}
			s.snapshots = snapshots
		} else {
			s.snapshots = snapshotmem.New()
		}
	}
	if s.floor == nil {
		f, err := floor.New(s.config.Groups, s.config.Tables)
		if err != nil {
			return err
		}
		s.floor = f
	}
	return nil
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Floor exposes the shared allocation state, mainly for inspection after a
// run.
func (s *Service) Floor() *floor.Floor {
	return s.floor
}

// Run executes one full simulation: every group arrives, is seated
// (possibly after waiting), dines, pays and leaves, while the busser cleans
// each vacated table. Run blocks until the receptionist has served all
// requests or any participant fails.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	started := clock.Now()

	deskOptions := []frontdesk.Option{
		frontdesk.WithFloor(s.floor),
		frontdesk.WithQueue(s.queue),
		frontdesk.WithSnapshotDAO(s.snapshots),
		frontdesk.WithPolicy(s.policies),
		frontdesk.WithRequests(s.config.Requests()),
	}
	if s.events != nil {
		deskOptions = append(deskOptions, frontdesk.WithEventPublisher(s.events))
	}
	desk, err := frontdesk.New(deskOptions...)
	if err != nil {
		return nil, err
	}

	busser, err := party.NewBusser(s.floor)
	if err != nil {
		return nil, err
	}
	busser.Start(ctx)
	defer busser.Stop()

	runner, err := party.NewRunner(party.Config{
		Seed:            s.config.Seed,
		MaxArrivalDelay: time.Duration(s.config.Party.MaxArrivalDelayMs) * time.Millisecond,
		MaxDiningTime:   time.Duration(s.config.Party.MaxDiningTimeMs) * time.Millisecond,
	}, s.floor, s.queue)
	if err != nil {
		return nil, err
	}

	deskDone := make(chan error, 1)
	go func() {
		deskDone <- desk.Start(ctx)
	}()
	runnerDone := make(chan error, 1)
	go func() {
		runnerDone <- runner.Run(ctx)
	}()

	// Whichever side fails first cancels the other; the receptionist and
	// the groups both block indefinitely otherwise.
	select {
	case err := <-deskDone:
		if err != nil {
			cancel()
			<-runnerDone
			return nil, err
		}
		if err := <-runnerDone; err != nil {
			return nil, err
		}
	case err := <-runnerDone:
		if err != nil {
			cancel()
			<-deskDone
			return nil, err
		}
		if err := <-deskDone; err != nil {
			return nil, err
		}
	}

	// Every settle raised a turnover signal; block until the busser has
	// drained them all.
	if err := busser.AwaitCleaned(ctx, s.floor.Groups()); err != nil {
		return nil, err
	}

	snapshots, err := s.snapshots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot trace: %w", err)
	}
	return &Report{
		Served:    s.config.Requests(),
		Cleaned:   busser.Cleaned(),
		Snapshots: len(snapshots),
		Elapsed:   clock.Now().Sub(started),
	}, nil
}
