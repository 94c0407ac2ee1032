package maitred

import (
	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/policy"
	"github.com/maitred/maitred/service/dao"
	"github.com/maitred/maitred/service/event"
	"github.com/maitred/maitred/service/floor"
	"github.com/maitred/maitred/service/messaging"
)

type Option func(*Service)

// WithConfig sets the simulation configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithFloor overrides the floor built from the configuration.
func WithFloor(f *floor.Floor) Option {
	return func(s *Service) {
		s.floor = f
	}
}

// WithQueue overrides the default single-slot request queue.
func WithQueue(queue messaging.Queue[model.Request]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithSnapshotDAO overrides the snapshot trace store.
func WithSnapshotDAO(snapshots dao.Service[string, model.Snapshot]) Option {
	return func(s *Service) {
		s.snapshots = snapshots
	}
}

// WithPolicy overrides the policies named in the configuration.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policies = p
	}
}

// WithEventPublisher streams phase snapshots to observers during the run.
func WithEventPublisher(publisher *event.Publisher[*model.Snapshot]) Option {
	return func(s *Service) {
		s.events = publisher
	}
}
