package frontdesk

import (
	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/policy"
	"github.com/maitred/maitred/service/dao"
	"github.com/maitred/maitred/service/event"
	"github.com/maitred/maitred/service/floor"
	"github.com/maitred/maitred/service/messaging"
)

type Option func(*Service)

// WithFloor sets the shared allocation state.
func WithFloor(f *floor.Floor) Option {
	return func(s *Service) {
		s.floor = f
	}
}

// WithQueue sets the request channel implementation.
func WithQueue(queue messaging.Queue[model.Request]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithSnapshotDAO sets the phase persister.
func WithSnapshotDAO(snapshots dao.Service[string, model.Snapshot]) Option {
	return func(s *Service) {
		s.snapshots = snapshots
	}
}

// WithPolicy sets the seating and wait-resolution policies.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policies = p
	}
}

// WithEventPublisher streams phase snapshots to observers.
func WithEventPublisher(publisher *event.Publisher[*model.Snapshot]) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithRequests overrides the number of requests served before exit.
func WithRequests(count int) Option {
	return func(s *Service) {
		s.config.Requests = count
	}
}

// WithConfig sets the configuration for the service.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
