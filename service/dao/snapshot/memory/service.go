package memory

import (
	"context"
	"sync"

	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/service/dao"
	"github.com/maitred/maitred/service/dao/criteria"
)

// Service implements an in-memory, thread-safe snapshot journal.  Snapshots
// are kept in insertion order so a List call replays the receptionist's
// phase history as it was persisted.
type Service struct {
	byID    map[string]*model.Snapshot
	journal []*model.Snapshot
	mux     sync.RWMutex
}

var _ dao.Service[string, model.Snapshot] = (*Service)(nil)

func (s *Service) Save(_ context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return dao.ErrNilEntity
	}
	if snapshot.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.byID[snapshot.ID]; !ok {
		s.journal = append(s.journal, snapshot)
	}
	s.byID[snapshot.ID] = snapshot
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*model.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	snapshot, ok := s.byID[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return snapshot, nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.byID[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.byID, id)
	journal := s.journal[:0]
	for _, snapshot := range s.journal {
		if snapshot.ID != id {
			journal = append(journal, snapshot)
		}
	}
	s.journal = journal
	return nil
}

func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Snapshot, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*model.Snapshot, 0, len(s.journal))
	for _, snapshot := range s.journal {
		if !criteria.FilterByPhase(string(snapshot.Phase), parameters) {
			continue
		}
		out = append(out, snapshot)
	}
	return out, nil
}

func New() *Service {
	return &Service{byID: map[string]*model.Snapshot{}}
}
