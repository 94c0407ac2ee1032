package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/service/dao"
	"github.com/maitred/maitred/service/dao/criteria"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
)

// Service implements a filesystem-backed snapshot trace. Every snapshot is
// written as one JSON document under the base URL, so the trace can be
// inspected after a run or tailed by an external audit tool. Any scheme
// supported by afs works (file, mem, s3, ...).
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[string, model.Snapshot] = (*Service)(nil)

// Save persists a snapshot to the filesystem.
func (s *Service) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return dao.ErrNilEntity
	}
	if snapshot.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	location := s.snapshotURL(snapshot.ID)
	if err = s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save snapshot to %s: %w", location, err)
	}
	return nil
}

// Load retrieves a snapshot by id.
func (s *Service) Load(ctx context.Context, id string) (*model.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.snapshotURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check if snapshot exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot data: %w", err)
	}
	return &snapshot, nil
}

// Delete removes a snapshot from the filesystem.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.snapshotURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check if snapshot exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}

	if err := s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}

// List returns snapshots ordered by sequence number.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot files: %w", err)
	}

	var snapshots []*model.Snapshot
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}

		data, err := s.fs.Download(ctx, object)
		if err != nil {
			fmt.Printf("Error reading snapshot file %s: %v\n", object.URL(), err)
			continue
		}

		var snapshot model.Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			fmt.Printf("Error unmarshaling snapshot from %s: %v\n", object.URL(), err)
			continue
		}
		if !criteria.FilterByPhase(string(snapshot.Phase), parameters) {
			continue
		}
		snapshots = append(snapshots, &snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Seq < snapshots[j].Seq
	})
	return snapshots, nil
}

// snapshotURL returns the storage location for a snapshot.
func (s *Service) snapshotURL(id string) string {
	return url.Join(s.baseURL, fmt.Sprintf("%s.json", id))
}

// New creates a filesystem snapshot trace rooted at baseURL.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	fs := afs.New()

	ctx := context.Background()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	baseURL = url.Normalize(baseURL, file.Scheme)

	return &Service{
		baseURL: baseURL,
		fs:      fs,
	}, nil
}
