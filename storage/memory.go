package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryResultStorage keeps results in process memory. It backs the
// "memory" storage driver and tests.
type MemoryResultStorage struct {
	mu       sync.RWMutex
	sessions map[string][]*PollResult
}

func NewMemoryResultStorage() *MemoryResultStorage {
	return &MemoryResultStorage{sessions: make(map[string][]*PollResult)}
}

func (s *MemoryResultStorage) GetAll(_ context.Context) ([]*PollResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var all []*PollResult
	for _, id := range ids {
		all = append(all, copyResults(s.sessions[id])...)
	}
	return all, nil
}

func (s *MemoryResultStorage) Create(_ context.Context, results []*PollResult) error {
	if len(results) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := results[0].SessionID
	if _, exists := s.sessions[id]; exists {
		return ErrItemAlreadyExists
	}
	now := time.Now().UTC()
	for _, result := range results {
		if result.CreatedAt.IsZero() {
			result.CreatedAt = now
		}
	}
	s.sessions[id] = copyResults(results)
	return nil
}

func (s *MemoryResultStorage) GetBySession(_ context.Context, sessionID string) ([]*PollResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyResults(s.sessions[sessionID]), nil
}

func (s *MemoryResultStorage) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sessionID]; !exists {
		return ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func copyResults(results []*PollResult) []*PollResult {
	out := make([]*PollResult, 0, len(results))
	for _, r := range results {
		c := *r
		c.Payloads = make(map[string]string, len(r.Payloads))
		for k, v := range r.Payloads {
			c.Payloads[k] = v
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PollKey < out[j].PollKey })
	return out
}

type MemorySnapshotStorage struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewMemorySnapshotStorage() *MemorySnapshotStorage {
	return &MemorySnapshotStorage{snapshots: make(map[string]Snapshot)}
}

func (s *MemorySnapshotStorage) Get(_ context.Context, sessionID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &snapshot, nil
}

func (s *MemorySnapshotStorage) Put(_ context.Context, snapshot *Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC()
	c := *snapshot
	c.Message = append([]byte(nil), snapshot.Message...)
	c.Selections = make(map[string]string, len(snapshot.Selections))
	for k, v := range snapshot.Selections {
		c.Selections[k] = v
	}

	s.mu.Lock()
	s.snapshots[snapshot.SessionID] = c
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshotStorage) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[sessionID]; !ok {
		return ErrNotFound
	}
	delete(s.snapshots, sessionID)
	return nil
}
