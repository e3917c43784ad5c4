package store

import (
	"context"
	"sync"

	"github.com/wikiforge/requestwiki/pkg/request"
)

// Memory is an in-process Store for tests and dry runs.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	requests map[int64]*request.WikiRequest
	wikis    map[string]struct{}
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:   1,
		requests: make(map[int64]*request.WikiRequest),
		wikis:    make(map[string]struct{}),
	}
}

// Create assigns the next id and stores a copy of the request.
func (m *Memory) Create(_ context.Context, req *request.WikiRequest) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	stored := cloneRequest(req)
	stored.ID = id
	m.requests[id] = stored
	return id, nil
}

// Get returns a copy of the stored request.
func (m *Memory) Get(_ context.Context, id int64) (*request.WikiRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRequest(stored), nil
}

// Update overwrites the stored request.
func (m *Memory) Update(_ context.Context, req *request.WikiRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[req.ID]; !ok {
		return ErrNotFound
	}
	m.requests[req.ID] = cloneRequest(req)
	return nil
}

// SubdomainExists checks the registered wikis.
func (m *Memory) SubdomainExists(_ context.Context, dbname string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.wikis[dbname]
	return ok, nil
}

// AddWiki registers a created wiki's database name.
func (m *Memory) AddWiki(_ context.Context, dbname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.wikis[dbname] = struct{}{}
	return nil
}

func cloneRequest(req *request.WikiRequest) *request.WikiRequest {
	cloned := *req
	cloned.Comments = append([]request.Comment(nil), req.Comments...)
	return &cloned
}
