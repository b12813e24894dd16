package store

import (
	"context"
	"sort"
	"sync"
)

type memoryVideo struct {
	filename string
	data     []byte
}

// MemoryStore süreç ömrü boyunca yaşayan depodur (--no-store ve testler için).
type MemoryStore struct {
	mu       sync.RWMutex
	videos   map[string]memoryVideo
	projects map[string]ProjectRecord
}

// NewMemoryStore boş bir bellek deposu oluşturur.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		videos:   make(map[string]memoryVideo),
		projects: make(map[string]ProjectRecord),
	}
}

func (m *MemoryStore) StoreVideo(ctx context.Context, id string, data []byte, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[id] = memoryVideo{filename: filename, data: append([]byte(nil), data...)}
	return nil
}

func (m *MemoryStore) GetVideo(ctx context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v.data...), nil
}

func (m *MemoryStore) DeleteVideo(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.videos, id)
	return nil
}

func (m *MemoryStore) StoreProject(ctx context.Context, rec ProjectRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.projects[rec.ID]; ok {
		rec.CreatedAt = prev.CreatedAt
	}
	m.projects[rec.ID] = rec
	return nil
}

func (m *MemoryStore) GetProject(ctx context.Context, id string) (*ProjectRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) GetAllProjects(ctx context.Context) ([]ProjectRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ProjectRecord, 0, len(m.projects))
	for _, rec := range m.projects {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

func (m *MemoryStore) DeleteProject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, id)
	return nil
}

func (m *MemoryStore) Info(ctx context.Context) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info := Info{VideoCount: len(m.videos), ProjectCount: len(m.projects)}
	for _, v := range m.videos {
		info.UsedBytes += int64(len(v.data))
	}
	return info, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
