package imagetag

import (
	"context"
	"sort"
	"sync"

	"phototag/internal/domain/tag"
)

// MemoryStore is an in-process tag cache keyed by image ID.
type MemoryStore struct {
	mu     sync.RWMutex
	images map[string]tag.Set
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Purger = (*MemoryStore)(nil)
	_ Lister = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{images: make(map[string]tag.Set)}
}

// GetTags returns a copy of the image's tags, empty if none are cached.
func (m *MemoryStore) GetTags(_ context.Context, imageID string) (tag.Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.images[imageID].Clone(), nil
}

// AddTag associates name with imageID.
func (m *MemoryStore) AddTag(_ context.Context, imageID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.images[imageID]
	if !ok {
		set = make(tag.Set)
		m.images[imageID] = set
	}
	set.Add(name)
	return nil
}

// RemoveTag drops name from imageID.
func (m *MemoryStore) RemoveTag(_ context.Context, imageID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.images[imageID]; ok {
		set.Remove(name)
	}
	return nil
}

// RemoveImage forgets everything about imageID.
func (m *MemoryStore) RemoveImage(_ context.Context, imageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, imageID)
	return nil
}

// Clear empties the cache.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = make(map[string]tag.Set)
	return nil
}

// PurgeTag removes name from every cached image and returns how many carried it.
func (m *MemoryStore) PurgeTag(_ context.Context, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, set := range m.images {
		if set.Remove(name) {
			n++
		}
	}
	return n, nil
}

// ListImages returns the cached image IDs in ascending order.
func (m *MemoryStore) ListImages(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.images))
	for id := range m.images {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
