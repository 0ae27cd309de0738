package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a key does not exist in the blob store.
var ErrNotFound = errors.New("storage: blob not found")

// BlobStore is the boundary to the underlying object store. It is assumed
// durable and strongly consistent for a single key; no atomic rename exists,
// so Move is read-then-write-then-delete.
type BlobStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Open(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Move(ctx context.Context, src, dst string) error
	PublicURL(key string) string
}

// MemoryStore is an in-process BlobStore used in tests and when no object
// store is configured in development.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.blobs[key] = buf
	return nil
}

func (s *MemoryStore) Open(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *MemoryStore) Move(ctx context.Context, src, dst string) error {
	data, err := s.Open(ctx, src)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, dst, data); err != nil {
		return err
	}
	return s.Delete(ctx, src)
}

func (s *MemoryStore) PublicURL(key string) string {
	return "memory://" + key
}
