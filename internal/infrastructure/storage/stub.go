package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StubObjectStorage is an in-memory ObjectStorage for development and tests.
// Objects live only for the lifetime of the process; download URLs point at
// a fake host and are never served.
type StubObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]stubObject
	baseURL string
}

type stubObject struct {
	data        []byte
	contentType string
	storedAt    time.Time
}

// NewStubObjectStorage creates an empty in-memory storage.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		objects: make(map[string]stubObject),
		baseURL: "https://storage.invalid",
	}
}

func (s *StubObjectStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = stubObject{data: buf, contentType: contentType, storedAt: time.Now()}
	return nil
}

func (s *StubObjectStorage) PresignDownload(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, fmt.Errorf("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}

	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", time.Time{}, fmt.Errorf("object %q not found", key)
	}

	expiresAt := time.Now().Add(expiresIn)
	return fmt.Sprintf("%s/%s?expires=%d", s.baseURL, key, expiresAt.Unix()), expiresAt, nil
}

func (s *StubObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *StubObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Object returns a stored object's content, for test assertions.
func (s *StubObjectStorage) Object(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}

// Len reports the number of stored objects.
func (s *StubObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

var _ ObjectStorage = (*StubObjectStorage)(nil)
