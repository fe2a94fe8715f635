package cache

import (
	"bytes"
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a process-local stand-in for redis, used when CACHE_DRIVER=memory.
// Entries are evicted by the LRU after maxTTL and checked against their own TTL on read.
type MemoryStore struct {
	lru *expirable.LRU[string, memEntry]
	now func() time.Time
}

func NewMemoryStore(size int, maxTTL time.Duration) *MemoryStore {
	if size <= 0 {
		size = 10000
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, memEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.lru.Remove(key)
		return nil, false, nil
	}
	return bytes.Clone(e.value), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.lru.Add(key, memEntry{value: bytes.Clone(value), expiresAt: s.now().Add(ttl)})
	return nil
}
