package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default single-process Store: a mutex-guarded map
// with expiry timestamps, swept periodically by the scheduler.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]*Challenge
	verified   map[string]time.Time // key -> expiry
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		challenges: make(map[string]*Challenge),
		verified:   make(map[string]time.Time),
		now:        time.Now,
	}
}

func (s *MemoryStore) GetChallenge(ctx context.Context, key string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[key]
	if !ok {
		return nil, nil
	}
	cp := *ch
	return &cp, nil
}

func (s *MemoryStore) PutChallenge(ctx context.Context, key string, ch *Challenge, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ch
	s.challenges[key] = &cp
	return nil
}

func (s *MemoryStore) DeleteChallenge(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, key)
	return nil
}

func (s *MemoryStore) PutVerified(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[key] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) TakeVerified(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.verified[key]
	if !ok {
		return false, nil
	}
	delete(s.verified, key)
	if s.now().After(expiry) {
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for key, ch := range s.challenges {
		if now.After(ch.ExpiresAt) {
			delete(s.challenges, key)
			removed++
		}
	}
	for key, expiry := range s.verified {
		if now.After(expiry) {
			delete(s.verified, key)
		}
	}
	return removed, nil
}
