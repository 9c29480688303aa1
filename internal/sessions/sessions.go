// Package sessions keeps each visitor's product list state between the page
// load and the actions that follow it.
package sessions

import (
	"context"
	"strings"
	"sync"
	"time"

	"gadgetshelf/internal/productlist"
)

type Store interface {
	Load(ctx context.Context, sid string) (productlist.State, bool, error)
	Save(ctx context.Context, sid string, st productlist.State) error
	Delete(ctx context.Context, sid string) error
}

type memEntry struct {
	state   productlist.State
	expires time.Time
}

// Memory is a process-local Store. States are copied in and out.
type Memory struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]memEntry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, m: map[string]memEntry{}}
}

func (s *Memory) Load(_ context.Context, sid string) (productlist.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[sid]
	if !ok {
		return productlist.State{}, false, nil
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.m, sid)
		return productlist.State{}, false, nil
	}
	return e.state, true, nil
}

func (s *Memory) Save(_ context.Context, sid string, st productlist.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[strings.Clone(sid)] = memEntry{state: st, expires: s.now().Add(s.ttl)}
	s.sweep()
	return nil
}

func (s *Memory) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sid)
	return nil
}

// sweep drops expired entries; callers hold mu.
func (s *Memory) sweep() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	for k, e := range s.m {
		if now.After(e.expires) {
			delete(s.m, k)
		}
	}
}
