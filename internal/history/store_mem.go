package history

import (
	"sync"

	"github.com/flemzord/chatrelay/internal/provider"
)

// session holds one credential's bounded history behind its own lock.
type session struct {
	mu   sync.Mutex
	ring *Ring[provider.LLMMessage]
}

// InMemoryStore is a thread-safe, in-memory implementation of Store.
// The map lock is held only for lookup and creation; each session has its
// own mutex so unrelated keys never contend on the same ring.
type InMemoryStore struct {
	capacity int

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewInMemoryStore creates a store that retains at most capacity turns
// per session.
func NewInMemoryStore(capacity int) *InMemoryStore {
	return &InMemoryStore{
		capacity: capacity,
		sessions: make(map[string]*session),
	}
}

// Compile-time interface check.
var _ Store = (*InMemoryStore)(nil)

func (s *InMemoryStore) getOrCreate(key string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		return sess
	}
	sess = &session{ring: NewRing[provider.LLMMessage](s.capacity)}
	s.sessions[key] = sess
	return sess
}

// Recent returns the retained turns for key, oldest first.
func (s *InMemoryStore) Recent(key string) []provider.LLMMessage {
	sess := s.getOrCreate(key)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.ring.Items()
}

// Append records both turns of ex for key. The two pushes happen under the
// session lock, so a concurrent request on the same key cannot land between
// a question and its answer.
func (s *InMemoryStore) Append(key string, ex Exchange) {
	sess := s.getOrCreate(key)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	for _, m := range ex.Messages() {
		sess.ring.Push(m)
	}
}

// Sessions returns the number of sessions created so far.
func (s *InMemoryStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
