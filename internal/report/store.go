// Package report implements the two-step report conversation: a chat enters
// report mode with /report, and its next plain text is escalated to the
// creator on both platforms.
package report

import (
	"sync"
	"time"

	"github.com/edgard/bridgebot/internal/relay"
)

// Key identifies one conversation.
type Key struct {
	Platform relay.Platform
	ChatID   int64
}

// KeyOf returns the conversation key of msg.
func KeyOf(msg relay.InboundMessage) Key {
	return Key{Platform: msg.Platform, ChatID: msg.ChatID}
}

// Session marks a chat as awaiting report text.
type Session struct {
	Key       Key
	UserID    int64
	StartedAt time.Time
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// Store holds the active report sessions in memory. Callers serialize the
// work on one key with Lock; Take removes a session atomically so it can be
// consumed only once.
type Store struct {
	mu       sync.Mutex
	sessions map[Key]Session
	locks    map[Key]*keyLock
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[Key]Session),
		locks:    make(map[Key]*keyLock),
		now:      time.Now,
	}
}

// Lock acquires the per-key lock and returns its release function.
// Locks of idle keys are dropped so the map does not grow with every chat seen.
func (s *Store) Lock(key Key) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// Begin opens a session for key. It reports whether a session was already
// open, in which case the session is restarted in place.
func (s *Store) Begin(key Key, userID int64) (restarted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, restarted = s.sessions[key]
	s.sessions[key] = Session{Key: key, UserID: userID, StartedAt: s.now()}
	return restarted
}

// Take removes and returns the session for key.
func (s *Store) Take(key Key) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if ok {
		delete(s.sessions, key)
	}
	return sess, ok
}

// Cancel removes the session for key and reports whether one existed.
func (s *Store) Cancel(key Key) bool {
	_, ok := s.Take(key)
	return ok
}

// Active reports whether key is awaiting report text.
func (s *Store) Active(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[key]
	return ok
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
