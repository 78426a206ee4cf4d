package session

import (
	"sync"

	"github.com/rs/zerolog"
)

// Store is the single source of truth for the current credential. Every
// outgoing request reads it at dispatch time; the response authority and the
// explicit logout/delete-account flows are its only writers. Subscribers see
// each change so the route guard and the transport always observe the same
// instance.
type Store struct {
	mu      sync.RWMutex
	current Session
	repo    Repo
	subs    []func(Session)
	log     zerolog.Logger
}

// New builds a Store backed by repo. A previously persisted credential is
// picked up immediately; a repo read failure starts the store unauthenticated
// rather than failing the caller.
func New(repo Repo, log zerolog.Logger) *Store {
	s := &Store{repo: repo, log: log}
	if repo != nil {
		persisted, err := repo.Load()
		if err != nil {
			log.Warn().Err(err).Msg("session restore failed, starting unauthenticated")
		} else {
			s.current = persisted
		}
	}
	return s
}

// Get returns the current session.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the current credential and persists it.
func (s *Store) Set(token string, role Role) {
	s.update(Session{Token: token, Role: role})
}

// Clear drops the current credential and removes the persisted copy.
func (s *Store) Clear() {
	s.update(Session{})
}

// Subscribe registers fn to run after every credential change. Subscribers
// are invoked outside the store's lock, in registration order.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) update(next Session) {
	s.mu.Lock()
	s.current = next
	subs := make([]func(Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if s.repo != nil {
		var err error
		if next.Empty() {
			err = s.repo.Clear()
		} else {
			err = s.repo.Save(next)
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("session persistence failed")
		}
	}

	for _, fn := range subs {
		fn(next)
	}
}
