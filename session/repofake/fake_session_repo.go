package fakesessionrepo

import (
	"sync"

	"github.com/azcart/storefront-client/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session store for tests. It counts
// operations so tests can assert on persistence traffic.
type FakeSessionRepo struct {
	lock    sync.RWMutex
	current session.Session

	LoadErr  error
	SaveErr  error
	ClearErr error

	Saves  int
	Clears int
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

func (r *FakeSessionRepo) Load() (session.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.LoadErr != nil {
		return session.Session{}, r.LoadErr
	}
	return r.current, nil
}

func (r *FakeSessionRepo) Save(s session.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.current = s
	r.Saves++
	return nil
}

func (r *FakeSessionRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.ClearErr != nil {
		return r.ClearErr
	}
	r.current = session.Session{}
	r.Clears++
	return nil
}

// Seed installs a session as the persisted state without counting a save.
func (r *FakeSessionRepo) Seed(s session.Session) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.current = s
}
