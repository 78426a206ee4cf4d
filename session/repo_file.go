package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo persists the credential as a small JSON file, the storefront's
// equivalent of browser local storage surviving a reload.
type FileRepo struct {
	path string
	lock sync.Mutex
}

type persistedSession struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// NewFileRepo stores the session at path. The parent directory is created
// on the first save.
func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (r *FileRepo) Load() (Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "[FileRepo.Load] read")
	}

	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		return Session{}, errors.Wrap(err, "[FileRepo.Load] unmarshal")
	}

	role, ok := ParseRole(p.Role)
	if p.Token == "" || !ok {
		// Fail closed on a stale or partial credential.
		return Session{}, nil
	}
	return Session{Token: p.Token, Role: role}, nil
}

func (r *FileRepo) Save(s Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	data, err := json.Marshal(persistedSession{Token: s.Token, Role: string(s.Role)})
	if err != nil {
		return errors.Wrap(err, "[FileRepo.Save] marshal")
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileRepo.Save] mkdir")
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileRepo.Save] write")
	}
	return nil
}

func (r *FileRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileRepo.Clear] remove")
	}
	return nil
}
