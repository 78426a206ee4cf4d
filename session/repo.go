package session

// Repo persists the credential so a session survives process restarts.
type Repo interface {
	// Load returns the persisted session, or an empty session when none
	// has been saved.
	Load() (Session, error)

	// Save replaces the persisted session.
	Save(Session) error

	// Clear removes any persisted session.
	Clear() error
}
