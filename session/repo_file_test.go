package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azcart/storefront-client/session"
)

func TestFileRepoRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	repo := session.NewFileRepo(path)

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.True(t, loaded.Empty())

	require.NoError(t, repo.Save(session.Session{Token: "t1", Role: session.RoleUser}))
	loaded, err = repo.Load()
	require.NoError(t, err)
	require.Equal(t, session.Session{Token: "t1", Role: session.RoleUser}, loaded)

	require.NoError(t, repo.Clear())
	loaded, err = repo.Load()
	require.NoError(t, err)
	require.True(t, loaded.Empty())

	// Clearing twice must not fail.
	require.NoError(t, repo.Clear())
}

func TestFileRepoFailsClosedOnUnknownRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"t1","role":"ROLE_ROOT"}`), 0o600))

	loaded, err := session.NewFileRepo(path).Load()
	require.NoError(t, err)
	require.True(t, loaded.Empty())
}
