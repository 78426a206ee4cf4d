package session_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/azcart/storefront-client/session"
	fakesessionrepo "github.com/azcart/storefront-client/session/repofake"
)

func TestStoreRestoresPersistedSession(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	repo.Seed(session.Session{Token: "t1", Role: session.RoleUser})

	store := session.New(repo, zerolog.Nop())
	require.Equal(t, session.Session{Token: "t1", Role: session.RoleUser}, store.Get())
	require.True(t, store.Get().Authenticated())
}

func TestStoreSetPersistsAndNotifies(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	store := session.New(repo, zerolog.Nop())

	var seen []session.Session
	store.Subscribe(func(s session.Session) { seen = append(seen, s) })

	store.Set("t2", session.RoleAdmin)
	require.Equal(t, 1, repo.Saves)
	require.Equal(t, []session.Session{{Token: "t2", Role: session.RoleAdmin}}, seen)

	store.Clear()
	require.Equal(t, 1, repo.Clears)
	require.True(t, store.Get().Empty())
	require.Equal(t, session.Session{}, seen[len(seen)-1])
}

func TestStoreStartsUnauthenticatedOnRepoFailure(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()
	repo.LoadErr = errFailed
	store := session.New(repo, zerolog.Nop())
	require.True(t, store.Get().Empty())
}

func TestParseRoleFailsClosed(t *testing.T) {
	role, ok := session.ParseRole("ROLE_SUPERUSER")
	require.False(t, ok)
	require.Equal(t, session.RoleUnknown, role)

	require.False(t, session.Session{Token: "t", Role: session.RoleUnknown}.Authenticated())
}

var errFailed = errDummy("load failed")

type errDummy string

func (e errDummy) Error() string { return string(e) }
