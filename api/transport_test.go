package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/azcart/storefront-client/api"
	"github.com/azcart/storefront-client/session"
)

// capture records what the backend saw and lets each test script the
// response per request.
type capture struct {
	authHeader string
	requestID  string
	respond    func(w http.ResponseWriter)
}

func newTestClient(t *testing.T, cap *capture, store *session.Store, options ...api.Option) *api.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.authHeader = r.Header.Get("Authorization")
		cap.requestID = r.Header.Get("X-Request-ID")
		if cap.respond != nil {
			cap.respond(w)
		}
	}))
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, store, options...)
	require.NoError(t, err)
	return client
}

func TestAuthorizerAttachesBearerToProtectedEndpoints(t *testing.T) {
	store := session.New(nil, zerolog.Nop())
	store.Set("t1", session.RoleUser)

	cap := &capture{}
	client := newTestClient(t, cap, store)

	_, err := client.UserHome(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer t1", cap.authHeader)
	require.NotEmpty(t, cap.requestID)
}

func TestAuthorizerNeverDecoratesPublicEndpoints(t *testing.T) {
	store := session.New(nil, zerolog.Nop())
	store.Set("stale-token", session.RoleUser)

	cap := &capture{}
	client := newTestClient(t, cap, store)

	// A stale session must not contaminate a fresh login attempt.
	_, err := client.ForgotPassword(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Empty(t, cap.authHeader)
}

func TestAuthorizerSkipsHeaderWhenAnonymous(t *testing.T) {
	store := session.New(nil, zerolog.Nop())

	cap := &capture{}
	client := newTestClient(t, cap, store)

	_, err := client.UserHome(context.Background())
	require.NoError(t, err)
	require.Empty(t, cap.authHeader)
}

func TestAuthorityRotatesTokenKeepingRole(t *testing.T) {
	store := session.New(nil, zerolog.Nop())
	store.Set("t1", session.RoleAdmin)

	cap := &capture{}
	cap.respond = func(w http.ResponseWriter) {
		w.Header().Set("Authorization", "Bearer t2")
	}
	client := newTestClient(t, cap, store)

	_, err := client.AdminHome(context.Background())
	require.NoError(t, err)
	require.Equal(t, session.Session{Token: "t2", Role: session.RoleAdmin}, store.Get())
}

func TestAuthorityIgnoresMalformedRotationHeader(t *testing.T) {
	store := session.New(nil, zerolog.Nop())
	store.Set("t1", session.RoleUser)

	cap := &capture{}
	cap.respond = func(w http.ResponseWriter) {
		w.Header().Set("Authorization", "Basic dXNlcjpwYXNz")
	}
	client := newTestClient(t, cap, store)

	_, err := client.UserHome(context.Background())
	require.NoError(t, err)
	require.Equal(t, "t1", store.Get().Token)
}

func TestAuthorityEvictsOnProtectedUnauthorized(t *testing.T) {
	store := session.New(nil, zerolog.Nop())
	store.Set("t1", session.RoleUser)

	evicted := 0
	cap := &capture{}
	cap.respond = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusUnauthorized)
	}
	client := newTestClient(t, cap, store, api.WithOnEvict(func() { evicted++ }))

	_, err := client.UserHome(context.Background())
	require.True(t, api.IsUnauthorized(err))
	require.True(t, api.IsSessionEvicted(err))
	require.True(t, store.Get().Empty())
	require.Equal(t, 1, evicted)
}

func TestAuthorityLeavesSessionAloneOnPublicUnauthorized(t *testing.T) {
	store := session.New(nil, zerolog.Nop())
	store.Set("t1", session.RoleUser)

	evicted := 0
	cap := &capture{}
	cap.respond = func(w http.ResponseWriter) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
	}
	client := newTestClient(t, cap, store, api.WithOnEvict(func() { evicted++ }))

	_, err := client.Login(context.Background(), api.Credentials{Email: "a@b.com", Password: "nope"})
	require.True(t, api.IsUnauthorized(err))
	require.False(t, api.IsSessionEvicted(err))
	require.Equal(t, "t1", store.Get().Token)
	require.Zero(t, evicted)

	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "Invalid email or password", se.Message("fallback"))
}

func TestIsPublicEndpoint(t *testing.T) {
	require.True(t, api.IsPublicEndpoint("/login"))
	require.True(t, api.IsPublicEndpoint("/reset-password"))
	require.False(t, api.IsPublicEndpoint("/api/user/home"))
	require.False(t, api.IsPublicEndpoint("/api/user/getcartitem"))
}

func TestUnreachableBackend(t *testing.T) {
	store := session.New(nil, zerolog.Nop())
	// A closed server: the port is no longer listening.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := api.New(url, store)
	require.NoError(t, err)

	_, err = client.UserHome(context.Background())
	require.True(t, api.IsNotReachable(err))
	require.False(t, api.IsUnauthorized(err))
}
