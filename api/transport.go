package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/azcart/storefront-client/session"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	bearerPrefix        = "Bearer "
)

var _ http.RoundTripper = (*authTransport)(nil)

// authTransport is the interceptor pair around every backend call.
//
// Request side: attach the stored bearer credential unless the endpoint is
// on the public allow-list. Response side: rotate the stored token whenever
// the backend offers a new one, and evict the session on a 401 to a
// protected endpoint. Eviction is surfaced as an explicit onEvict effect so
// the embedding app decides how to navigate to the login entry point.
type authTransport struct {
	base    http.RoundTripper
	store   *session.Store
	onEvict func()
	log     zerolog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	public := IsPublicEndpoint(req.URL.Path)

	req = req.Clone(req.Context())
	req.Header.Set(headerRequestID, uuid.New().String())
	if !public {
		if token := t.store.Get().Token; token != "" {
			req.Header.Set(headerAuthorization, bearerPrefix+token)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Silent token rotation. The role is untouched: only an explicit
	// login or eviction may change it.
	if rotated, ok := bearerToken(resp.Header.Get(headerAuthorization)); ok {
		current := t.store.Get()
		t.store.Set(rotated, current.Role)
		t.log.Debug().Str("path", req.URL.Path).Msg("token rotated")
	}

	if resp.StatusCode == http.StatusUnauthorized && !public {
		t.log.Warn().Str("path", req.URL.Path).Msg("unauthorized on protected endpoint, evicting session")
		t.store.Clear()
		if t.onEvict != nil {
			t.onEvict()
		}
	}

	return resp, nil
}

// bearerToken extracts the credential from an Authorization header value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
