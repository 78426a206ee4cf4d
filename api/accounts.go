package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/azcart/storefront-client/session"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhoneNo  string `json:"phoneno"`
	Password string `json:"password"`
}

// PasswordChange is the change-password request body.
type PasswordChange struct {
	CurrentPassword string `json:"currentpassword"`
	NewPassword     string `json:"newpassword"`
}

// PasswordReset carries the out-of-band token from the emailed reset link.
type PasswordReset struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserInfo is the account detail payload for the signed-in shopper.
type UserInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	PhoneNo string `json:"phoneno"`
}

// Login exchanges credentials for a bearer token and installs it in the
// session store. The backend answers with the opaque token as the entire
// response body; the role is read from the token's role claim, purely as a
// navigation hint - the backend still authorizes every call on its own.
func (c *Client) Login(ctx context.Context, creds Credentials) (session.Session, error) {
	body, err := c.do(ctx, http.MethodPost, EndpointLogin, creds, contentTypeJSON)
	if err != nil {
		return session.Session{}, err
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		return session.Session{}, errors.New("[Client.Login] backend returned an empty token")
	}

	role := roleClaim(token)
	c.store.Set(token, role)
	c.log.Info().Str("role", string(role)).Msg("signed in")
	return session.Session{Token: token, Role: role}, nil
}

// Logout tells the backend to drop the session, then clears the local
// credential regardless of the outcome - a dead backend must not keep the
// client signed in.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, EndpointUserLogout, nil, "")
	c.store.Clear()
	if err != nil {
		return errors.Wrap(err, "[Client.Logout]")
	}
	return nil
}

// Register creates an account. The backend answers 201 with a confirmation
// message, or 409 when the email is already taken (see IsConflict).
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	body, err := c.do(ctx, http.MethodPost, EndpointRegister, reg, contentTypeJSON)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// ForgotPassword asks the backend to send a reset link to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, EndpointForgotPassword, map[string]string{"email": email}, contentTypeJSON)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// ResetPassword completes the recovery flow with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, reset PasswordReset) (string, error) {
	body, err := c.do(ctx, http.MethodPost, EndpointResetPassword, reset, contentTypeJSON)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// ChangePassword updates the signed-in account's password.
func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) (string, error) {
	body, err := c.do(ctx, http.MethodPut, EndpointChangePassword, change, contentTypeJSON)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// UserHome fetches the shopper welcome text, confirming session liveness.
func (c *Client) UserHome(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, EndpointUserHome, nil, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// AdminHome fetches the admin welcome text, confirming session liveness.
func (c *Client) AdminHome(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, EndpointAdminHome, nil, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// GetUserInfo returns the signed-in shopper's account details.
func (c *Client) GetUserInfo(ctx context.Context) (UserInfo, error) {
	var info UserInfo
	if err := c.getJSON(ctx, EndpointUserInfo, &info); err != nil {
		return UserInfo{}, err
	}
	return info, nil
}

// DeleteAccount removes the shopper account. The backend expects the
// password as a plain-text body. The local session is cleared on success.
func (c *Client) DeleteAccount(ctx context.Context, password string) (string, error) {
	body, err := c.do(ctx, http.MethodDelete, EndpointDeleteAccount, password, contentTypeText)
	if err != nil {
		return "", err
	}
	c.store.Clear()
	return strings.TrimSpace(string(body)), nil
}

// DeleteAdminAccount removes the admin account, same contract as
// DeleteAccount on the admin surface.
func (c *Client) DeleteAdminAccount(ctx context.Context, password string) (string, error) {
	body, err := c.do(ctx, http.MethodDelete, EndpointAdminDeleteAccount, password, contentTypeText)
	if err != nil {
		return "", err
	}
	c.store.Clear()
	return strings.TrimSpace(string(body)), nil
}

// roleClaim reads the role claim from the token without verifying the
// signature. Verification belongs to the backend; the claim only steers
// client-side navigation. An unreadable claim leaves the role unknown,
// which the session treats as unauthenticated.
func roleClaim(token string) session.Role {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return session.RoleUnknown
	}
	raw, _ := claims["role"].(string)
	role, _ := session.ParseRole(raw)
	return role
}
