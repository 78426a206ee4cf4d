package session

// Role identifies the kind of account a credential was issued for.
type Role string

const (
	// RoleUnknown is the zero value, held before login or when the backend
	// issued a role the client does not recognise.
	RoleUnknown Role = ""
	RoleUser    Role = "ROLE_USER"
	RoleAdmin   Role = "ROLE_ADMIN"
)

// ParseRole maps a wire role string onto the closed enum. Unrecognised
// values come back as RoleUnknown so that callers fail closed.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return RoleUnknown, false
}

// Session is the credential pair the storefront holds between requests.
type Session struct {
	Token string
	Role  Role
}

// Authenticated reports whether the session can admit a navigation. A token
// without a recognised role counts as unauthenticated.
func (s Session) Authenticated() bool {
	return s.Token != "" && (s.Role == RoleUser || s.Role == RoleAdmin)
}

// Empty reports whether no credential is held at all.
func (s Session) Empty() bool {
	return s.Token == "" && s.Role == RoleUnknown
}
