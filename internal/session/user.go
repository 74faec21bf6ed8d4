package session

import (
	"context"
	"strings"
)

// AdminEmail is the single address granted the administration view.
const AdminEmail = "admkutoilet@gmail.com"

// GuestName is displayed when the user record carries neither a name nor an email.
const GuestName = "Guest"

// User is the signed-in user record as returned by the identity exchange.
type User struct {
	ID        string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

// DisplayName prefers "first last", then the email, then GuestName.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return GuestName
}

// IsAdmin is an exact, case-sensitive comparison against AdminEmail.
func (u User) IsAdmin() bool {
	return u.Email == AdminEmail
}

// Capabilities are the three gates derived from the session.
type Capabilities struct {
	CanReview     bool `json:"canReview"`
	CanSeeHistory bool `json:"canSeeHistory"`
	CanAdminister bool `json:"canAdminister"`
}

// Session wraps an optional user. The zero value is the signed-out session.
// There is no expiry: a session lasts until sign-out or until the cookie is cleared.
type Session struct {
	User *User
}

func (s Session) Authenticated() bool {
	return s.User != nil
}

func (s Session) DisplayName() string {
	if s.User == nil {
		return GuestName
	}
	return s.User.DisplayName()
}

func (s Session) Capabilities() Capabilities {
	if s.User == nil {
		return Capabilities{}
	}
	return Capabilities{
		CanReview:     true,
		CanSeeHistory: true,
		CanAdminister: s.User.IsAdmin(),
	}
}

// IdentityProvider exchanges an external sign-in token for a verified user record.
type IdentityProvider interface {
	SignInWithGoogle(ctx context.Context, token string) (User, error)
}
