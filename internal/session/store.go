package session

import (
	"net/http"
)

// CookieName is the fixed key the signed-in user record is stored under.
const CookieName = "kutoilet_user"

// CookieStore persists the session in a signed cookie.
type CookieStore struct {
	codec  *Codec
	secure bool
}

func NewCookieStore(codec *Codec, secure bool) *CookieStore {
	return &CookieStore{codec: codec, secure: secure}
}

// Load reads the session from the request. A missing or tampered cookie yields
// the signed-out session.
func (s *CookieStore) Load(r *http.Request) Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}
	}
	user, err := s.codec.DecodeUser(cookie.Value)
	if err != nil {
		return Session{}
	}
	return Session{User: &user}
}

// Save writes the user record into a long-lived cookie. The record itself never expires.
func (s *CookieStore) Save(w http.ResponseWriter, user User) error {
	value, err := s.codec.EncodeUser(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   persistentMaxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the record.
func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// persistentMaxAge keeps the cookie across browser restarts, like local storage.
const persistentMaxAge = 400 * 24 * 60 * 60
