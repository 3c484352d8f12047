// Package session persists the bearer token between runs.
package session

import (
	"context"
	"errors"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
)

// ErrNoSession is returned by Get when nobody is logged in.
var ErrNoSession = errors.New("session: not logged in")

// User is the cached copy of the logged-in account. It is display data only.
type User struct {
	ID    int    `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email" json:"email"`
}

// Session is the single per-installation login state.
type Session struct {
	Token string `yaml:"token"`
	User  *User  `yaml:"user,omitempty"`
}

// Store keeps exactly one Session.
type Store interface {
	// Save replaces the stored session.
	Save(s Session) error
	// Get returns the stored session or ErrNoSession.
	Get() (Session, error)
	// Clear removes the stored session. Clearing an empty store is not an error.
	Clear() error
}

// FromLogin builds the session a successful login produces.
func FromLogin(resp *api.LoginResponse) Session {
	return Session{
		Token: resp.Token,
		User:  FromUser(resp.User),
	}
}

// FromUser converts the API user into the cached form.
func FromUser(u api.User) *User {
	if u.ID == 0 && u.Name == "" && u.Email == "" {
		return nil
	}
	return &User{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Tokens adapts a Store into the API client's token source. The store is read
// on every call; a missing session yields an empty token.
func Tokens(store Store) api.TokenSource {
	return api.TokenFunc(func(context.Context) (string, error) {
		s, err := store.Get()
		if errors.Is(err, ErrNoSession) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return s.Token, nil
	})
}
