package screen

import (
	"context"
	"strings"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/session"
)

const actionLogin = "login"

// LoginState is the view state of the login screen.
type LoginState struct {
	Status Status
}

// Login is the controller of the login screen.
type Login struct {
	base[LoginState]
}

// NewLogin creates the login controller.
func NewLogin(deps Deps) *Login {
	l := &Login{}
	l.init("login", deps)
	return l
}

// Resume skips the login form when a session is already stored.
func (l *Login) Resume() bool {
	if _, err := l.deps.Session.Get(); err != nil {
		return false
	}
	l.navigate(ToMain{})
	return true
}

// Submit logs in. On success only the returned token, plus the returned
// user as display cache, is written to the session.
func (l *Login) Submit(email, password string) (*Task[*api.User], error) {
	if err := l.begin(actionLogin); err != nil {
		return nil, err
	}

	form := loginForm{Email: strings.TrimSpace(email), Password: strings.TrimSpace(password)}
	if msg := check(form, map[string]string{"required": "Please fill all fields"}); msg != "" {
		return nil, l.invalid(actionLogin, msg)
	}

	l.update(func(s *LoginState) { s.Status = Loading })

	return run(&l.base, actionLogin, func(ctx context.Context) (*api.User, error) {
		resp, err := l.deps.API.Login(ctx, api.LoginRequest{Email: form.Email, Password: form.Password})
		if err != nil {
			l.update(func(s *LoginState) { s.Status = Failed })
			if cause, ok := transportCause(err); ok {
				return nil, l.fail(actionLogin, "Connection error: "+cause, err)
			}
			return nil, l.fail(actionLogin, "Invalid credentials", err)
		}
		if err := l.deps.Session.Save(session.FromLogin(resp)); err != nil {
			l.update(func(s *LoginState) { s.Status = Failed })
			return nil, l.fail(actionLogin, "Failed to save session", err)
		}

		if !l.update(func(s *LoginState) { s.Status = Succeeded }) {
			return nil, ErrClosed
		}
		l.toast("Login successful")
		l.navigate(ToMain{})
		return &resp.User, nil
	}), nil
}

// GoToRegister opens the registration screen.
func (l *Login) GoToRegister() {
	l.navigate(ToRegister{})
}
