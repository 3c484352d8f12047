package screen

import (
	"context"
	"strings"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
)

const actionRegister = "register"

// RegisterState is the view state of the registration screen.
type RegisterState struct {
	Status Status
}

// Register is the controller of the registration screen.
type Register struct {
	base[RegisterState]
}

// NewRegister creates the registration controller.
func NewRegister(deps Deps) *Register {
	r := &Register{}
	r.init("register", deps)
	return r
}

// Submit creates an account and, on success, returns to the login screen.
func (r *Register) Submit(name, email, password string) (*Task[int], error) {
	if err := r.begin(actionRegister); err != nil {
		return nil, err
	}

	form := registerForm{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}
	msg := check(form, map[string]string{
		"required":     "Please fill all fields",
		"Password.min": "Password must be at least 6 characters",
	})
	if msg != "" {
		return nil, r.invalid(actionRegister, msg)
	}

	r.update(func(s *RegisterState) { s.Status = Loading })

	return run(&r.base, actionRegister, func(ctx context.Context) (int, error) {
		resp, err := r.deps.API.Register(ctx, api.RegisterRequest{
			Name:     form.Name,
			Email:    form.Email,
			Password: form.Password,
		})
		if err != nil {
			r.update(func(s *RegisterState) { s.Status = Failed })
			if cause, ok := transportCause(err); ok {
				return 0, r.fail(actionRegister, "Connection error: "+cause, err)
			}
			return 0, r.fail(actionRegister, "Registration failed", err)
		}

		if !r.update(func(s *RegisterState) { s.Status = Succeeded }) {
			return 0, ErrClosed
		}
		r.toast("Registration successful")
		r.navigate(ToLogin{})
		return resp.UserID, nil
	}), nil
}

// Back returns to the login screen without registering.
func (r *Register) Back() {
	r.navigate(ToLogin{})
}
