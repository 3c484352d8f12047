package screen

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/adapter"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/imaging"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/session"
)

// Load and Save share one busy flag: the form is disabled while either runs.
const actionProfile = "profile"

// ProfileState is the view state of the profile screen.
type ProfileState struct {
	Status Status
	Name   string
	Email  string
	// Picture is the stored picture, or the pending one once selected.
	Picture image.Image
	// PendingPicture is the encoded picture the next Save uploads.
	PendingPicture string
}

// Profile is the controller of the profile screen.
type Profile struct {
	base[ProfileState]
}

// NewProfile creates the profile controller.
func NewProfile(deps Deps) *Profile {
	p := &Profile{}
	p.init("profile", deps)
	return p
}

func (p *Profile) failure(err error, rejected string) error {
	if _, ok := transportCause(err); ok {
		return p.fail(actionProfile, "Connection error", err)
	}
	return p.fail(actionProfile, rejected, err)
}

// Load fetches the current user into the form.
func (p *Profile) Load() (*Task[*api.User], error) {
	if err := p.begin(actionProfile); err != nil {
		return nil, err
	}
	p.update(func(s *ProfileState) { s.Status = Loading })

	return run(&p.base, actionProfile, func(ctx context.Context) (*api.User, error) {
		user, err := p.deps.API.GetProfile(ctx)
		if err != nil {
			p.update(func(s *ProfileState) { s.Status = Failed })
			return nil, p.failure(err, "Failed to load profile")
		}

		var picture image.Image
		if user.ProfilePicture != "" {
			picture = adapter.Picture(p.deps.Decode, user.ProfilePicture)
		}
		if !p.update(func(s *ProfileState) {
			s.Status = Succeeded
			s.Name = user.Name
			s.Email = user.Email
			if s.PendingPicture == "" {
				s.Picture = picture
			}
		}) {
			return nil, ErrClosed
		}
		return user, nil
	}), nil
}

// SelectImage replaces the picture shown and queues it for the next Save.
func (p *Profile) SelectImage(r io.Reader) error {
	up, err := imaging.Prepare(r)
	if err != nil {
		p.logger.Warn("failed to load image", slog.String("error", err.Error()))
		p.toast("Failed to load image")
		return &Error{Message: "Failed to load image", Err: err}
	}

	p.update(func(s *ProfileState) {
		s.Picture = up.Preview
		s.PendingPicture = up.DataURI
	})
	return nil
}

// Save updates the name and, if one was selected, the picture.
func (p *Profile) Save(name string) (*Task[*api.User], error) {
	if err := p.begin(actionProfile); err != nil {
		return nil, err
	}

	form := profileForm{Name: strings.TrimSpace(name)}
	if msg := check(form, map[string]string{"required": "Name cannot be empty"}); msg != "" {
		return nil, p.invalid(actionProfile, msg)
	}

	req := api.UpdateProfileRequest{Name: form.Name}
	p.update(func(s *ProfileState) {
		s.Status = Loading
		req.ProfilePicture = s.PendingPicture
	})

	return run(&p.base, actionProfile, func(ctx context.Context) (*api.User, error) {
		resp, err := p.deps.API.UpdateProfile(ctx, req)
		if err != nil {
			p.update(func(s *ProfileState) { s.Status = Failed })
			return nil, p.failure(err, "Failed to update profile")
		}

		if err := p.refreshSession(resp.User); err != nil {
			p.logger.Warn("failed to refresh cached user", slog.String("error", err.Error()))
		}

		if !p.update(func(s *ProfileState) {
			s.Status = Succeeded
			s.Name = resp.User.Name
			s.PendingPicture = ""
		}) {
			return nil, ErrClosed
		}
		p.toast("Profile updated successfully")
		return &resp.User, nil
	}), nil
}

// refreshSession keeps the cached user in step with the server.
func (p *Profile) refreshSession(u api.User) error {
	sess, err := p.deps.Session.Get()
	if err != nil {
		return err
	}
	sess.User = session.FromUser(u)
	if err := p.deps.Session.Save(sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Logout forgets the session and returns to the login screen.
func (p *Profile) Logout() error {
	if err := p.deps.Session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	p.navigate(ToLogin{})
	return nil
}
