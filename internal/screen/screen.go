// Package screen holds the UI-agnostic controllers behind each screen of the
// Lost & Found client.
//
// A controller owns its view state, runs every user action as a Task bound
// to the screen's lifetime and reports back through a Sink: state snapshots,
// short toast messages and typed navigation events. Closing a controller
// cancels its in-flight work; late completions are dropped.
package screen

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/adapter"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/session"
)

var (
	// ErrBusy is returned when an action is triggered while it is already loading.
	ErrBusy = errors.New("screen: action already in progress")
	// ErrClosed is returned by actions on, and completions for, a closed screen.
	ErrClosed = errors.New("screen: closed")
	// ErrInvalid marks input rejected before any request was sent.
	ErrInvalid = errors.New("screen: invalid input")
	// ErrStale marks a search result that a newer query superseded.
	ErrStale = errors.New("screen: superseded")
)

// Error is an action failure whose Message has already been shown to the user.
type Error struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil || errors.Is(e.Err, ErrInvalid) {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap implements the errors.Unwrap interface for error chaining.
func (e *Error) Unwrap() error {
	return e.Err
}

// API is the part of the REST client the controllers use. *api.Client
// implements it.
type API interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	GetProfile(ctx context.Context) (*api.User, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.UpdateProfileResponse, error)
	ListMeetupPoints(ctx context.Context) ([]api.MeetupPoint, error)
	CreateReport(ctx context.Context, req api.CreateReportRequest) (*api.CreateReportResponse, error)
	ListReports(ctx context.Context) ([]api.Report, error)
	GetReport(ctx context.Context, reportID int) (*api.Report, error)
	SearchReports(ctx context.Context, query string) ([]api.Report, error)
	ListComments(ctx context.Context, reportID int) ([]api.Comment, error)
	AddComment(ctx context.Context, reportID int, req api.AddCommentRequest) (*api.AddCommentResponse, error)
}

var _ API = (*api.Client)(nil)

// Sink receives everything a controller wants the view to show.
// Calls are made from task goroutines, never while controller state is locked.
type Sink interface {
	// Render receives a copy of the controller's state after every change.
	Render(state any)
	// Toast shows a short message.
	Toast(message string)
	// Navigate asks the view to move to another screen.
	Navigate(event Event)
}

// Discard is a Sink that ignores everything.
type Discard struct{}

func (Discard) Render(any) {}
func (Discard) Toast(string) {}
func (Discard) Navigate(Event) {}

// Deps are the collaborators injected into every controller.
type Deps struct {
	API     API
	Session session.Store
	Sink    Sink
	// Decode turns image fields into images. Defaults to imaging.Decode.
	Decode adapter.Decoder
	Logger *slog.Logger
	// Context bounds the lifetime of every controller built from these deps.
	// Defaults to context.Background.
	Context context.Context
}

// Status is the state of one action.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "success"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}
