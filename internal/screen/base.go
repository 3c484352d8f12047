package screen

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/imaging"
)

// base is the lifecycle and state plumbing shared by every controller.
type base[S any] struct {
	deps   Deps
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	running map[string]bool
	state   S
}

func (b *base[S]) init(name string, deps Deps) {
	if deps.Sink == nil {
		deps.Sink = Discard{}
	}
	if deps.Decode == nil {
		deps.Decode = imaging.Decode
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	parent := deps.Context
	if parent == nil {
		parent = context.Background()
	}

	b.deps = deps
	b.logger = deps.Logger.With(slog.String("screen", name))
	b.ctx, b.cancel = context.WithCancel(parent)
	b.running = make(map[string]bool)
}

// State returns a copy of the current view state.
func (b *base[S]) State() S {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Close cancels all in-flight actions. Their completions are discarded.
func (b *base[S]) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.cancel()
}

func (b *base[S]) readyLocked(action string) error {
	switch {
	case b.closed:
		return ErrClosed
	case b.running[action]:
		return ErrBusy
	}
	return nil
}

// begin marks action busy, or fails with ErrBusy or ErrClosed. Every
// successful begin is paired with end, either through invalid or run.
func (b *base[S]) begin(action string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.readyLocked(action); err != nil {
		return err
	}
	b.running[action] = true
	return nil
}

func (b *base[S]) end(action string) {
	b.mu.Lock()
	delete(b.running, action)
	b.mu.Unlock()
}

// update mutates state and publishes the snapshot. It reports false, and
// leaves state alone, once the screen is closed.
func (b *base[S]) update(fn func(*S)) bool {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	fn(&b.state)
	snapshot := b.state
	b.mu.Unlock()

	b.deps.Sink.Render(snapshot)
	return true
}

func (b *base[S]) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *base[S]) toast(msg string) {
	if !b.isClosed() {
		b.deps.Sink.Toast(msg)
	}
}

func (b *base[S]) navigate(ev Event) {
	if !b.isClosed() {
		b.deps.Sink.Navigate(ev)
	}
}

// invalid releases action after a validation failure. No request is sent.
func (b *base[S]) invalid(action, msg string) error {
	b.end(action)
	b.toast(msg)
	return &Error{Message: msg, Err: ErrInvalid}
}

// fail reports a failed request, or ErrClosed when the screen went away
// while it was in flight.
func (b *base[S]) fail(action, msg string, err error) error {
	if b.isClosed() {
		return ErrClosed
	}
	attrs := []any{slog.String("action", action), slog.String("error", err.Error())}
	if api.IsUnauthorized(err) {
		attrs = append(attrs, slog.Bool("unauthorized", true))
	}
	b.logger.Warn("action failed", attrs...)

	b.toast(msg)
	return &Error{Message: msg, Err: err}
}

// run starts fn as a task for an action taken with begin. The action stays
// busy until fn returns.
func run[S, T any](b *base[S], action string, fn func(ctx context.Context) (T, error)) *Task[T] {
	return Go(b.ctx, func(ctx context.Context) (T, error) {
		defer b.end(action)
		return fn(ctx)
	})
}

// transportCause returns the low-level reason of a transport failure.
func transportCause(err error) (string, bool) {
	var te *api.TransportError
	if !errors.As(err, &te) {
		return "", false
	}
	if te.Err != nil {
		return te.Err.Error(), true
	}
	return te.Error(), true
}
