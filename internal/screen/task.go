package screen

import "context"

// Task is the pending result of an asynchronous action.
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	value  T
	err    error
}

// Go runs fn on its own goroutine with a context derived from parent.
// Cancelling parent cancels the task.
func Go[T any](parent context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(parent)
	t := &Task[T]{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer close(t.done)
		defer cancel()
		t.value, t.err = fn(ctx)
	}()

	return t
}

// Done is closed once the task has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its result.
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	return t.value, t.err
}

// Cancel asks the task to stop. It does not wait.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// completed returns a task that has already finished with value and err.
func completed[T any](value T, err error) *Task[T] {
	t := &Task[T]{done: make(chan struct{}), cancel: func() {}, value: value, err: err}
	close(t.done)
	return t
}
