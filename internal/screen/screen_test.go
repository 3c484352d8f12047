package screen

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/apitest"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/imaging"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/session"
)

// recorder is a Sink that keeps everything it receives.
type recorder struct {
	mu      sync.Mutex
	toasts  []string
	events  []Event
	renders int
}

func (r *recorder) Render(any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
}

func (r *recorder) Toast(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, msg)
}

func (r *recorder) Navigate(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Toasts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.toasts...)
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// requestLog records what a test server saw.
type requestLog struct {
	mu      sync.Mutex
	paths   []string
	headers []http.Header
}

func (l *requestLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, r.Method+" "+r.URL.Path)
	l.headers = append(l.headers, r.Header.Clone())
}

func (l *requestLog) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

func (l *requestLog) Header(i int) http.Header {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.headers[i]
}

// newDeps wires controllers to baseURL with an in-memory session.
func newDeps(t *testing.T, baseURL string) (Deps, *recorder, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	rec := &recorder{}
	client := api.NewClient(
		api.WithBaseURL(baseURL),
		api.WithTokenSource(session.Tokens(store)),
		api.WithTimeout(5*time.Second),
	)
	return Deps{API: client, Session: store, Sink: rec}, rec, store
}

// startFake starts the in-memory API and returns its URL.
func startFake(t *testing.T) (*apitest.Server, string) {
	t.Helper()
	srv, ts := apitest.Start(t)
	return srv, ts.URL
}

// newLoggedIn starts a fake API and returns deps for a registered, logged-in user.
func newLoggedIn(t *testing.T) (Deps, *recorder, *session.MemoryStore, *apitest.Server) {
	t.Helper()
	srv, ts := apitest.Start(t)
	deps, rec, store := newDeps(t, ts.URL)

	reg, err := NewRegister(deps).Submit("Ann", "a@b.com", "secret1")
	require.NoError(t, err)
	_, err = reg.Wait()
	require.NoError(t, err)

	login, err := NewLogin(deps).Submit("a@b.com", "secret1")
	require.NoError(t, err)
	_, err = login.Wait()
	require.NoError(t, err)

	rec.mu.Lock()
	rec.toasts, rec.events = nil, nil
	rec.mu.Unlock()
	return deps, rec, store, srv
}

func pngBytes(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return bytes.NewReader(buf.Bytes())
}

func TestTask(t *testing.T) {
	task := Go(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})
	<-task.Done()
	v, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestTask_Cancel(t *testing.T) {
	started := make(chan struct{})
	task := Go(context.Background(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})
	<-started
	task.Cancel()

	_, err := task.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTask_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	task := Go(parent, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	cancel()

	_, err := task.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestError(t *testing.T) {
	invalid := &Error{Message: "Please fill all fields", Err: ErrInvalid}
	assert.Equal(t, "Please fill all fields", invalid.Error())
	assert.ErrorIs(t, invalid, ErrInvalid)

	cause := errors.New("boom")
	failed := &Error{Message: "Failed to load reports", Err: cause}
	assert.Equal(t, "Failed to load reports: boom", failed.Error())
	assert.ErrorIs(t, failed, cause)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "success", Succeeded.String())
	assert.Equal(t, "error", Failed.String())
}

func TestNavigationEvents(t *testing.T) {
	assert.Equal(t, "report/7", ToReport{ReportID: 7}.String())
	assert.Equal(t, "main", ToMain{}.String())
}

func TestDashboard(t *testing.T) {
	deps, rec, _, _ := newLoggedIn(t)
	ctx := context.Background()

	dash := NewDashboard(deps)
	defer dash.Close()

	task, err := dash.Load()
	require.NoError(t, err)
	rows, err := task.Wait()
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, dash.State().Empty())

	points, err := deps.API.ListMeetupPoints(ctx)
	require.NoError(t, err)
	_, err = deps.API.CreateReport(ctx, api.CreateReportRequest{
		Title: "Blue umbrella", Description: "Room 204", Image: mustDataURI(t), MeetupPointID: points[0].ID,
	})
	require.NoError(t, err)

	task, err = dash.Load()
	require.NoError(t, err)
	rows, err = task.Wait()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Blue umbrella", rows[0].Title)
	assert.NotNil(t, rows[0].Thumbnail)
	assert.Equal(t, Succeeded, dash.State().Status)

	dash.Open(rows[0].ID)
	assert.Equal(t, []Event{ToReport{ReportID: rows[0].ID}}, rec.Events())
}

func TestDashboard_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Invalid or expired token"}`))
	}))
	defer ts.Close()
	deps, rec, _ := newDeps(t, ts.URL)

	dash := NewDashboard(deps)
	task, err := dash.Load()
	require.NoError(t, err)
	_, err = task.Wait()

	var screenErr *Error
	require.ErrorAs(t, err, &screenErr)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, []string{"Failed to load reports"}, rec.Toasts())
	assert.Equal(t, Failed, dash.State().Status)
	assert.Empty(t, rec.Events(), "no automatic logout")
}

func TestClose_DiscardsCompletion(t *testing.T) {
	arrived := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-r.Context().Done()
	}))
	defer ts.Close()
	deps, rec, _ := newDeps(t, ts.URL)

	dash := NewDashboard(deps)
	task, err := dash.Load()
	require.NoError(t, err)

	<-arrived
	dash.Close()

	_, err = task.Wait()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, rec.Toasts())
	assert.Equal(t, Loading, dash.State().Status, "state untouched after close")

	_, err = dash.Load()
	assert.ErrorIs(t, err, ErrClosed)
}

func mustDataURI(t *testing.T) string {
	t.Helper()
	uri, err := imaging.EncodeDataURI(image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)
	return uri
}
