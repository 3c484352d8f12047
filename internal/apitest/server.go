// Package apitest is an in-memory implementation of the Lost & Found REST API.
//
// It reproduces the production server's contract (status codes, JSON shapes,
// bcrypt passwords, 30-day HS256 tokens, image recompression) so the client
// and the screen controllers can be exercised end to end without a network.
// The lostfound mock-server command serves it for local demos.
package apitest

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
)

// DefaultTokenLifetime matches the production server's token expiry.
const DefaultTokenLifetime = 30 * 24 * time.Hour

// DefaultMeetupPoints are seeded into every new server.
var DefaultMeetupPoints = []api.MeetupPoint{
	{Name: "Main Lobby", Location: "Building A, Ground Floor"},
	{Name: "Library Front Desk", Location: "Building B, 1st Floor"},
	{Name: "Security Post", Location: "Main Gate"},
	{Name: "Student Center", Location: "Building C, 2nd Floor"},
	{Name: "Cafeteria", Location: "Building D"},
}

// Server is the fake API. It is safe for concurrent use.
type Server struct {
	store    *store
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
	logger   *slog.Logger
	validate *validator.Validate
	registry *prometheus.Registry
	metrics  *metrics
	router   chi.Router
}

// Option configures the server.
type Option func(*Server)

// WithSecret sets the HMAC key used to sign tokens.
func WithSecret(secret string) Option {
	return func(s *Server) {
		s.secret = []byte(secret)
	}
}

// WithTokenLifetime overrides how long issued tokens stay valid.
func WithTokenLifetime(d time.Duration) Option {
	return func(s *Server) {
		s.lifetime = d
	}
}

// WithClock overrides the time source for timestamps and token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMeetupPoints replaces the seeded meetup points.
func WithMeetupPoints(points []api.MeetupPoint) Option {
	return func(s *Server) {
		s.store = newStore(func() time.Time { return s.now() }, points)
	}
}

// New creates a server seeded with DefaultMeetupPoints.
func New(opts ...Option) *Server {
	s := &Server{
		secret:   []byte("lostfound-dev-secret"),
		lifetime: DefaultTokenLifetime,
		now:      time.Now,
		validate: validator.New(),
		registry: prometheus.NewRegistry(),
	}
	s.store = newStore(func() time.Time { return s.now() }, DefaultMeetupPoints)

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.metrics = newMetrics(s.registry)
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogging(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler())
	r.Use(s.metrics.middleware)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Get("/meetup-points", s.handleMeetupPoints)

			r.Get("/reports", s.handleListReports)
			r.Post("/reports", s.handleCreateReport)
			r.Get("/reports/search", s.handleSearchReports)
			r.Get("/reports/{id}", s.handleGetReport)
			r.Get("/reports/{id}/comments", s.handleListComments)
			r.Post("/reports/{id}/comments", s.handleAddComment)
		})
	})

	return r
}

// Start serves a new Server on a loopback httptest listener that is closed
// when the test ends.
func Start(tb testing.TB, opts ...Option) (*Server, *httptest.Server) {
	tb.Helper()
	s := New(opts...)
	ts := httptest.NewServer(s)
	tb.Cleanup(ts.Close)
	return s, ts
}
