package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
	"github.com/pressline/taskboard/pkg/usecase"
	"github.com/pressline/taskboard/pkg/utils/clock"
	"github.com/pressline/taskboard/pkg/utils/logging"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
	maxBodyBytes    = 1 << 20
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	clock  interfaces.Clock
}

type Options func(*Server)

// WithClock sets the clock used as "now" for workload snapshots
func WithClock(c interfaces.Clock) Options {
	return func(s *Server) {
		s.clock = c
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		clock:  clock.System{},
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(limitBody(maxBodyBytes))

	r.Route("/api", func(r chi.Router) {
		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", s.createAssignment)
			r.Get("/", s.listAssignments)
			r.Post("/bulk", s.bulkUpdate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getAssignment)
				r.Delete("/", s.deleteAssignment)
				r.Post("/assign", s.assignAssignment)
				r.Post("/status", s.updateStatus)
				r.Post("/suggestions", s.suggestCandidates)
			})
		})

		r.Get("/assignees/{id}/workload", s.getWorkload)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
