// Package server exposes editor sessions and published posts over HTTP.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/notify"
	"github.com/debemdeboas/inkdraft/internal/repository"
	"github.com/debemdeboas/inkdraft/internal/routes"
	"github.com/debemdeboas/inkdraft/internal/session"
)

const DefaultAITimeout = 60 * time.Second

type Options struct {
	Sessions *session.Manager
	Hub      *notify.Hub
	Posts    repository.PostRepository
	Logger   zerolog.Logger

	// AITimeout bounds generate and improve requests.
	AITimeout time.Duration
	// MaxUploadBytes caps multipart image bodies.
	MaxUploadBytes int64

	// UploadDir, when set, is served at UploadURLPrefix.
	UploadDir       string
	UploadURLPrefix string
}

type Server struct {
	opts   Options
	logger zerolog.Logger
	router chi.Router
}

func New(opts Options) *Server {
	if opts.AITimeout <= 0 {
		opts.AITimeout = DefaultAITimeout
	}
	if opts.Hub == nil {
		opts.Hub = notify.NewHub()
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: config.HTTPErrMethodNotAllowed})
	})

	r.Get(routes.RobotsPath, serveRobots)
	r.Handle(routes.MetricsPath, promhttp.Handler())
	r.Get(routes.SyntaxThemeGet, serveSyntaxTheme)

	if s.opts.UploadDir != "" {
		prefix := s.opts.UploadURLPrefix
		if prefix == "" {
			prefix = config.UploadsUrlPath
		}
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(s.opts.UploadDir))))
	}

	r.Route(routes.APISessions, func(r chi.Router) {
		r.Use(noCache)
		r.Post("/", s.createSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/", s.viewSession)
			r.Patch("/", s.updateSession)
			r.Delete("/", s.closeSession)

			r.Post(routes.SessionDraft, s.saveDraft)
			r.Delete(routes.SessionDraft, s.clearDraft)

			r.Post(routes.SessionGenerate, s.generate)
			r.Post(routes.SessionImprove, s.improve)

			r.Post(routes.SessionUndo, s.undo)
			r.Post(routes.SessionRedo, s.redo)
			r.Post(routes.SessionKeys, s.handleKey)

			r.Delete(routes.SessionFeaturedImage, s.removeFeaturedImage)
			r.Post(routes.SessionImages, s.uploadImage)

			r.Get(routes.SessionPreview, s.preview)
			r.Get(routes.SessionExport, s.exportMarkdown)
			r.Post(routes.SessionPublish, s.publish)

			r.Get(routes.SessionEvents, s.events)
		})
	})

	r.Get(routes.APIPosts, s.listPosts)
	r.Get(routes.APIPost, s.readPost)

	return r
}

func serveRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("User-agent: *\nDisallow: /api/"))
}

// accessLog logs one line per request once the response is written.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("Request")
		}()

		next.ServeHTTP(ww, r)
	})
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")
		next.ServeHTTP(w, r)
	})
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		next.ServeHTTP(w, r)
	})
}
