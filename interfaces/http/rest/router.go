package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tweetbloom/application/ports"
	_ "tweetbloom/docs"
	"tweetbloom/infrastructure/config"
	"tweetbloom/interfaces/http/rest/handlers"
	"tweetbloom/interfaces/http/rest/middleware"
	"tweetbloom/pkg/auth"
	pkgerrors "tweetbloom/pkg/errors"
	"tweetbloom/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Route classes share one limit each
const (
	ClassChat      = "chat"
	ClassEvaluate  = "evaluate"
	ClassSummarize = "summarize"
	ClassCombine   = "combine"
	ClassRead      = "read"
	ClassWrite     = "write"
	ClassGlobal    = "global"
)

// LimiterFactory builds the limiter of one route class
type LimiterFactory func(class string, perMinute int) auth.RateLimiter

// Router creates and configures the HTTP router
type Router struct {
	conversations *handlers.ConversationHandler
	notes         *handlers.NoteHandler
	tags          *handlers.TagHandler
	folders       *handlers.FolderHandler
	settings      *handlers.SettingsHandler

	verifier    auth.TokenVerifier
	newLimiter  LimiterFactory
	limits      config.RateLimits
	health      ports.HealthChecker
	metrics     *observability.Collector
	errors      *pkgerrors.ErrorHandler
	corsOrigins []string
	logger      *zap.Logger
}

// RouterDeps groups what NewRouter wires together
type RouterDeps struct {
	Conversations *handlers.ConversationHandler
	Notes         *handlers.NoteHandler
	Tags          *handlers.TagHandler
	Folders       *handlers.FolderHandler
	Settings      *handlers.SettingsHandler
	Verifier      auth.TokenVerifier
	NewLimiter    LimiterFactory
	Limits        config.RateLimits
	Health        ports.HealthChecker
	// Metrics is nil when metrics are disabled
	Metrics     *observability.Collector
	Errors      *pkgerrors.ErrorHandler
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(deps RouterDeps) *Router {
	return &Router{
		conversations: deps.Conversations,
		notes:         deps.Notes,
		tags:          deps.Tags,
		folders:       deps.Folders,
		settings:      deps.Settings,
		verifier:      deps.Verifier,
		newLimiter:    deps.NewLimiter,
		limits:        deps.Limits,
		health:        deps.Health,
		metrics:       deps.Metrics,
		errors:        deps.Errors,
		corsOrigins:   deps.CORSOrigins,
		logger:        deps.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errors.Middleware)
	if rt.metrics != nil {
		router.Use(rt.metrics.Middleware)
	}

	origins := rt.corsOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.Handle(w, r, pkgerrors.NewNotFoundError("route"))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}
	router.Get("/swagger/doc.json", rt.swaggerDoc)

	limit := func(class string, perMinute int, key middleware.KeyFunc) func(http.Handler) http.Handler {
		return middleware.RateLimit(class, perMinute, rt.newLimiter(class, perMinute), key, rt.errors, rt.logger)
	}
	chat := limit(ClassChat, rt.limits.Chat, middleware.ByUser)
	evaluate := limit(ClassEvaluate, rt.limits.Evaluate, middleware.ByUser)
	summarize := limit(ClassSummarize, rt.limits.Summarize, middleware.ByUser)
	combine := limit(ClassCombine, rt.limits.Combine, middleware.ByUser)
	read := limit(ClassRead, rt.limits.Read, middleware.ByUser)
	write := limit(ClassWrite, rt.limits.Write, middleware.ByUser)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(limit(ClassGlobal, rt.limits.Global, middleware.ByIP))
		r.Use(middleware.Authenticate(rt.verifier, rt.errors, rt.logger))

		r.Route("/conversations", func(r chi.Router) {
			r.With(chat).Post("/", rt.conversations.SubmitTurn)
			r.With(read).Get("/", rt.conversations.List)
			r.With(evaluate).Post("/evaluate", rt.conversations.Evaluate)
			r.With(chat).Post("/continue", rt.conversations.Continue)
			r.With(read).Get("/{id}", rt.conversations.Get)
			r.With(write).Patch("/{id}", rt.conversations.Update)
			r.With(write).Delete("/{id}", rt.conversations.Delete)
		})

		r.Route("/notes", func(r chi.Router) {
			r.With(read).Get("/", rt.notes.List)
			r.With(write).Post("/", rt.notes.Create)
			r.With(summarize).Post("/summarize", rt.notes.Summarize)
			r.With(combine).Post("/combine", rt.notes.Combine)
			r.With(write).Patch("/{id}", rt.notes.Update)
			r.With(write).Delete("/{id}", rt.notes.Delete)
		})

		r.Route("/tags", func(r chi.Router) {
			r.With(read).Get("/", rt.tags.List)
			r.With(write).Post("/", rt.tags.Create)
			r.With(write).Patch("/{id}", rt.tags.Update)
			r.With(write).Delete("/{id}", rt.tags.Delete)
		})

		r.Route("/folders", func(r chi.Router) {
			r.With(read).Get("/", rt.folders.List)
			r.With(write).Post("/", rt.folders.Create)
			r.With(write).Patch("/{id}", rt.folders.Rename)
			r.With(write).Delete("/{id}", rt.folders.Delete)
		})

		r.With(read).Get("/settings", rt.settings.Get)
		r.With(write).Put("/settings", rt.settings.Update)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, "healthy")
}

// readinessCheck reports ready once the store answers
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := rt.health.Ping(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	writeStatus(w, http.StatusOK, "ready")
}

func (rt *Router) swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		rt.errors.Handle(w, r, pkgerrors.NewInternalError("swagger document unavailable").WithCause(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
