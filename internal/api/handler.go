// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	custom_errors "github-activity-dashboard/internal/errors"
	"github-activity-dashboard/internal/model"
)

var githubHandle = regexp.MustCompile(`^[A-Za-z0-9](?:-?[A-Za-z0-9])*$`)

// DashboardLoader produces the dashboard view for a GitHub account.
type DashboardLoader interface {
	Load(ctx context.Context, username string) (*model.DashboardData, error)
}

// Options tunes the router.
type Options struct {
	DefaultUsername string
	RateLimitRPS    float64
	RateLimitBurst  int
	RequestTimeout  time.Duration
}

// Handler is the container for API dependencies.
type Handler struct {
	loader          DashboardLoader
	logger          *slog.Logger
	validate        *validator.Validate
	defaultUsername string
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(loader DashboardLoader, logger *slog.Logger, opts Options) http.Handler {
	v := validator.New()
	_ = v.RegisterValidation("github_handle", func(fl validator.FieldLevel) bool {
		return githubHandle.MatchString(fl.Field().String())
	})

	h := &Handler{
		loader:          loader,
		logger:          logger,
		validate:        v,
		defaultUsername: opts.DefaultUsername,
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	if opts.RateLimitRPS > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), max(opts.RateLimitBurst, 1))))
	}

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/dashboard", h.getDefaultDashboard)
		r.Get("/dashboard/{username}", h.getDashboard)
	})

	return r
}

// rateLimit rejects requests once the shared token bucket is empty.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				respondWithError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getDashboard handles the request for a user's dashboard.
// GET /v1/dashboard/{username}
func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, chi.URLParam(r, "username"))
}

// getDefaultDashboard serves the dashboard of the configured account.
// GET /v1/dashboard
func (h *Handler) getDefaultDashboard(w http.ResponseWriter, r *http.Request) {
	if h.defaultUsername == "" {
		respondWithError(w, http.StatusBadRequest, "No default GitHub username configured")
		return
	}
	h.serveDashboard(w, r, h.defaultUsername)
}

func (h *Handler) serveDashboard(w http.ResponseWriter, r *http.Request, username string) {
	if err := h.validate.Var(username, "required,max=39,github_handle"); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid GitHub username")
		return
	}

	data, err := h.loader.Load(r.Context(), username)
	if err != nil {
		h.logger.Error("Failed to load dashboard",
			"username", username,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		switch {
		case custom_errors.IsRateLimited(err):
			respondWithError(w, http.StatusTooManyRequests, "GitHub API rate limit exceeded, try again later")
		case custom_errors.StatusOf(err) == http.StatusNotFound:
			respondWithError(w, http.StatusNotFound, "GitHub user not found")
		default:
			respondWithError(w, http.StatusBadGateway, "Failed to load dashboard from GitHub API")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, data)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
