package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"defnixsite/internal/app"
	"defnixsite/internal/ratelimit"
	"defnixsite/internal/util"
	"defnixsite/pkg/domain"
)

const apiPrefix = "/api/v1"

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                *app.App
	Web                http.Handler
	CORSOrigin         string
	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int
	TrustedProxies     *util.TrustedProxies
	UploadsDir         string
}

// Server exposes the public site, the JSON API and the admin dashboard.
type Server struct {
	app        *app.App
	web        http.Handler
	mux        *http.ServeMux
	corsOrigin string
	limiter    *ratelimit.FixedWindowLimiter
	trusted    *util.TrustedProxies
	uploadsDir string
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	limit := cfg.RateLimitPerMinute
	if limit <= 0 {
		limit = 60
	}
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(
		cfg.RedisAddr, cfg.RedisPassword, "defnix:api:ratelimit", limit, time.Minute)
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}
	s := &Server{
		app:        cfg.App,
		web:        cfg.Web,
		mux:        http.NewServeMux(),
		corsOrigin: cfg.CORSOrigin,
		limiter:    limiter,
		trusted:    cfg.TrustedProxies,
		uploadsDir: cfg.UploadsDir,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler with the middleware chain applied.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(
		util.WithCORS(s.corsOrigin, s.withRateLimit(s.mux)))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc(apiPrefix+"/auth/login", s.handleLogin)

	// blog
	s.mux.HandleFunc(apiPrefix+"/blog/posts", s.handlePosts)
	s.mux.HandleFunc(apiPrefix+"/blog/posts/", s.handlePostByPath)
	s.mux.HandleFunc(apiPrefix+"/blog/search", s.handleSearchPosts)
	s.mux.HandleFunc(apiPrefix+"/blog/tags", s.handleTags)
	s.mux.HandleFunc(apiPrefix+"/blog/categories", s.handleCategories)
	s.mux.Handle(apiPrefix+"/blog/admin/posts", s.adminOnly(s.handleAdminPosts))

	// leads
	s.mux.HandleFunc(apiPrefix+"/leads", s.handleLeads)
	s.mux.Handle(apiPrefix+"/leads/", s.adminOnly(s.handleLeadStatus))

	// newsletter
	s.mux.HandleFunc(apiPrefix+"/newsletter/subscribe", s.handleSubscribe)
	s.mux.HandleFunc(apiPrefix+"/newsletter/unsubscribe", s.handleUnsubscribe)
	s.mux.Handle(apiPrefix+"/newsletter/subscribers", s.adminOnly(s.handleSubscribers))

	// case studies
	s.mux.HandleFunc(apiPrefix+"/case-studies", s.handleCaseStudies)
	s.mux.HandleFunc(apiPrefix+"/case-studies/", s.handleCaseStudyByPath)

	// media
	s.mux.Handle(apiPrefix+"/media", s.adminOnly(s.handleMedia))
	s.mux.Handle(apiPrefix+"/media/", s.adminOnly(s.handleMediaByID))

	// analytics
	s.mux.HandleFunc(apiPrefix+"/analytics/events", s.handleAnalyticsEvents)
	s.mux.Handle(apiPrefix+"/analytics/summary", s.adminOnly(s.handleAnalyticsSummary))

	// seo
	s.mux.HandleFunc(apiPrefix+"/seo/sitemap.xml", s.handleSitemap)
	s.mux.HandleFunc(apiPrefix+"/seo/robots.txt", s.handleRobots)

	if s.uploadsDir != "" {
		s.mux.Handle("/uploads/", http.StripPrefix("/uploads/",
			http.FileServer(http.Dir(s.uploadsDir))))
	}
	if s.web != nil {
		s.mux.Handle("/", s.web)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withRateLimit applies one shared per-IP quota to the API surface.
// Rendered pages and static assets are not metered.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, apiPrefix+"/") {
			if !s.limiter.Allow(util.ClientIP(r, s.trusted)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type adminHandler func(http.ResponseWriter, *http.Request, domain.AdminUser)

func (s *Server) adminOnly(next adminHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.audit(r, "admin_access", "denied", "reason", "missing_token")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, ok := s.app.UserFromToken(token)
		if !ok {
			s.audit(r, "admin_access", "denied", "reason", "invalid_token")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if user.Role != "admin" {
			s.audit(r, "admin_access", "denied", "reason", "insufficient_role", "user", user.Email)
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r, s.trusted),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

// writeAppError maps service-layer errors onto HTTP responses.
func writeAppError(w http.ResponseWriter, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"code":   "REQUEST_VALIDATION_FAILED",
			"fields": verr.Fields,
		})
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrAlreadySubscribed):
		writeError(w, http.StatusConflict, err.Error())
	case app.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      errorCode(status, msg),
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}

func errorCode(status int, msg string) string {
	message := strings.ToLower(strings.TrimSpace(msg))
	switch {
	case message == "unauthorized":
		return "AUTH_INVALID_TOKEN"
	case message == "invalid credentials":
		return "AUTH_INVALID_CREDENTIALS"
	case message == "forbidden":
		return "AUTH_FORBIDDEN"
	case message == "rate limit exceeded":
		return "RATE_LIMIT_EXCEEDED"
	case message == "email is already subscribed":
		return "NEWSLETTER_ALREADY_SUBSCRIBED"
	case strings.HasSuffix(message, "not found"):
		return "RESOURCE_NOT_FOUND"
	case message == "invalid json body":
		return "REQUEST_INVALID_BODY"
	case message == "method not allowed":
		return "SYSTEM_METHOD_NOT_ALLOWED"
	}

	switch status {
	case http.StatusBadRequest:
		return "REQUEST_INVALID"
	case http.StatusUnauthorized:
		return "AUTH_INVALID_TOKEN"
	case http.StatusForbidden:
		return "AUTH_FORBIDDEN"
	case http.StatusNotFound:
		return "RESOURCE_NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "SYSTEM_METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "RESOURCE_CONFLICT"
	case http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	default:
		if status >= http.StatusInternalServerError {
			return "SYSTEM_INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}
