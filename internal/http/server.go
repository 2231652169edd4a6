// Package http exposes the REST surface: transaction and budget CRUD plus
// derived analytics views.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/cache"
	"fintrack/internal/store"
)

func init() {
	// Monetary amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Server struct {
	http.Server

	backend     store.Backend
	rateLimiter *rateLimiter

	// Derived analytics are cached between mutations; any successful
	// write purges the whole cache.
	analyticsCache *cache.LRU[json.RawMessage]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, backend store.Backend) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		backend:        backend,
		rateLimiter:    newRateLimiter(),
		analyticsCache: cache.NewLRU[json.RawMessage](100, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}
	s.cacheManager.Register(s.analyticsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("POST /transactions", s.wrap(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions/{id}", s.wrap(s.handleGetTransaction))
	mux.HandleFunc("PUT /transactions/{id}", s.wrap(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("GET /budgets", s.wrap(s.handleListBudgets))
	mux.HandleFunc("POST /budgets", s.wrap(s.handleUpsertBudget))

	mux.HandleFunc("GET /categories", s.wrap(s.handleListCategories))

	mux.HandleFunc("GET /analytics/summary", s.wrap(s.cached(s.handleSummary)))
	mux.HandleFunc("GET /analytics/monthly", s.wrap(s.cached(s.handleMonthlySeries)))
	mux.HandleFunc("GET /analytics/breakdown", s.wrap(s.cached(s.handleBreakdown)))
	mux.HandleFunc("GET /analytics/budget-comparison", s.wrap(s.cached(s.handleBudgetComparison)))
	mux.HandleFunc("GET /analytics/report", s.wrap(s.cached(s.handleSpendingReport)))
	mux.HandleFunc("GET /analytics/insights", s.wrap(s.cached(s.handleInsights)))
	mux.HandleFunc("GET /analytics/years", s.wrap(s.cached(s.handleYears)))

	return s
}

// Shutdown stops background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// wrap adds request tracing, security headers and rate limiting around a
// handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := clientIP(r)
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if mutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// cached serves analytics responses from the LRU, keyed by path and query.
func (s *Server) cached(next func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path + "?" + r.URL.RawQuery
		if body, ok := s.analyticsCache.Get(key); ok {
			slog.DebugContext(r.Context(), "Analytics cache hit", "key", key)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(body)
			return
		}

		data, err := next(r)
		if err != nil {
			respondStoreError(w, r, err, "Failed to compute analytics")
			return
		}

		body, err := json.Marshal(data)
		if err != nil {
			slog.ErrorContext(r.Context(), "Analytics marshal error", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to compute analytics")
			return
		}
		s.analyticsCache.Set(key, body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

// invalidateAnalytics drops every cached derivation. Called after any
// successful mutation.
func (s *Server) invalidateAnalytics() {
	s.analyticsCache.Purge()
}

type contextKey string

const requestIDKey contextKey = "request_id"

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
