package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"guesthouse/internal/config"
	"guesthouse/internal/domain"
	"guesthouse/internal/export"
	"guesthouse/internal/metrics"
	"guesthouse/internal/reconciler"
	"guesthouse/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Reconciler triggers a reconciliation pass on demand.
type Reconciler interface {
	RunOnce(ctx context.Context) reconciler.Report
}

// HTTPServer is the management API surface: CRUD for rooms, guests and
// expenses, the analytics summary, the manual reconcile trigger, admin
// bulk actions, and the Excel export.
type HTTPServer struct {
	cfg        config.APIConfig
	rooms      *service.RoomService
	guests     *service.GuestService
	expenses   *service.ExpenseService
	analytics  *service.AnalyticsService
	admin      *service.AdminService
	exporter   *export.ExcelExporter
	reconciler Reconciler
	server     *http.Server
	auth       *HTTPAuth
	logger     zerolog.Logger
}

type Services struct {
	Rooms      *service.RoomService
	Guests     *service.GuestService
	Expenses   *service.ExpenseService
	Analytics  *service.AnalyticsService
	Admin      *service.AdminService
	Exporter   *export.ExcelExporter
	Reconciler Reconciler

	// Cache, when set, backs rate limiting with a shared counting window.
	Cache domain.CacheRepository
}

func NewHTTPServer(cfg config.APIConfig, svcs Services, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:        cfg,
		rooms:      svcs.Rooms,
		guests:     svcs.Guests,
		expenses:   svcs.Expenses,
		analytics:  svcs.Analytics,
		admin:      svcs.Admin,
		exporter:   svcs.Exporter,
		reconciler: svcs.Reconciler,
		auth:       NewHTTPAuth(cfg, svcs.Cache),
	}
	if logger != nil {
		srv.logger = logger.With().Str("component", "http_api").Logger()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/v1/rooms", srv.handleRooms)
	mux.HandleFunc("/api/v1/rooms/", srv.handleRoomByID)
	mux.HandleFunc("/api/v1/guests", srv.handleGuests)
	mux.HandleFunc("/api/v1/guests/", srv.handleGuestByID)
	mux.HandleFunc("/api/v1/expenses", srv.handleExpenses)
	mux.HandleFunc("/api/v1/expenses/", srv.handleExpenseByID)
	mux.HandleFunc("/api/v1/analytics/summary", srv.handleAnalyticsSummary)
	mux.HandleFunc("/api/v1/reconcile", srv.handleReconcile)
	mux.HandleFunc("/api/v1/admin", srv.handleAdmin)
	mux.HandleFunc("/api/v1/admin/password", srv.handleAdminPassword)
	mux.HandleFunc("/api/v1/export", srv.handleExport)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// idFromPath extracts the numeric ID segment after prefix, along with any
// trailing sub-path ("checkout").
func idFromPath(path, prefix string) (int64, string, error) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return 0, "", fmt.Errorf("id is required")
	}
	parts := strings.SplitN(rest, "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid id")
	}
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}
	return id, sub, nil
}
