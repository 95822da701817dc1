package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hamed0406/pulseping/internal/domain"
	apimw "github.com/hamed0406/pulseping/internal/httpapi/middleware"
	"github.com/hamed0406/pulseping/internal/metrics"
	"github.com/hamed0406/pulseping/internal/stats"
)

const (
	defaultHours = 24
	maxHours     = 48
)

// WindowReader is the read side of the partition log. *pinglog.Store
// satisfies it.
type WindowReader interface {
	ReadWindow(ctx context.Context, window time.Duration) ([]domain.ProbeRecord, error)
	Ping(ctx context.Context) error
}

type Options struct {
	AllowedOrigins []string // default "*"
	APIKeys        []string // empty: no auth
	PublicRPM      int      // 0 disables rate limiting
	PublicBurst    int
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer // default prometheus.DefaultGatherer
	Now            func() time.Time
}

type Server struct {
	Logger *zap.Logger
	Reader WindowReader
	opts   Options
	reads  singleflight.Group
}

func NewServer(l *zap.Logger, reader WindowReader, opts Options) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{Logger: l, Reader: reader, opts: opts}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Method(http.MethodGet, "/healthz", s.healthHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.instrument)
		r.Use(apimw.RateLimit(s.opts.PublicRPM, s.opts.PublicBurst))
		r.Use(apimw.RequireKey(s.opts.APIKeys))

		r.Get("/status", s.handleStatus)
		r.Get("/api/status", s.handleStatus)
		r.Get("/status/summary", s.handleSummary)
		r.Get("/api/status/summary", s.handleSummary)
		r.Get("/status/export.csv", s.handleExport)
	})
	return r
}

func (s *Server) healthHandler() http.Handler {
	checker := health.NewChecker(
		health.WithCacheDuration(5*time.Second),
		health.WithTimeout(5*time.Second),
		health.WithCheck(health.Check{
			Name:  "blobstore",
			Check: s.Reader.Ping,
		}),
	)
	return health.NewHandler(checker)
}

// ParseHours clamps the hours query parameter: missing, non-numeric or
// outside (0, 48] gives 24.
func ParseHours(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultHours
	}
	h, err := strconv.Atoi(raw)
	if err != nil || h <= 0 || h > maxHours {
		return defaultHours
	}
	return h
}

// window reads once per hours value however many requests arrive together.
func (s *Server) window(ctx context.Context, hours int) ([]domain.ProbeRecord, error) {
	// Detached so one caller going away does not fail the others sharing the read.
	rctx := context.WithoutCancel(ctx)
	v, err, _ := s.reads.Do(strconv.Itoa(hours), func() (any, error) {
		return s.Reader.ReadWindow(rctx, time.Duration(hours)*time.Hour)
	})
	if err != nil {
		return nil, err
	}
	recs := v.([]domain.ProbeRecord)
	if recs == nil {
		recs = []domain.ProbeRecord{}
	}
	s.opts.Metrics.ObserveWindow(len(recs))
	return recs, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	hours := ParseHours(r.URL.Query().Get("hours"))
	recs, err := s.window(r.Context(), hours)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.WindowView{
		GeneratedAt: s.opts.Now().UTC(),
		PeriodHours: hours,
		TotalChecks: len(recs),
		Checks:      recs,
	})
}

type summaryResponse struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	PeriodHours   int                `json:"period_hours"`
	TotalChecks   int                `json:"total_checks"`
	OverallUptime float64            `json:"overall_uptime_percent"`
	URLs          []stats.URLSummary `json:"urls"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	hours := ParseHours(r.URL.Query().Get("hours"))
	recs, err := s.window(r.Context(), hours)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sums, err := stats.Summarize(recs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		GeneratedAt:   s.opts.Now().UTC(),
		PeriodHours:   hours,
		TotalChecks:   len(recs),
		OverallUptime: stats.OverallUptime(sums),
		URLs:          sums,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	hours := ParseHours(r.URL.Query().Get("hours"))
	recs, err := s.window(r.Context(), hours)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pulseping-%dh-export.csv"`, hours))
	if err := stats.WriteCSV(w, recs); err != nil {
		s.Logger.Warn("api_export_write_error", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("api_window_error", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read status log"})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		s.opts.Metrics.ObserveRequest(route, code)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
