// Package server exposes the conversion service over HTTP.
//
// Three equivalent request shapes feed the same conversion primitive:
// a multipart upload (POST /convert), a JSON body with base64 content
// (POST /convert/json), and a JSON-RPC 2.0 envelope (POST /rpc).
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	pandocd "github.com/alnah/go-pandocd"
	"github.com/alnah/go-pandocd/internal/config"
)

// Converter is the slice of the conversion service the HTTP layer needs.
// Stubbed in tests.
type Converter interface {
	Convert(ctx context.Context, in pandocd.Input) (*pandocd.Result, error)
	Formats(ctx context.Context) (*pandocd.FormatList, error)
	Version(ctx context.Context) (string, error)
}

// Server routes HTTP requests to the conversion service.
type Server struct {
	log     logrus.FieldLogger
	cfg     *config.Config
	conv    Converter
	pool    *pandocd.Pool
	version string
	metrics *metrics
	reg     *prometheus.Registry
}

// New creates a Server. version is the build version reported on "/".
func New(log logrus.FieldLogger, cfg *config.Config, conv Converter, pool *pandocd.Pool, version string) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		log:     log,
		cfg:     cfg,
		conv:    conv,
		pool:    pool,
		version: version,
		metrics: newMetrics(reg),
		reg:     reg,
	}
}

// Routes builds the router with all endpoints and middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	// Allow-all CORS so browser clients can call the JSON and RPC
	// adapters cross-origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)
	r.Get("/formats", s.handleFormats)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	// Conversion routes get the rate limiter; informational routes do not.
	r.Group(func(r chi.Router) {
		if s.cfg.Server.RateLimit.Requests > 0 {
			r.Use(httprate.LimitByIP(s.cfg.Server.RateLimit.Requests, s.cfg.RateLimitWindow()))
		}
		r.Post("/convert", s.handleConvertUpload)
		r.Post("/convert/json", s.handleConvertJSON)
		r.Post("/rpc", s.handleRPC)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
