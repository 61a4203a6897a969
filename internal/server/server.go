// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz             liveness and build version
//	GET  /metrics             prometheus metrics
//	POST /v1/layout           solve a scene, respond with layout JSON
//	POST /v1/render/{format}  solve and render (svg, png, pdf, json)
//	POST /v1/graph/{format}   pull graph (dot, svg, png, pdf)
//
// Request bodies are the JSON form of [pipeline.Options] with the scene
// document inline under "scene".
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/magnet/pkg/buildinfo"
	"github.com/matzehuels/magnet/pkg/cache"
	merrors "github.com/matzehuels/magnet/pkg/errors"
	"github.com/matzehuels/magnet/pkg/pipeline"
	"github.com/matzehuels/magnet/pkg/render/dot"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Config configures a Server.
type Config struct {
	Cache        cache.Cache          // nil disables caching
	Keyer        cache.Keyer          // nil uses cache.DefaultKeyer
	Logger       *log.Logger          // nil discards
	Registry     *prometheus.Registry // nil creates a private registry
	MaxBodyBytes int64
}

// Server handles layout requests.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	maxBody  int64
	router   chi.Router
}

// New creates a server and registers its metrics as the process-wide
// observability hooks.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	s := &Server{
		runner:   pipeline.NewRunner(cfg.Cache, cfg.Keyer, logger),
		logger:   logger,
		metrics:  NewMetrics(reg),
		registry: reg,
		maxBody:  maxBody,
	}
	s.metrics.Install()
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
		r.Post("/graph/{format}", s.handleGraph)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close releases the runner's cache.
func (s *Server) Close() error { return s.runner.Close() }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	s.execute(w, r, opts, pipeline.FormatJSON)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format == pipeline.FormatDOT || pipeline.ValidateFormat(format) != nil {
		writeError(w, r, merrors.New(merrors.ErrCodeInvalidFormat, "unsupported render format %q", format))
		return
	}
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{format}
	s.execute(w, r, opts, format)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	switch format {
	case pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF:
	default:
		writeError(w, r, merrors.New(merrors.ErrCodeInvalidFormat, "unsupported graph format %q", format))
		return
	}
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatDOT}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	src := string(res.Artifacts[pipeline.FormatDOT])
	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(src)
	case pipeline.FormatSVG:
		data, err = dot.RenderSVG(src)
	case pipeline.FormatPNG:
		scale := opts.Scale
		if scale <= 0 {
			scale = pipeline.DefaultScale
		}
		data, err = dot.RenderPNG(src, scale)
	case pipeline.FormatPDF:
		data, err = dot.RenderPDF(src)
	}
	if err != nil {
		writeError(w, r, merrors.Wrap(merrors.ErrCodeInternal, err, "render graph %s", format))
		return
	}
	s.writeArtifact(w, res, format, data)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeArtifact(w, res, format, res.Artifacts[format])
}

func (s *Server) writeArtifact(w http.ResponseWriter, res *pipeline.Result, format string, data []byte) {
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Scene-Hash", res.SceneHash)
	if res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit {
		h.Set("X-Cache", "hit")
	} else {
		h.Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, r, merrors.Wrap(merrors.ErrCodeInvalidSyntax, err, "decode request"))
		return opts, false
	}
	if opts.Document == nil {
		writeError(w, r, merrors.New(merrors.ErrCodeInvalidInput, "scene is required"))
		return opts, false
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	return opts, true
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}
