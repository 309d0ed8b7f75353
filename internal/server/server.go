// Package server exposes the pickup point list, map viewport and resolver
// controls as a small JSON API next to the health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/pakketpunt/internal/catalog"
	"github.com/UnknownOlympus/pakketpunt/internal/models"
	"github.com/UnknownOlympus/pakketpunt/internal/service"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Points lists the catalog merged with the current cache contents.
type Points interface {
	Points(coords map[int]models.Coordinates) []models.PackagePoint
	Point(id int, coords *models.Coordinates) (models.PackagePoint, error)
}

// Coordinates exposes the resolved coordinates.
type Coordinates interface {
	Get(id int) (models.Coordinates, bool)
	Snapshot() map[int]models.Coordinates
}

// Resolver is the part of the geocoding service the API can trigger.
type Resolver interface {
	Start(ctx context.Context) error
	Running() bool
}

// Pinger checks the storage backend for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers' dependencies.
type Server struct {
	ctx      context.Context // ctx outlives requests and bounds background runs
	log      *slog.Logger
	points   Points
	cache    Coordinates
	resolver Resolver
	health   Pinger
	reg      *prometheus.Registry
}

// New creates a Server. ctx is handed to resolver runs started over HTTP.
func New(
	ctx context.Context,
	log *slog.Logger,
	points Points,
	cache Coordinates,
	resolver Resolver,
	health Pinger,
	reg *prometheus.Registry,
) *Server {
	return &Server{ctx: ctx, log: log, points: points, cache: cache, resolver: resolver, health: health, reg: reg}
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/points", s.listPoints).Methods(http.MethodGet)
	r.HandleFunc("/api/points/{id:[0-9]+}", s.getPoint).Methods(http.MethodGet)
	r.HandleFunc("/api/viewport", s.viewport).Methods(http.MethodGet)
	r.HandleFunc("/api/geocode", s.startGeocoding).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) currentPoints() []models.PackagePoint {
	return s.points.Points(s.cache.Snapshot())
}

func (s *Server) listPoints(w http.ResponseWriter, r *http.Request) {
	points := catalog.Filter(s.currentPoints(), r.URL.Query().Get("q"))
	s.writeJSON(r.Context(), w, http.StatusOK, points)
}

func (s *Server) getPoint(w http.ResponseWriter, r *http.Request) {
	point, err := s.lookup(mux.Vars(r)["id"])
	if err != nil {
		s.writeLookupError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, point)
}

func (s *Server) viewport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	points := catalog.Filter(s.currentPoints(), query.Get("q"))

	var selected *models.PackagePoint
	if raw := query.Get("selected"); raw != "" {
		point, err := s.lookup(raw)
		if err != nil {
			s.writeLookupError(r.Context(), w, err)
			return
		}
		selected = &point
	}

	s.writeJSON(r.Context(), w, http.StatusOK, catalog.NewViewport(points, selected))
}

func (s *Server) lookup(raw string) (models.PackagePoint, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return models.PackagePoint{}, fmt.Errorf("%w: %q", catalog.ErrUnknownPoint, raw)
	}

	var coords *models.Coordinates
	if cc, ok := s.cache.Get(id); ok {
		coords = &cc
	}

	return s.points.Point(id, coords)
}

func (s *Server) writeLookupError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrUnknownPoint) {
		s.writeError(ctx, w, http.StatusNotFound, "unknown package point")
		return
	}
	s.log.ErrorContext(ctx, "Package point lookup failed", "error", err)
	s.writeError(ctx, w, http.StatusInternalServerError, err.Error())
}

func (s *Server) startGeocoding(w http.ResponseWriter, r *http.Request) {
	err := s.resolver.Start(s.ctx)
	switch {
	case errors.Is(err, service.ErrAlreadyRunning):
		s.writeError(r.Context(), w, http.StatusConflict, err.Error())
	case err != nil:
		s.writeError(r.Context(), w, http.StatusInternalServerError, err.Error())
	default:
		s.log.InfoContext(r.Context(), "Geocoding run requested over HTTP")
		s.writeJSON(r.Context(), w, http.StatusAccepted, map[string]bool{"running": true})
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	s.log.DebugContext(r.Context(), "Performing health checks...")
	status, body := http.StatusOK, "OK"
	if err := s.health.Ping(r.Context()); err != nil {
		status, body = http.StatusServiceUnavailable, "cache backend ping failed"
	}
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		s.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}

	s.log.DebugContext(r.Context(), "Health checks completed", "status", status)
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.ErrorContext(ctx, "failed to write reply", "error", err)
	}
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	s.writeJSON(ctx, w, status, map[string]string{"error": msg})
}
