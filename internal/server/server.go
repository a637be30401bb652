// Package server exposes the scene and routing decisions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/yusuferdem16/zero-emission/internal/directions"
	"github.com/yusuferdem16/zero-emission/internal/logger"
	"github.com/yusuferdem16/zero-emission/internal/metrics"
	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
	"github.com/yusuferdem16/zero-emission/pkg/scene"
	"github.com/yusuferdem16/zero-emission/pkg/spec"
	"github.com/yusuferdem16/zero-emission/pkg/validation"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

// Resolver turns decision legs into drawable paths.
type Resolver interface {
	Resolve(ctx context.Context, legs []routing.Leg) ([]directions.Path, error)
}

// Server is the HTTP API over one editable scene.
type Server struct {
	scene       *scene.Scene
	resolver    Resolver
	projectPath string
	port        int
	log         *slog.Logger
}

// New creates a server. projectPath may be empty, which disables saving.
func New(sc *scene.Scene, resolver Resolver, projectPath string, port int, log *slog.Logger) *Server {
	if log == nil {
		log = logger.L()
	}
	return &Server{
		scene:       sc,
		resolver:    resolver,
		projectPath: projectPath,
		port:        port,
		log:         log,
	}
}

// Handler returns the routed API with access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/scene", s.handleScene)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("POST /api/zones", s.handleAddZone)
	mux.HandleFunc("POST /api/zones/{id}/edits", s.handleEditZone)
	mux.HandleFunc("GET /api/zones/{id}/handles", s.handleZoneHandles)
	mux.HandleFunc("POST /api/vehicles", s.handleAddVehicle)
	mux.HandleFunc("PUT /api/vehicles/{id}/position", s.handleMoveVehicle)
	mux.HandleFunc("POST /api/parking-lots", s.handleAddParkingLot)
	mux.HandleFunc("PUT /api/parking-lots/{id}/position", s.handleMoveParkingLot)
	mux.HandleFunc("DELETE /api/entities/{id}", s.handleRemove)
	mux.HandleFunc("GET /api/hit", s.handleHit)
	mux.HandleFunc("POST /api/route", s.handleRoute)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return logger.AccessMiddleware(s.log)(mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("server_start", "addr", "http://localhost"+srv.Addr, "project", s.projectPath)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("server_stop")
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, zone.ErrInvalidGeometry):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, scene.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, routing.ErrUnknownAccessClass):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "decoding request: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Zero Emission Zones</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Zero Emission Zones</h1>
<p>API at <code>/api/scene</code>, metrics at <code>/metrics</code>.</p>
</div>
</body></html>`)
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.scene.Snapshot())
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	report := validation.ValidateScenario(s.scene.Scenario())
	report.Merge(scene.ValidateGraph(s.scene.Snapshot()))
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAddZone(w http.ResponseWriter, r *http.Request) {
	var def spec.ZoneDef
	if !decode(w, r, &def) {
		return
	}

	var (
		z   zone.Zone
		err error
	)
	switch def.Shape {
	case zone.ShapeCircle:
		if def.Center == nil {
			writeError(w, fmt.Errorf("circle has no center: %w", zone.ErrInvalidGeometry))
			return
		}
		z, err = s.scene.AddCircle(*def.Center, def.Radius)
	case zone.ShapePolygon:
		z, err = s.scene.AddPolygon(def.Points...)
	default:
		err = fmt.Errorf("unknown shape %q: %w", def.Shape, zone.ErrInvalidGeometry)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("zone_added", "zone", z.ZoneID(), "shape", z.Shape())
	writeJSON(w, http.StatusCreated, spec.FromZone(z))
}

type editRequest struct {
	Edits []spec.EditDef `json:"edits"`
}

func (s *Server) handleEditZone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req editRequest
	if !decode(w, r, &req) {
		return
	}
	edits, err := spec.Edits(req.Edits)
	if err != nil {
		writeError(w, err)
		return
	}

	z, err := s.scene.EditZone(id, edits...)
	if err != nil {
		var editErr *zone.EditError
		if errors.As(err, &editErr) {
			metrics.ZoneEditsTotal.WithLabelValues(editErr.Edit, "rejected").Inc()
			s.log.Warn("zone_edit_rejected", "zone", id, "edit", editErr.Edit, "reason", editErr.Reason)
		}
		writeError(w, err)
		return
	}
	for _, e := range edits {
		metrics.ZoneEditsTotal.WithLabelValues(e.Name(), "accepted").Inc()
	}
	writeJSON(w, http.StatusOK, spec.FromZone(z))
}

type vehicleRequest struct {
	Position geo.Point `json:"position"`
	Access   string    `json:"access"`
}

type handlesResponse struct {
	Resize    *geo.Point  `json:"resize,omitempty"`
	Midpoints []geo.Point `json:"midpoints,omitempty"`
}

// handleZoneHandles returns the drag handles an editor draws for a zone: the
// radius handle of a circle or the edge midpoints of a polygon.
func (s *Server) handleZoneHandles(w http.ResponseWriter, r *http.Request) {
	z, err := s.scene.Zone(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var resp handlesResponse
	switch v := z.(type) {
	case zone.Circle:
		h := v.ResizeHandle()
		resp.Resize = &h
	case zone.Polygon:
		resp.Midpoints = v.Midpoints()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if !decode(w, r, &req) {
		return
	}
	access, err := routing.ParseAccessClass(req.Access)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := s.scene.AddVehicle(req.Position, access)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, spec.FromVehicle(v))
}

type positionRequest struct {
	Position geo.Point `json:"position"`
}

func (s *Server) handleMoveVehicle(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.scene.MoveVehicle(r.PathValue("id"), req.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec.FromVehicle(v))
}

func (s *Server) handleAddParkingLot(w http.ResponseWriter, r *http.Request) {
	var req spec.ParkingLotDef
	if !decode(w, r, &req) {
		return
	}
	l, err := s.scene.AddParkingLot(req.Position, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, spec.FromParkingLot(l))
}

func (s *Server) handleMoveParkingLot(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !decode(w, r, &req) {
		return
	}
	l, err := s.scene.MoveParkingLot(r.PathValue("id"), req.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec.FromParkingLot(l))
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	et, err := s.scene.Remove(id)
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("entity_removed", "id", id, "type", et)
	w.WriteHeader(http.StatusNoContent)
}

type hitResponse struct {
	Point geo.Point      `json:"point"`
	Zones []spec.ZoneDef `json:"zones"`
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	p, err := parsePoint(r.URL.Query().Get("lat"), r.URL.Query().Get("lng"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	metrics.HitTestsTotal.Inc()

	resp := hitResponse{Point: p, Zones: []spec.ZoneDef{}}
	for _, z := range s.scene.ZonesAt(p) {
		resp.Zones = append(resp.Zones, spec.FromZone(z))
	}
	writeJSON(w, http.StatusOK, resp)
}

type routeRequest struct {
	VehicleID   string    `json:"vehicle_id"`
	Destination geo.Point `json:"destination"`
}

type routeResponse struct {
	Outcome  routing.Outcome  `json:"outcome"`
	Message  string           `json:"message,omitempty"`
	Decision routing.Decision `json:"decision"`
	Legs     []routing.Leg    `json:"legs"`
	Route    json.RawMessage  `json:"route"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if !decode(w, r, &req) {
		return
	}
	v, d, err := s.scene.Evaluate(req.VehicleID, req.Destination)
	if err != nil {
		writeError(w, err)
		return
	}
	outcome := d.Outcome()
	metrics.RouteDecisionsTotal.WithLabelValues(string(outcome)).Inc()
	s.log.Info("route_evaluated",
		"vehicle", v.ID,
		"outcome", outcome,
		"destination_in_zone", d.DestinationInZone,
		"path_crosses_zone", d.PathCrossesZone,
	)

	legs := d.Legs(v.Position)
	var paths []directions.Path
	if s.resolver != nil {
		paths, err = s.resolver.Resolve(r.Context(), legs)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		for _, l := range legs {
			paths = append(paths, directions.Path{Leg: l, Points: []geo.Point{l.From, l.To}, Fallback: true})
		}
	}

	fc, err := directions.FeatureCollection(v.Position, d, paths).MarshalJSON()
	if err != nil {
		writeError(w, err)
		return
	}
	if legs == nil {
		legs = []routing.Leg{}
	}
	writeJSON(w, http.StatusOK, routeResponse{
		Outcome:  outcome,
		Message:  directions.Message(d),
		Decision: d,
		Legs:     legs,
		Route:    fc,
	})
}

func (s *Server) handleSave(w http.ResponseWriter, _ *http.Request) {
	if s.projectPath == "" {
		writeJSON(w, http.StatusConflict, errorBody{Error: "server was started without a project directory"})
		return
	}
	path := spec.ProjectPath(s.projectPath)
	if err := spec.Save(path, s.scene.Scenario()); err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("scenario_saved", "path", path)
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func parsePoint(lat, lng string) (geo.Point, error) {
	if lat == "" || lng == "" {
		return geo.Point{}, errors.New("lat and lng query parameters are required")
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("lat: %w", err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("lng: %w", err)
	}
	p := geo.Pt(la, ln)
	if !p.IsFinite() {
		return geo.Point{}, fmt.Errorf("point %v is not finite", p)
	}
	return p, nil
}
