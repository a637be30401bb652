package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yusuferdem16/zero-emission/internal/config"
	"github.com/yusuferdem16/zero-emission/internal/directions"
	"github.com/yusuferdem16/zero-emission/internal/directions/rediscache"
	"github.com/yusuferdem16/zero-emission/internal/logger"
	"github.com/yusuferdem16/zero-emission/internal/osm"
	"github.com/yusuferdem16/zero-emission/internal/server"
	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/scene"
	"github.com/yusuferdem16/zero-emission/pkg/spec"
	"github.com/yusuferdem16/zero-emission/pkg/validation"
)

var errInvalidScenario = errors.New("scenario has validation errors")

// loadAndValidate loads the scenario and runs schema validation.
func loadAndValidate(projectPath string) (*spec.Scenario, *validation.Report, error) {
	s, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading scenario: %w", err)
	}
	return s, validation.ValidateScenario(s), nil
}

// loadScene loads a valid scenario into a scene, printing the report if it
// is invalid.
func loadScene(w io.Writer, projectPath string) (*scene.Scene, error) {
	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		printValidationReport(w, report)
		return nil, errInvalidScenario
	}
	return scene.FromScenario(s)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// parseLatLng reads "lat,lng".
func parseLatLng(s string) (geo.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("point %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return geo.Point{}, fmt.Errorf("point %q: out of range", s)
	}
	return geo.Pt(lat, lng), nil
}

func runValidate(w io.Writer, projectPath string) error {
	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if report.Valid {
		sc, err := scene.FromScenario(s)
		if err != nil {
			return err
		}
		report.Merge(scene.ValidateGraph(sc.Snapshot()))
	}

	printValidationReport(w, report)

	if !report.Valid {
		return errInvalidScenario
	}
	return nil
}

type routeOptions struct {
	vehicleID string
	to        string
	geoJSON   bool
	resolve   bool
}

// openCache returns the Redis cache when one is configured and reachable,
// otherwise an in-process cache.
func openCache(ctx context.Context, cfg *config.Config) (directions.Cache, func()) {
	c := rediscache.Open(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CacheTTL)
	if c == nil {
		return directions.NewMemoryCache(), func() {}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		logger.L().Warn("redis_unreachable", "addr", cfg.RedisAddr, "err", err)
		c.Close()
		return directions.NewMemoryCache(), func() {}
	}
	return c, func() { c.Close() }
}

// newDirections builds the directions client over openCache.
func newDirections(ctx context.Context, cfg *config.Config) (*directions.Client, func()) {
	cache, cleanup := openCache(ctx, cfg)
	client := directions.New(cfg.DirectionsURL, cfg.ORSAPIKey, cfg.DirectionsTimeout,
		directions.WithLogger(logger.L()), directions.WithCache(cache))
	return client, cleanup
}

func runRoute(ctx context.Context, w io.Writer, projectPath string, opts routeOptions) error {
	dest, err := parseLatLng(opts.to)
	if err != nil {
		return err
	}
	sc, err := loadScene(w, projectPath)
	if err != nil {
		return err
	}

	v, d, err := sc.Evaluate(opts.vehicleID, dest)
	if err != nil {
		return err
	}
	logger.L().Debug("route_evaluated", "vehicle", v.ID, "outcome", d.Outcome())

	legs := d.Legs(v.Position)
	var paths []directions.Path
	if opts.resolve {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, cleanup := newDirections(ctx, cfg)
		defer cleanup()
		if paths, err = client.Resolve(ctx, legs); err != nil {
			return err
		}
	} else {
		for _, l := range legs {
			paths = append(paths, directions.Path{Leg: l, Points: []geo.Point{l.From, l.To}, Fallback: true})
		}
	}

	if opts.geoJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(directions.FeatureCollection(v.Position, d, paths))
	}
	printDecision(w, v, d, paths)
	return nil
}

func runEdit(w io.Writer, projectPath, zoneID, editsFile string, write bool) error {
	data, err := os.ReadFile(editsFile)
	if err != nil {
		return fmt.Errorf("reading edits: %w", err)
	}
	var defs []spec.EditDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parsing edits YAML: %w", err)
	}
	edits, err := spec.Edits(defs)
	if err != nil {
		return err
	}

	sc, err := loadScene(w, projectPath)
	if err != nil {
		return err
	}
	z, err := sc.EditZone(zoneID, edits...)
	if err != nil {
		printValidationReport(w, rejectionReport(err))
		return err
	}
	printZone(w, spec.FromZone(z))

	if write {
		path := spec.ProjectPath(projectPath)
		if err := spec.Save(path, sc.Scenario()); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s\n", path)
	}
	return nil
}

func rejectionReport(err error) *validation.Report {
	r := validation.NewReport()
	r.AddError(validation.EditRejection(err))
	return r
}

func runHit(w io.Writer, projectPath, at string) error {
	p, err := parseLatLng(at)
	if err != nil {
		return err
	}
	sc, err := loadScene(w, projectPath)
	if err != nil {
		return err
	}
	zones := sc.ZonesAt(p)
	if len(zones) == 0 {
		fmt.Fprintf(w, "%s is outside every zone\n", formatPoint(p))
		return nil
	}
	fmt.Fprintf(w, "%s is inside %d zone(s):\n", formatPoint(p), len(zones))
	for _, z := range zones {
		printZone(w, spec.FromZone(z))
	}
	return nil
}

func runImportParking(ctx context.Context, w io.Writer, projectPath, bbox string, write bool) error {
	b, err := osm.ParseBBox(bbox)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := loadScene(w, projectPath)
	if err != nil {
		return err
	}

	lots, err := osm.NewImporter(cfg.OverpassURL, cfg.DirectionsTimeout*3).Parking(ctx, b)
	if err != nil {
		return err
	}
	logger.L().Info("parking_imported", "count", len(lots), "bbox", b.String())

	for _, l := range lots {
		added, err := sc.AddParkingLot(l.Position, l.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-28s %s  (%s)\n", added.Name, formatPoint(added.Position), l.ID)
	}
	fmt.Fprintf(w, "Imported %d parking lot(s)\n", len(lots))

	if write {
		path := spec.ProjectPath(projectPath)
		if err := spec.Save(path, sc.Scenario()); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s\n", path)
	}
	return nil
}

func runServe(ctx context.Context, projectPath string, port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Port
	}
	sc, err := loadScene(os.Stdout, projectPath)
	if err != nil {
		return err
	}
	client, cleanup := newDirections(ctx, cfg)
	defer cleanup()

	return server.New(sc, client, projectPath, port, logger.L()).Start(ctx)
}
