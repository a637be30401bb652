package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yusuferdem16/zero-emission/internal/config"
	"github.com/yusuferdem16/zero-emission/internal/directions"
	"github.com/yusuferdem16/zero-emission/pkg/spec"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

const parisProject = "../../examples/paris"

// copyProject copies the paris example into a temp dir so tests may write it.
func copyProject(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(spec.ProjectPath(parisProject))
	if err != nil {
		t.Fatalf("reading example: %v", err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(spec.ProjectPath(dir), data, 0o644); err != nil {
		t.Fatalf("writing copy: %v", err)
	}
	return dir
}

func writeEdits(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "edits.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing edits: %v", err)
	}
	return path
}

func TestParseLatLng(t *testing.T) {
	p, err := parseLatLng(" 48.85, 2.35 ")
	if err != nil {
		t.Fatalf("parseLatLng: %v", err)
	}
	if p.Lat != 48.85 || p.Lng != 2.35 {
		t.Errorf("got %+v", p)
	}

	for _, bad := range []string{"", "48.85", "a,b", "1,2,3", "91,0", "0,181"} {
		if _, err := parseLatLng(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestRunValidate(t *testing.T) {
	var buf bytes.Buffer
	if err := runValidate(&buf, parisProject); err != nil {
		t.Fatalf("runValidate: %v\n%s", err, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "Result: VALID") {
		t.Errorf("expected VALID, got:\n%s", out)
	}
	if !strings.Contains(out, "Parking 2") {
		t.Errorf("expected info about the unnamed lot, got:\n%s", out)
	}
}

func TestRunValidateInvalid(t *testing.T) {
	dir := t.TempDir()
	body := `spec_version: "0.1.0"
zones:
  - id: z
    shape: circle
    center: {lat: 48.85, lng: 2.35}
    radius: 0
vehicles: []
parking_lots: []
`
	if err := os.WriteFile(spec.ProjectPath(dir), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err := runValidate(&buf, dir)
	if !errors.Is(err, errInvalidScenario) {
		t.Fatalf("expected errInvalidScenario, got %v", err)
	}
	if !strings.Contains(buf.String(), "Result: INVALID") {
		t.Errorf("expected INVALID, got:\n%s", buf.String())
	}
}

func TestRunRouteUnresolved(t *testing.T) {
	var buf bytes.Buffer
	err := runRoute(context.Background(), &buf, parisProject, routeOptions{
		vehicleID: "delivery-van",
		to:        "48.8566,2.3522",
	})
	if err != nil {
		t.Fatalf("runRoute: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Outcome:      unresolved") {
		t.Errorf("expected unresolved outcome, got:\n%s", out)
	}
	if !strings.Contains(out, "destination in zone: true") {
		t.Errorf("expected destination-in-zone reason, got:\n%s", out)
	}
}

func TestRunRouteDirectGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	err := runRoute(context.Background(), &buf, parisProject, routeOptions{
		vehicleID: "e-bike",
		to:        "48.8566,2.3522",
		geoJSON:   true,
	})
	if err != nil {
		t.Fatalf("runRoute: %v", err)
	}
	var fc struct {
		Type     string `json:"type"`
		Outcome  string `json:"outcome"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, buf.String())
	}
	if fc.Type != "FeatureCollection" || fc.Outcome != "direct" {
		t.Errorf("unexpected collection %s/%s", fc.Type, fc.Outcome)
	}
	// one leg, start and destination markers
	if len(fc.Features) != 3 {
		t.Errorf("expected 3 features, got %d", len(fc.Features))
	}
}

func TestRunRouteUnknownVehicle(t *testing.T) {
	var buf bytes.Buffer
	err := runRoute(context.Background(), &buf, parisProject, routeOptions{vehicleID: "ghost", to: "48.85,2.35"})
	if err == nil {
		t.Fatal("expected error for unknown vehicle")
	}
}

func TestRunHit(t *testing.T) {
	var buf bytes.Buffer
	if err := runHit(&buf, parisProject, "48.8566,2.3522"); err != nil {
		t.Fatalf("runHit: %v", err)
	}
	if !strings.Contains(buf.String(), "inside 1 zone(s)") || !strings.Contains(buf.String(), "center") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	if err := runHit(&buf, parisProject, "48.80,2.20"); err != nil {
		t.Fatalf("runHit: %v", err)
	}
	if !strings.Contains(buf.String(), "outside every zone") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunEditWrite(t *testing.T) {
	dir := copyProject(t)
	edits := writeEdits(t, dir, "- op: resize\n  radius: 800\n")

	var buf bytes.Buffer
	if err := runEdit(&buf, dir, "center", edits, true); err != nil {
		t.Fatalf("runEdit: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "radius 800m") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	s, err := spec.LoadProject(dir)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if z := s.ZoneByID("center"); z == nil || z.Radius != 800 {
		t.Errorf("expected saved radius 800, got %+v", z)
	}
	if v := s.VehicleByID("delivery-van"); v == nil || v.Access != "restricted" {
		t.Errorf("expected delivery-van to survive the save, got %+v", v)
	}
}

func TestRunEditRejected(t *testing.T) {
	dir := copyProject(t)
	edits := writeEdits(t, dir, "- op: remove_point\n  index: 0\n- op: remove_point\n  index: 0\n")

	var buf bytes.Buffer
	err := runEdit(&buf, dir, "marais", edits, true)
	if !errors.Is(err, zone.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if !strings.Contains(buf.String(), "zones.marais") {
		t.Errorf("expected rejection report, got:\n%s", buf.String())
	}

	s, err := spec.LoadProject(dir)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if z := s.ZoneByID("marais"); z == nil || len(z.Points) != 4 {
		t.Errorf("rejected edit must not be saved, got %+v", z)
	}
}

func TestRunEditUnknownOp(t *testing.T) {
	dir := copyProject(t)
	edits := writeEdits(t, dir, "- op: explode\n")
	var buf bytes.Buffer
	if err := runEdit(&buf, dir, "center", edits, false); err == nil {
		t.Fatal("expected error for unknown op")
	}
}

func TestOpenCacheFallsBackToMemory(t *testing.T) {
	for _, addr := range []string{"", "127.0.0.1:1"} {
		cache, cleanup := openCache(context.Background(), &config.Config{RedisAddr: addr, CacheTTL: time.Hour})
		if _, ok := cache.(*directions.MemoryCache); !ok {
			t.Errorf("addr %q: expected memory cache, got %T", addr, cache)
		}
		cleanup()
	}
}
