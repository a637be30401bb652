package spec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

func TestLoadProject(t *testing.T) {
	s, err := LoadProject("../../examples/paris")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if s.SpecVersion != "0.1.0" {
		t.Errorf("spec_version = %q, want %q", s.SpecVersion, "0.1.0")
	}
	if len(s.Zones) != 2 {
		t.Fatalf("zones = %d, want 2", len(s.Zones))
	}

	zones, err := s.ZoneSet()
	if err != nil {
		t.Fatalf("ZoneSet failed: %v", err)
	}
	c, ok := zones[0].(zone.Circle)
	if !ok {
		t.Fatalf("zones[0] is %T, want zone.Circle", zones[0])
	}
	if c.Radius != 500 || c.Center != geo.Pt(48.8566, 2.3522) {
		t.Errorf("center zone = %+v", c)
	}
	if p, ok := zones[1].(zone.Polygon); !ok || p.Points.Len() != 4 {
		t.Errorf("zones[1] = %+v, want 4-point polygon", zones[1])
	}

	vehicles, err := s.VehicleSet()
	if err != nil {
		t.Fatalf("VehicleSet failed: %v", err)
	}
	if vehicles[0].Access != routing.AccessRestricted || vehicles[1].Access != routing.AccessAllowed {
		t.Errorf("unexpected access classes: %+v", vehicles)
	}

	lots := s.LotSet()
	if lots[0].Name != "Parking Nord" {
		t.Errorf("lots[0].Name = %q, want %q", lots[0].Name, "Parking Nord")
	}
	if lots[1].Name != "Parking 2" {
		t.Errorf("lots[1].Name = %q, want %q", lots[1].Name, "Parking 2")
	}
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("/nonexistent/path")
	if err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("zones: [::"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	center := geo.Pt(1, 2)
	in := &Scenario{
		Zones: []ZoneDef{
			{ID: "c", Shape: zone.ShapeCircle, Center: &center, Radius: 250},
		},
		Vehicles:    []VehicleDef{{ID: "v", Position: geo.Pt(3, 4), Access: "restricted"}},
		ParkingLots: []ParkingLotDef{{ID: "p", Position: geo.Pt(5, 6)}},
	}
	if err := Save(ProjectPath(dir), in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	out, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if out.SpecVersion != CurrentVersion {
		t.Errorf("spec_version = %q, want %q", out.SpecVersion, CurrentVersion)
	}
	if out.Zones[0].Center == nil || *out.Zones[0].Center != center || out.Zones[0].Radius != 250 {
		t.Errorf("zone did not survive save: %+v", out.Zones[0])
	}
	if out.ParkingLots[0].Position != geo.Pt(5, 6) {
		t.Errorf("lot did not survive save: %+v", out.ParkingLots[0])
	}
}

func TestZoneDefErrors(t *testing.T) {
	cases := []ZoneDef{
		{ID: "no-center", Shape: zone.ShapeCircle, Radius: 10},
		{ID: "zero-radius", Shape: zone.ShapeCircle, Center: &geo.Point{}, Radius: 0},
		{ID: "two-points", Shape: zone.ShapePolygon, Points: []geo.Point{{}, {Lat: 1}}},
		{ID: "hexagon", Shape: "hexagon"},
	}
	for _, d := range cases {
		if _, err := d.ToZone(); !errors.Is(err, zone.ErrInvalidGeometry) {
			t.Errorf("%s: expected ErrInvalidGeometry, got %v", d.ID, err)
		}
	}
}

func TestFromZoneRoundTrip(t *testing.T) {
	p, _ := zone.NewPolygon("p", geo.Pt(0, 0), geo.Pt(0, 1), geo.Pt(1, 1))
	back, err := FromZone(p).ToZone()
	if err != nil {
		t.Fatal(err)
	}
	if back.(zone.Polygon).Points[2] != geo.Pt(1, 1) {
		t.Errorf("polygon did not round trip: %+v", back)
	}
}

func TestVehicleDefUnknownAccess(t *testing.T) {
	if _, err := (VehicleDef{ID: "v", Access: "tank"}).ToVehicle(); err == nil {
		t.Error("expected error for unknown access class")
	}
}
