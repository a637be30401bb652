package scene

import (
	"testing"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
)

func testScene(t *testing.T) *Scene {
	t.Helper()
	s := New("test")
	if _, err := s.AddCircle(parisCenter, 500); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPolygon(geo.Pt(48.86, 2.36), geo.Pt(48.86, 2.37), geo.Pt(48.87, 2.37)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddVehicle(geo.Pt(48.88, 2.33), routing.AccessRestricted); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddParkingLot(geo.Pt(48.84, 2.30), ""); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestValidateGraphValid(t *testing.T) {
	r := ValidateGraph(testScene(t).Snapshot())
	if !r.Valid {
		t.Errorf("expected valid graph, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings)
	}
}

func TestValidateGraphNil(t *testing.T) {
	if ValidateGraph(nil).Valid {
		t.Error("nil graph should be invalid")
	}
}

func TestValidateGraphDuplicateID(t *testing.T) {
	g := testScene(t).Snapshot()
	g.Vehicles[0].ID = g.Zones[0].ID
	r := ValidateGraph(g)
	if r.Valid {
		t.Fatal("expected duplicate ID to be an error")
	}
	if r.Errors[0].ConflictWith != string(EntityZone) {
		t.Errorf("expected conflict with zone, got %q", r.Errors[0].ConflictWith)
	}
}

func TestValidateGraphDanglingGroup(t *testing.T) {
	g := testScene(t).Snapshot()
	g.Groups[EntityVehicle] = append(g.Groups[EntityVehicle], "ghost")
	if ValidateGraph(g).Valid {
		t.Error("expected dangling group reference to be an error")
	}
}

func TestValidateGraphWrongGroup(t *testing.T) {
	g := testScene(t).Snapshot()
	g.Groups[EntityParkingLot] = append(g.Groups[EntityParkingLot], g.Zones[0].ID)
	if ValidateGraph(g).Valid {
		t.Error("expected zone listed as parking lot to be an error")
	}
}

func TestValidateGraphBounds(t *testing.T) {
	g := testScene(t).Snapshot()
	b := g.Metadata.Bounds
	if !b.Contains(parisCenter) || !b.Contains(geo.Pt(48.84, 2.30)) {
		t.Errorf("bounds %+v miss scene entities", b)
	}

	g.ParkingLots[0].Position = geo.Pt(10, 10)
	r := ValidateGraph(g)
	if len(r.Warnings) != 1 {
		t.Errorf("expected one bounds warning, got %v", r.Warnings)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	g := New("empty").Snapshot()
	if (g.Metadata.Bounds != BoundingBox{}) {
		t.Errorf("expected zero bounds, got %+v", g.Metadata.Bounds)
	}
	if len(g.Groups[EntityZone]) != 0 || g.Zones == nil {
		t.Error("expected empty, non-nil zone list")
	}
}
