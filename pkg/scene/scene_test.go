package scene

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
	"github.com/yusuferdem16/zero-emission/pkg/spec"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

var parisCenter = geo.Pt(48.8566, 2.3522)

func TestAddCircleDefaultRadius(t *testing.T) {
	s := New("test")
	c, err := s.AddCircle(parisCenter, 0)
	if err != nil {
		t.Fatalf("AddCircle failed: %v", err)
	}
	if c.Radius != zone.DefaultRadius {
		t.Errorf("expected radius %v, got %v", zone.DefaultRadius, c.Radius)
	}
	if c.ID == "" {
		t.Error("expected a generated ID")
	}

	other, _ := s.AddCircle(parisCenter, 200)
	if other.ID == c.ID {
		t.Error("expected distinct IDs")
	}
}

func TestAddCircleRejectsNegativeRadius(t *testing.T) {
	s := New("test")
	if _, err := s.AddCircle(parisCenter, -1); !errors.Is(err, zone.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
	if len(s.Zones()) != 0 {
		t.Error("rejected zone should not be stored")
	}
}

func TestAddPolygonRejectsShortRing(t *testing.T) {
	s := New("test")
	_, err := s.AddPolygon(geo.Pt(0, 0), geo.Pt(0, 1))
	if !errors.Is(err, zone.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
	if len(s.Zones()) != 0 {
		t.Error("rejected zone should not be stored")
	}
}

func TestAddParkingLotDefaultNames(t *testing.T) {
	s := New("test")
	a, _ := s.AddParkingLot(geo.Pt(48.87, 2.35), "")
	b, _ := s.AddParkingLot(geo.Pt(48.88, 2.35), "Gare du Nord")
	c, _ := s.AddParkingLot(geo.Pt(48.89, 2.35), "")

	if a.Name != "Parking 1" {
		t.Errorf("expected Parking 1, got %q", a.Name)
	}
	if b.Name != "Gare du Nord" {
		t.Errorf("expected given name, got %q", b.Name)
	}
	if c.Name != "Parking 3" {
		t.Errorf("expected Parking 3, got %q", c.Name)
	}
}

func TestAddVehicleRejectsUnknownAccess(t *testing.T) {
	s := New("test")
	if _, err := s.AddVehicle(geo.Pt(48.87, 2.33), "diesel"); err == nil {
		t.Error("expected error for unknown access class")
	}
}

func TestAddVehicleNormalisesLegacyAccess(t *testing.T) {
	s := New("test")
	s.AddCircle(parisCenter, 500)
	for _, access := range []routing.AccessClass{"notAllowed", "not_allowed", "Restricted"} {
		v, err := s.AddVehicle(geo.Pt(48.8580, 2.3300), access)
		if err != nil {
			t.Fatalf("AddVehicle(%q) failed: %v", access, err)
		}
		if v.Access != routing.AccessRestricted {
			t.Errorf("expected %q stored as restricted, got %q", access, v.Access)
		}
		_, d, err := s.Evaluate(v.ID, geo.Pt(48.8580, 2.3800))
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if !d.PathCrossesZone || d.Outcome() == routing.OutcomeDirect {
			t.Errorf("%q vehicle crossing the zone should not go direct, got %s", access, d.Outcome())
		}
	}
}

func TestEditZoneRejectionKeepsZone(t *testing.T) {
	s := New("test")
	tri, _ := s.AddPolygon(geo.Pt(48.85, 2.35), geo.Pt(48.86, 2.35), geo.Pt(48.86, 2.36))

	got, err := s.EditZone(tri.ID, zone.RemovePoint{Index: 0})
	if !errors.Is(err, zone.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if p, ok := got.(zone.Polygon); !ok || p.Points.Len() != 3 {
		t.Errorf("expected the original triangle back, got %+v", got)
	}

	stored, _ := s.Zone(tri.ID)
	if stored.(zone.Polygon).Points.Len() != 3 {
		t.Error("stored zone changed after rejected edit")
	}
}

func TestEditZoneNotFound(t *testing.T) {
	s := New("test")
	if _, err := s.EditZone("missing", zone.Resize{Radius: 10}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEditZoneReindexes(t *testing.T) {
	s := New("test")
	c, _ := s.AddCircle(parisCenter, 300)
	moved := geo.Pt(48.90, 2.40)

	if _, err := s.EditZone(c.ID, zone.MoveCenter{Center: moved}); err != nil {
		t.Fatalf("EditZone failed: %v", err)
	}
	if got := s.ZonesAt(parisCenter); len(got) != 0 {
		t.Errorf("expected no zone at old center, got %d", len(got))
	}
	if got := s.ZonesAt(moved); len(got) != 1 {
		t.Errorf("expected one zone at new center, got %d", len(got))
	}
	if s.index.size() != 1 {
		t.Errorf("expected 1 index entry, got %d", s.index.size())
	}
}

// populate fills a scene with a grid of alternating circles and squares.
func populate(t testing.TB, s *Scene, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			lat := 48.80 + float64(i)*0.01
			lng := 2.30 + float64(j)*0.01
			var err error
			if (i+j)%2 == 0 {
				_, err = s.AddCircle(geo.Pt(lat, lng), 400)
			} else {
				_, err = s.AddPolygon(
					geo.Pt(lat-0.003, lng-0.003), geo.Pt(lat-0.003, lng+0.003),
					geo.Pt(lat+0.003, lng+0.003), geo.Pt(lat+0.003, lng-0.003),
				)
			}
			if err != nil {
				t.Fatalf("populate: %v", err)
			}
		}
	}
}

func ids(zones []zone.Zone) string {
	out := ""
	for _, z := range zones {
		out += z.ZoneID() + ","
	}
	return out
}

func TestZonesAtMatchesBruteForce(t *testing.T) {
	s := New("test")
	populate(t, s, 6)
	all := s.Zones()

	hits := 0
	for i := 0; i <= 60; i++ {
		for j := 0; j <= 60; j++ {
			p := geo.Pt(48.795+float64(i)*0.001, 2.295+float64(j)*0.001)
			var want []zone.Zone
			for _, z := range all {
				if zone.Contains(z, p) {
					want = append(want, z)
				}
			}
			got := s.ZonesAt(p)
			if ids(got) != ids(want) {
				t.Fatalf("ZonesAt(%v) = %s, want %s", p, ids(got), ids(want))
			}
			hits += len(got)
		}
	}
	if hits == 0 {
		t.Fatal("expected some hits")
	}
}

func TestZonesCrossingMatchesBruteForce(t *testing.T) {
	s := New("test")
	populate(t, s, 5)
	all := s.Zones()

	start := geo.Pt(48.79, 2.29)
	for i := 0; i < 20; i++ {
		end := geo.Pt(48.79+float64(i)*0.003, 2.36-float64(i)*0.002)
		var want []zone.Zone
		for _, z := range all {
			if zone.Crosses(start, end, z) {
				want = append(want, z)
			}
		}
		if got := s.ZonesCrossing(start, end); ids(got) != ids(want) {
			t.Errorf("ZonesCrossing(%v) = %s, want %s", end, ids(got), ids(want))
		}
	}
}

func TestEvaluateDetour(t *testing.T) {
	s := New("test")
	s.AddCircle(parisCenter, 500)
	v, _ := s.AddVehicle(geo.Pt(48.8580, 2.3300), routing.AccessRestricted)
	lot, _ := s.AddParkingLot(geo.Pt(48.8700, 2.3550), "")

	got, d, err := s.Evaluate(v.ID, geo.Pt(48.8580, 2.3800))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got.ID != v.ID {
		t.Errorf("expected vehicle %s, got %s", v.ID, got.ID)
	}
	if d.Outcome() != routing.OutcomeDetour {
		t.Fatalf("expected detour, got %s", d.Outcome())
	}
	if *d.Detour != lot.Position {
		t.Errorf("expected detour via %v, got %v", lot.Position, *d.Detour)
	}
}

func TestEvaluateAfterVehicleMove(t *testing.T) {
	s := New("test")
	s.AddCircle(parisCenter, 500)
	v, _ := s.AddVehicle(geo.Pt(48.8580, 2.3300), routing.AccessRestricted)
	dest := geo.Pt(48.8580, 2.3800)

	if _, d, _ := s.Evaluate(v.ID, dest); !d.Restricted {
		t.Fatal("expected restricted before move")
	}
	if _, err := s.MoveVehicle(v.ID, geo.Pt(48.8580, 2.3700)); err != nil {
		t.Fatalf("MoveVehicle failed: %v", err)
	}
	if _, d, _ := s.Evaluate(v.ID, dest); d.Outcome() != routing.OutcomeDirect {
		t.Errorf("expected direct after move, got %s", d.Outcome())
	}
}

func TestEvaluateUnknownVehicle(t *testing.T) {
	s := New("test")
	if _, _, err := s.Evaluate("nope", parisCenter); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMoveParkingLot(t *testing.T) {
	s := New("test")
	l, _ := s.AddParkingLot(geo.Pt(48.87, 2.35), "")
	to := geo.Pt(48.88, 2.36)
	moved, err := s.MoveParkingLot(l.ID, to)
	if err != nil {
		t.Fatalf("MoveParkingLot failed: %v", err)
	}
	if moved.Position != to || moved.Name != l.Name {
		t.Errorf("unexpected lot after move: %+v", moved)
	}
	if _, err := s.MoveParkingLot("missing", to); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := New("test")
	c, _ := s.AddCircle(parisCenter, 300)
	v, _ := s.AddVehicle(geo.Pt(48.87, 2.33), routing.AccessAllowed)

	if et, err := s.Remove(c.ID); err != nil || et != EntityZone {
		t.Errorf("Remove(zone) = %s, %v", et, err)
	}
	if len(s.ZonesAt(parisCenter)) != 0 {
		t.Error("removed zone still hit")
	}
	if et, err := s.Remove(v.ID); err != nil || et != EntityVehicle {
		t.Errorf("Remove(vehicle) = %s, %v", et, err)
	}
	if _, err := s.Remove(v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFromScenarioRoundTrip(t *testing.T) {
	sc, err := spec.LoadProject("../../examples/paris")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	s, err := FromScenario(sc)
	if err != nil {
		t.Fatalf("FromScenario failed: %v", err)
	}

	if got := s.ZonesAt(parisCenter); len(got) != 1 || got[0].ZoneID() != "center" {
		t.Errorf("expected zone center at Paris center, got %s", ids(got))
	}

	out := s.Scenario()
	if len(out.Zones) != 2 || len(out.Vehicles) != 2 || len(out.ParkingLots) != 2 {
		t.Fatalf("unexpected export sizes: %d zones, %d vehicles, %d lots",
			len(out.Zones), len(out.Vehicles), len(out.ParkingLots))
	}
	if out.ParkingLots[1].Name != "Parking 2" {
		t.Errorf("expected unnamed lot to become Parking 2, got %q", out.ParkingLots[1].Name)
	}

	l, _ := s.AddParkingLot(geo.Pt(48.88, 2.34), "")
	if l.Name != "Parking 3" {
		t.Errorf("expected numbering to continue at Parking 3, got %q", l.Name)
	}
}

func TestFromScenarioInvalid(t *testing.T) {
	sc := &spec.Scenario{
		Zones: []spec.ZoneDef{{ID: "bad", Shape: zone.ShapeCircle, Center: &parisCenter, Radius: 0}},
	}
	if _, err := FromScenario(sc); !errors.Is(err, ErrInvalidScenario) {
		t.Errorf("expected ErrInvalidScenario, got %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New("test")
	c, _ := s.AddCircle(parisCenter, 500)
	v, _ := s.AddVehicle(geo.Pt(48.8580, 2.3300), routing.AccessRestricted)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch j % 4 {
				case 0:
					s.EditZone(c.ID, zone.Resize{Radius: float64(300 + i*10 + j)})
				case 1:
					s.ZonesAt(parisCenter)
				case 2:
					s.Evaluate(v.ID, geo.Pt(48.8580, 2.3800))
				case 3:
					s.AddParkingLot(geo.Pt(48.87, 2.35+float64(j)*0.001), fmt.Sprintf("lot-%d-%d", i, j))
				}
			}
		}(i)
	}
	wg.Wait()

	if got := len(s.ParkingLots()); got != 8*12 {
		t.Errorf("expected %d lots, got %d", 8*12, got)
	}
}
