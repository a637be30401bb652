package validation

import (
	"errors"
	"fmt"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
	"github.com/yusuferdem16/zero-emission/pkg/spec"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

// ValidateScenario performs schema validation on a parsed Scenario and then,
// if the zones are well formed, geometry checks that do not block loading.
func ValidateScenario(s *spec.Scenario) *Report {
	r := NewReport()

	validateVersion(s, r)
	validateZones(s, r)
	validateVehicles(s, r)
	validateParkingLots(s, r)

	if r.Valid {
		zones, err := s.ZoneSet()
		if err == nil {
			validateRingSimplicity(s, r)
			validatePlacement(s, zones, r)
		}
	}

	return r
}

func validateVersion(s *spec.Scenario, r *Report) {
	if s.SpecVersion == "" {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "spec_version is not set",
			Path:        "spec_version",
			Expected:    spec.CurrentVersion,
			Suggestions: []string{fmt.Sprintf("Add spec_version: %q", spec.CurrentVersion)},
		})
	}
}

func checkIDs(path string, ids []string, r *Report) {
	seen := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == "" {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("%s[%d]: id must not be empty", path, i),
				Path:    fmt.Sprintf("%s[%d].id", path, i),
			})
			continue
		}
		if prev, ok := seen[id]; ok {
			r.AddError(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("%s[%d]: duplicate id %q", path, i, id),
				Path:         fmt.Sprintf("%s[%d].id", path, i),
				ActualValue:  id,
				ConflictWith: fmt.Sprintf("%s[%d]", path, prev),
			})
			continue
		}
		seen[id] = i
	}
}

func validateZones(s *spec.Scenario, r *Report) {
	ids := make([]string, len(s.Zones))
	for i, d := range s.Zones {
		ids[i] = d.ID
		if _, err := d.ToZone(); err != nil {
			res := Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("zones[%d]: %v", i, err),
				Path:        fmt.Sprintf("zones[%d]", i),
				ActualValue: d.Shape,
			}
			switch d.Shape {
			case zone.ShapeCircle:
				res.Expected = "center set and radius > 0"
			case zone.ShapePolygon:
				res.Expected = fmt.Sprintf("at least %d finite points", zone.MinPolygonPoints)
			default:
				res.Expected = "shape circle or polygon"
			}
			r.AddError(res)
		}
	}
	checkIDs("zones", ids, r)
}

func validateVehicles(s *spec.Scenario, r *Report) {
	ids := make([]string, len(s.Vehicles))
	for i, d := range s.Vehicles {
		ids[i] = d.ID
		if _, err := routing.ParseAccessClass(d.Access); err != nil {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("vehicles[%d]: %v", i, err),
				Path:        fmt.Sprintf("vehicles[%d].access", i),
				ActualValue: d.Access,
				Expected:    "allowed or restricted",
			})
		}
		checkPosition(fmt.Sprintf("vehicles[%d].position", i), d.Position, r)
	}
	checkIDs("vehicles", ids, r)
}

func validateParkingLots(s *spec.Scenario, r *Report) {
	ids := make([]string, len(s.ParkingLots))
	for i, d := range s.ParkingLots {
		ids[i] = d.ID
		checkPosition(fmt.Sprintf("parking_lots[%d].position", i), d.Position, r)
		if d.Name == "" {
			r.AddInfo(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("parking_lots[%d] has no name; shown as %q", i, d.ToParkingLot(i+1).Name),
				Path:    fmt.Sprintf("parking_lots[%d].name", i),
			})
		}
	}
	checkIDs("parking_lots", ids, r)
}

func checkPosition(path string, p geo.Point, r *Report) {
	if !p.IsFinite() || p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s is not a valid coordinate", path),
			Path:        path,
			ActualValue: p,
			Expected:    "lat in [-90,90], lng in [-180,180]",
		})
	}
}

// validateRingSimplicity warns about self-intersecting polygon rings. They
// are legal zones; the even-odd rule decides what they contain.
func validateRingSimplicity(s *spec.Scenario, r *Report) {
	for i, d := range s.Zones {
		if d.Shape != zone.ShapePolygon {
			continue
		}
		if a, b, ok := firstSelfIntersection(d.Points); ok {
			r.AddWarning(Result{
				Level:       LevelGeometry,
				Message:     fmt.Sprintf("zone %s: ring edges %d and %d cross", d.ID, a, b),
				Path:        fmt.Sprintf("zones[%d].points", i),
				Suggestions: []string{"Move a vertex so the ring does not cross itself"},
			})
		}
	}
}

// firstSelfIntersection returns the first pair of non-adjacent ring edges
// that intersect.
func firstSelfIntersection(pts []geo.Point) (int, int, bool) {
	ring := geo.Ring(pts)
	n := ring.Len()
	for i := 0; i < n; i++ {
		a1, a2 := ring.Edge(i)
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			b1, b2 := ring.Edge(j)
			if geo.SegmentsIntersect(a1, a2, b1, b2) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// validatePlacement flags parking lots that can never serve as a detour and
// vehicles that start inside a zone.
func validatePlacement(s *spec.Scenario, zones []zone.Zone, r *Report) {
	for i, d := range s.ParkingLots {
		for _, z := range zones {
			if zone.Contains(z, d.Position) {
				r.AddWarning(Result{
					Level:        LevelRouting,
					Message:      fmt.Sprintf("parking lot %s is inside zone %s and can never be a detour", d.ID, z.ZoneID()),
					Path:         fmt.Sprintf("parking_lots[%d].position", i),
					ActualValue:  d.Position,
					ConflictWith: z.ZoneID(),
				})
				break
			}
		}
	}
	for i, d := range s.Vehicles {
		for _, z := range zones {
			if zone.Contains(z, d.Position) {
				r.AddInfo(Result{
					Level:        LevelRouting,
					Message:      fmt.Sprintf("vehicle %s starts inside zone %s", d.ID, z.ZoneID()),
					Path:         fmt.Sprintf("vehicles[%d].position", i),
					ConflictWith: z.ZoneID(),
				})
				break
			}
		}
	}
}

// EditRejection converts a rejected zone edit into a report entry.
func EditRejection(err error) Result {
	res := Result{Level: LevelGeometry, Message: err.Error()}
	var editErr *zone.EditError
	if errors.As(err, &editErr) {
		res.Path = "zones." + editErr.ZoneID
		res.ActualValue = editErr.Edit
	}
	return res
}
