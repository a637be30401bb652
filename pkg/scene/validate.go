package scene

import (
	"fmt"

	"github.com/yusuferdem16/zero-emission/pkg/validation"
)

// ValidateGraph performs structural validation on a scene snapshot.
// It checks entity ID integrity, group index consistency and bounds
// enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelSchema,
			Message: "scene graph is nil",
		})
		return r
	}

	ids := validateEntityIDs(g, r)
	validateGroupIndices(g, ids, r)
	validateBoundsEnclosure(g, r)

	return r
}

// validateEntityIDs checks that every entity has a unique, non-empty ID
// across all entity types and returns each ID's type.
func validateEntityIDs(g *Graph, r *validation.Report) map[string]EntityType {
	seen := make(map[string]EntityType)

	check := func(et EntityType, path string, i int, id string) {
		if id == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("%s at index %d has empty ID", et, i),
				Path:        fmt.Sprintf("%s[%d].id", path, i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			return
		}
		if prev, exists := seen[id]; exists {
			r.AddError(validation.Result{
				Level:        validation.LevelSchema,
				Message:      fmt.Sprintf("duplicate entity ID %q", id),
				Path:         fmt.Sprintf("%s[%d].id", path, i),
				ActualValue:  id,
				ConflictWith: string(prev),
			})
			return
		}
		seen[id] = et
	}

	for i, z := range g.Zones {
		check(EntityZone, "zones", i, z.ID)
	}
	for i, v := range g.Vehicles {
		check(EntityVehicle, "vehicles", i, v.ID)
	}
	for i, l := range g.ParkingLots {
		check(EntityParkingLot, "parking_lots", i, l.ID)
	}
	return seen
}

func validateGroupIndices(g *Graph, ids map[string]EntityType, r *validation.Report) {
	members := 0
	for et, group := range g.Groups {
		for _, id := range group {
			members++
			actual, ok := ids[id]
			switch {
			case !ok:
				r.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     fmt.Sprintf("group %s references non-existent entity %q", et, id),
					Path:        fmt.Sprintf("groups.%s", et),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			case actual != et:
				r.AddError(validation.Result{
					Level:        validation.LevelSchema,
					Message:      fmt.Sprintf("entity %q is a %s but listed under %s", id, actual, et),
					Path:         fmt.Sprintf("groups.%s", et),
					ActualValue:  id,
					ConflictWith: string(actual),
				})
			}
		}
	}
	if members != len(ids) {
		r.AddWarning(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("groups list %d entities, scene has %d", members, len(ids)),
			Path:        "groups",
			ActualValue: members,
		})
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	b := g.Metadata.Bounds
	outside := func(path string, ok bool) {
		if !ok {
			r.AddWarning(validation.Result{
				Level:   validation.LevelGeometry,
				Message: fmt.Sprintf("%s lies outside the scene bounds", path),
				Path:    path,
			})
		}
	}

	for i, z := range g.Zones {
		if z.Center != nil {
			outside(fmt.Sprintf("zones[%d].center", i), b.Contains(*z.Center))
		}
		for j, p := range z.Points {
			outside(fmt.Sprintf("zones[%d].points[%d]", i, j), b.Contains(p))
		}
	}
	for i, v := range g.Vehicles {
		outside(fmt.Sprintf("vehicles[%d].position", i), b.Contains(v.Position))
	}
	for i, l := range g.ParkingLots {
		outside(fmt.Sprintf("parking_lots[%d].position", i), b.Contains(l.Position))
	}
}
