package scene

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/spec"
)

// BoundingBox is an axis-aligned lat/lng box.
type BoundingBox struct {
	Min geo.Point `json:"min"`
	Max geo.Point `json:"max"`
}

// Metadata holds scene-level information.
type Metadata struct {
	Name        string      `json:"name,omitempty"`
	SpecVersion string      `json:"spec_version"`
	GeneratedAt string      `json:"generated_at"`
	Bounds      BoundingBox `json:"bounds"`
}

// Graph is a point-in-time copy of the scene, as served to clients.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	spec.Scenario
	// Groups lists entity IDs by entity type.
	Groups map[EntityType][]string `json:"groups"`
}

// Snapshot copies the current scene into a Graph.
func (s *Scene) Snapshot() *Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := &Graph{
		Scenario: *s.scenarioLocked(),
		Groups: map[EntityType][]string{
			EntityZone:       {},
			EntityVehicle:    {},
			EntityParkingLot: {},
		},
	}
	for _, z := range s.zones {
		g.Groups[EntityZone] = append(g.Groups[EntityZone], z.ZoneID())
	}
	for _, v := range s.vehicles {
		g.Groups[EntityVehicle] = append(g.Groups[EntityVehicle], v.ID)
	}
	for _, l := range s.lots {
		g.Groups[EntityParkingLot] = append(g.Groups[EntityParkingLot], l.ID)
	}

	g.Metadata = Metadata{
		Name:        s.name,
		SpecVersion: spec.CurrentVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Bounds:      s.computeBounds(),
	}
	return g
}

// computeBounds calculates the box around every zone, vehicle and lot.
func (s *Scene) computeBounds() BoundingBox {
	var b orb.Bound
	first := true
	add := func(other orb.Bound) {
		if first {
			b, first = other, false
			return
		}
		b = b.Union(other)
	}

	for _, z := range s.zones {
		add(zoneBound(z))
	}
	for _, v := range s.vehicles {
		add(pointBound(v.Position))
	}
	for _, l := range s.lots {
		add(pointBound(l.Position))
	}
	if first {
		return BoundingBox{}
	}
	return BoundingBox{
		Min: geo.Pt(b.Min[1], b.Min[0]),
		Max: geo.Pt(b.Max[1], b.Max[0]),
	}
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p geo.Point) bool {
	return p.Lat >= b.Min.Lat && p.Lat <= b.Max.Lat &&
		p.Lng >= b.Min.Lng && p.Lng <= b.Max.Lng
}
