// Package scene is the stateful editing shell around the routing core. It
// owns the current zones, vehicles and parking lots, allocates their IDs,
// applies edits and hands value copies to the pure packages.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yusuferdem16/zero-emission/pkg/facility"
	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
	"github.com/yusuferdem16/zero-emission/pkg/spec"
	"github.com/yusuferdem16/zero-emission/pkg/validation"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

// ErrNotFound is returned when an ID does not name an entity in the scene.
var ErrNotFound = errors.New("not found")

// ErrInvalidScenario is returned when a scenario fails schema validation.
var ErrInvalidScenario = errors.New("invalid scenario")

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityZone       EntityType = "zone"
	EntityVehicle    EntityType = "vehicle"
	EntityParkingLot EntityType = "parking_lot"
)

// Scene holds the editable map. All methods are safe for concurrent use.
type Scene struct {
	mu       sync.RWMutex
	name     string
	zones    []zone.Zone
	vehicles []routing.Vehicle
	lots     []facility.ParkingLot
	lotSeq   int
	index    *zoneIndex
	newID    func() string
}

// New creates an empty scene.
func New(name string) *Scene {
	return &Scene{
		name:  name,
		index: newZoneIndex(),
		newID: uuid.NewString,
	}
}

// FromScenario builds a scene from a validated scenario. Entity IDs are kept;
// unnamed parking lots get their default names.
func FromScenario(s *spec.Scenario) (*Scene, error) {
	report := validation.ValidateScenario(s)
	if !report.Valid {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidScenario, report.Summary, report.Errors[0].Message)
	}

	zones, err := s.ZoneSet()
	if err != nil {
		return nil, err
	}
	vehicles, err := s.VehicleSet()
	if err != nil {
		return nil, err
	}

	sc := New(s.Name)
	for _, z := range zones {
		if err := sc.index.put(z); err != nil {
			return nil, err
		}
	}
	sc.zones = zones
	sc.vehicles = vehicles
	sc.lots = s.LotSet()
	sc.lotSeq = len(sc.lots)
	return sc, nil
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// AddCircle places a circle zone. A zero radius means zone.DefaultRadius.
func (s *Scene) AddCircle(center geo.Point, radius float64) (zone.Circle, error) {
	if radius == 0 {
		radius = zone.DefaultRadius
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := zone.NewCircle(s.newID(), center, radius)
	if err != nil {
		return zone.Circle{}, err
	}
	if err := s.insertZone(c); err != nil {
		return zone.Circle{}, err
	}
	return c, nil
}

// AddPolygon places a polygon zone with the given ring.
func (s *Scene) AddPolygon(points ...geo.Point) (zone.Polygon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := zone.NewPolygon(s.newID(), points...)
	if err != nil {
		return zone.Polygon{}, err
	}
	if err := s.insertZone(p); err != nil {
		return zone.Polygon{}, err
	}
	return p, nil
}

func (s *Scene) insertZone(z zone.Zone) error {
	if err := s.index.put(z); err != nil {
		return err
	}
	s.zones = append(s.zones, z)
	return nil
}

// AddVehicle places a vehicle.
func (s *Scene) AddVehicle(pos geo.Point, access routing.AccessClass) (routing.Vehicle, error) {
	if !pos.IsFinite() {
		return routing.Vehicle{}, fmt.Errorf("vehicle position %v: %w", pos, zone.ErrInvalidGeometry)
	}
	access, err := routing.ParseAccessClass(string(access))
	if err != nil {
		return routing.Vehicle{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := routing.Vehicle{ID: s.newID(), Position: pos, Access: access}
	s.vehicles = append(s.vehicles, v)
	return v, nil
}

// AddParkingLot places a parking lot. An empty name becomes "Parking N".
func (s *Scene) AddParkingLot(pos geo.Point, name string) (facility.ParkingLot, error) {
	if !pos.IsFinite() {
		return facility.ParkingLot{}, fmt.Errorf("parking lot position %v: %w", pos, zone.ErrInvalidGeometry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lotSeq++
	if name == "" {
		name = facility.DefaultName(s.lotSeq)
	}
	l := facility.ParkingLot{ID: s.newID(), Position: pos, Name: name}
	s.lots = append(s.lots, l)
	return l, nil
}

// Zone returns the zone with the given ID.
func (s *Scene) Zone(id string) (zone.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findZone(id)
	if i < 0 {
		return nil, fmt.Errorf("zone %s: %w", id, ErrNotFound)
	}
	return s.zones[i], nil
}

// Vehicle returns the vehicle with the given ID.
func (s *Scene) Vehicle(id string) (routing.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findVehicle(id)
	if i < 0 {
		return routing.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return s.vehicles[i], nil
}

// EditZone applies edits to a zone as one step. On rejection the stored
// zone is left as it was and returned together with the error.
func (s *Scene) EditZone(id string, edits ...zone.Edit) (zone.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findZone(id)
	if i < 0 {
		return nil, fmt.Errorf("zone %s: %w", id, ErrNotFound)
	}
	old := s.zones[i]
	next, err := zone.ApplyAll(old, edits...)
	if err != nil {
		return old, err
	}
	if err := s.index.put(next); err != nil {
		return old, err
	}
	s.zones[i] = next
	return next, nil
}

// MoveVehicle sets a vehicle's position.
func (s *Scene) MoveVehicle(id string, pos geo.Point) (routing.Vehicle, error) {
	if !pos.IsFinite() {
		return routing.Vehicle{}, fmt.Errorf("vehicle position %v: %w", pos, zone.ErrInvalidGeometry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findVehicle(id)
	if i < 0 {
		return routing.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	s.vehicles[i].Position = pos
	return s.vehicles[i], nil
}

// MoveParkingLot sets a parking lot's position.
func (s *Scene) MoveParkingLot(id string, pos geo.Point) (facility.ParkingLot, error) {
	if !pos.IsFinite() {
		return facility.ParkingLot{}, fmt.Errorf("parking lot position %v: %w", pos, zone.ErrInvalidGeometry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lots {
		if s.lots[i].ID == id {
			s.lots[i].Position = pos
			return s.lots[i], nil
		}
	}
	return facility.ParkingLot{}, fmt.Errorf("parking lot %s: %w", id, ErrNotFound)
}

// Remove deletes the entity with the given ID, whatever its type.
func (s *Scene) Remove(id string) (EntityType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findZone(id); i >= 0 {
		s.index.remove(id)
		s.zones = append(s.zones[:i:i], s.zones[i+1:]...)
		return EntityZone, nil
	}
	if i := s.findVehicle(id); i >= 0 {
		s.vehicles = append(s.vehicles[:i:i], s.vehicles[i+1:]...)
		return EntityVehicle, nil
	}
	for i := range s.lots {
		if s.lots[i].ID == id {
			s.lots = append(s.lots[:i:i], s.lots[i+1:]...)
			return EntityParkingLot, nil
		}
	}
	return "", fmt.Errorf("entity %s: %w", id, ErrNotFound)
}

// Zones returns a copy of the zone set in insertion order.
func (s *Scene) Zones() []zone.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]zone.Zone(nil), s.zones...)
}

// Vehicles returns a copy of the vehicles in insertion order.
func (s *Scene) Vehicles() []routing.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]routing.Vehicle(nil), s.vehicles...)
}

// ParkingLots returns a copy of the parking lots in insertion order.
func (s *Scene) ParkingLots() []facility.ParkingLot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]facility.ParkingLot(nil), s.lots...)
}

// ZonesAt returns the zones containing p, in insertion order.
func (s *Scene) ZonesAt(p geo.Point) []zone.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.index.searchPoint(p)
	var out []zone.Zone
	for _, z := range s.zones {
		if candidates[z.ZoneID()] && zone.Contains(z, p) {
			out = append(out, z)
		}
	}
	return out
}

// ZonesCrossing returns the zones the straight path start→end crosses, in
// insertion order.
func (s *Scene) ZonesCrossing(start, end geo.Point) []zone.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.index.searchSegment(start, end)
	var out []zone.Zone
	for _, z := range s.zones {
		if candidates[z.ZoneID()] && zone.Crosses(start, end, z) {
			out = append(out, z)
		}
	}
	return out
}

// Evaluate runs the routing decision for a vehicle against the current zones
// and parking lots.
func (s *Scene) Evaluate(vehicleID string, destination geo.Point) (routing.Vehicle, routing.Decision, error) {
	if !destination.IsFinite() {
		return routing.Vehicle{}, routing.Decision{}, fmt.Errorf("destination %v: %w", destination, zone.ErrInvalidGeometry)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findVehicle(vehicleID)
	if i < 0 {
		return routing.Vehicle{}, routing.Decision{}, fmt.Errorf("vehicle %s: %w", vehicleID, ErrNotFound)
	}
	v := s.vehicles[i]
	return v, routing.Evaluate(v, destination, s.zones, s.lots), nil
}

// Scenario exports the scene in its file form.
func (s *Scene) Scenario() *spec.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenarioLocked()
}

func (s *Scene) scenarioLocked() *spec.Scenario {
	out := &spec.Scenario{
		SpecVersion: spec.CurrentVersion,
		Name:        s.name,
		Zones:       make([]spec.ZoneDef, 0, len(s.zones)),
		Vehicles:    make([]spec.VehicleDef, 0, len(s.vehicles)),
		ParkingLots: make([]spec.ParkingLotDef, 0, len(s.lots)),
	}
	for _, z := range s.zones {
		out.Zones = append(out.Zones, spec.FromZone(z))
	}
	for _, v := range s.vehicles {
		out.Vehicles = append(out.Vehicles, spec.FromVehicle(v))
	}
	for _, l := range s.lots {
		out.ParkingLots = append(out.ParkingLots, spec.FromParkingLot(l))
	}
	return out
}

func (s *Scene) findZone(id string) int {
	for i, z := range s.zones {
		if z.ZoneID() == id {
			return i
		}
	}
	return -1
}

func (s *Scene) findVehicle(id string) int {
	for i, v := range s.vehicles {
		if v.ID == id {
			return i
		}
	}
	return -1
}
