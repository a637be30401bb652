package spec

import (
	"fmt"

	"github.com/yusuferdem16/zero-emission/pkg/facility"
	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

// CurrentVersion is written by Save when a scenario has no version.
const CurrentVersion = "0.1.0"

// Scenario is the on-disk description of a map: zones, vehicles and
// parking lots.
type Scenario struct {
	SpecVersion string          `yaml:"spec_version" json:"spec_version"`
	Name        string          `yaml:"name,omitempty" json:"name,omitempty"`
	Zones       []ZoneDef       `yaml:"zones" json:"zones"`
	Vehicles    []VehicleDef    `yaml:"vehicles" json:"vehicles"`
	ParkingLots []ParkingLotDef `yaml:"parking_lots" json:"parking_lots"`
}

// ZoneDef is the flat file record for a zone. Center and Radius are used by
// circles, Points by polygons.
type ZoneDef struct {
	ID     string      `yaml:"id" json:"id"`
	Shape  zone.Shape  `yaml:"shape" json:"shape"`
	Center *geo.Point  `yaml:"center,omitempty" json:"center,omitempty"`
	Radius float64     `yaml:"radius,omitempty" json:"radius,omitempty"`
	Points []geo.Point `yaml:"points,omitempty" json:"points,omitempty"`
}

type VehicleDef struct {
	ID       string    `yaml:"id" json:"id"`
	Position geo.Point `yaml:"position" json:"position"`
	Access   string    `yaml:"access" json:"access"`
}

type ParkingLotDef struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name,omitempty" json:"name,omitempty"`
	Position geo.Point `yaml:"position" json:"position"`
}

// ToZone converts the record into a validated zone value.
func (d ZoneDef) ToZone() (zone.Zone, error) {
	switch d.Shape {
	case zone.ShapeCircle:
		if d.Center == nil {
			return nil, fmt.Errorf("zone %s: circle has no center: %w", d.ID, zone.ErrInvalidGeometry)
		}
		return zone.NewCircle(d.ID, *d.Center, d.Radius)
	case zone.ShapePolygon:
		return zone.NewPolygon(d.ID, d.Points...)
	}
	return nil, fmt.Errorf("zone %s: unknown shape %q: %w", d.ID, d.Shape, zone.ErrInvalidGeometry)
}

// FromZone converts a zone value into its file record.
func FromZone(z zone.Zone) ZoneDef {
	switch v := z.(type) {
	case zone.Circle:
		c := v.Center
		return ZoneDef{ID: v.ID, Shape: zone.ShapeCircle, Center: &c, Radius: v.Radius}
	case zone.Polygon:
		return ZoneDef{ID: v.ID, Shape: zone.ShapePolygon, Points: v.Points.Clone()}
	}
	return ZoneDef{}
}

// ToVehicle converts the record into a routing vehicle.
func (d VehicleDef) ToVehicle() (routing.Vehicle, error) {
	access, err := routing.ParseAccessClass(d.Access)
	if err != nil {
		return routing.Vehicle{}, fmt.Errorf("vehicle %s: %w", d.ID, err)
	}
	return routing.Vehicle{ID: d.ID, Position: d.Position, Access: access}, nil
}

// FromVehicle converts a routing vehicle into its file record.
func FromVehicle(v routing.Vehicle) VehicleDef {
	return VehicleDef{ID: v.ID, Position: v.Position, Access: string(v.Access)}
}

// ToParkingLot converts the record; an empty name becomes "Parking n"
// where n is the 1-based position in the file.
func (d ParkingLotDef) ToParkingLot(n int) facility.ParkingLot {
	name := d.Name
	if name == "" {
		name = facility.DefaultName(n)
	}
	return facility.ParkingLot{ID: d.ID, Position: d.Position, Name: name}
}

// FromParkingLot converts a parking lot into its file record.
func FromParkingLot(l facility.ParkingLot) ParkingLotDef {
	return ParkingLotDef{ID: l.ID, Name: l.Name, Position: l.Position}
}

// ZoneSet converts every zone record. The first invalid record aborts.
func (s *Scenario) ZoneSet() ([]zone.Zone, error) {
	out := make([]zone.Zone, 0, len(s.Zones))
	for _, d := range s.Zones {
		z, err := d.ToZone()
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, nil
}

// VehicleSet converts every vehicle record.
func (s *Scenario) VehicleSet() ([]routing.Vehicle, error) {
	out := make([]routing.Vehicle, 0, len(s.Vehicles))
	for _, d := range s.Vehicles {
		v, err := d.ToVehicle()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// LotSet converts every parking lot record.
func (s *Scenario) LotSet() []facility.ParkingLot {
	out := make([]facility.ParkingLot, 0, len(s.ParkingLots))
	for i, d := range s.ParkingLots {
		out = append(out, d.ToParkingLot(i+1))
	}
	return out
}

// VehicleByID returns the vehicle record with the given ID, or nil if not found.
func (s *Scenario) VehicleByID(id string) *VehicleDef {
	for i := range s.Vehicles {
		if s.Vehicles[i].ID == id {
			return &s.Vehicles[i]
		}
	}
	return nil
}

// ZoneByID returns the zone record with the given ID, or nil if not found.
func (s *Scenario) ZoneByID(id string) *ZoneDef {
	for i := range s.Zones {
		if s.Zones[i].ID == id {
			return &s.Zones[i]
		}
	}
	return nil
}
