// Package routing decides whether a vehicle may drive straight to a
// destination or must detour through a parking lot. Decisions are made
// against the straight segment between the two points, never against a
// rendered road path, so they do not depend on any directions provider.
package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yusuferdem16/zero-emission/pkg/facility"
	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

// AccessClass says whether a vehicle may enter restricted zones.
type AccessClass string

const (
	AccessAllowed    AccessClass = "allowed"
	AccessRestricted AccessClass = "restricted"
)

// ErrUnknownAccessClass is returned for access strings ParseAccessClass
// does not recognise.
var ErrUnknownAccessClass = errors.New("unknown access class")

// ParseAccessClass accepts "allowed", "restricted" and the legacy
// "notAllowed" spelling.
func ParseAccessClass(s string) (AccessClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allowed":
		return AccessAllowed, nil
	case "restricted", "notallowed", "not_allowed":
		return AccessRestricted, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownAccessClass, s)
}

// Vehicle is a car placed on the map.
type Vehicle struct {
	ID       string      `json:"id"`
	Position geo.Point   `json:"position"`
	Access   AccessClass `json:"access"`
}

// Outcome classifies a Decision.
type Outcome string

const (
	OutcomeDirect     Outcome = "direct"
	OutcomeDetour     Outcome = "detour"
	OutcomeUnresolved Outcome = "unresolved"
)

// Decision is the result of one routing query.
type Decision struct {
	Destination geo.Point  `json:"destination"`
	Detour      *geo.Point `json:"detour,omitempty"`
	Restricted  bool       `json:"restricted"`

	// Why the request was restricted. Both are computed for every vehicle.
	DestinationInZone bool `json:"destination_in_zone"`
	PathCrossesZone   bool `json:"path_crosses_zone"`
}

// Outcome returns direct, detour, or unresolved when the request is
// restricted but no parking lot offers a safe detour.
func (d Decision) Outcome() Outcome {
	switch {
	case !d.Restricted:
		return OutcomeDirect
	case d.Detour != nil:
		return OutcomeDetour
	default:
		return OutcomeUnresolved
	}
}

// Leg is one straight segment of a route to be resolved by a directions provider.
type Leg struct {
	From geo.Point `json:"from"`
	To   geo.Point `json:"to"`
}

// Legs returns the segments the vehicle must drive from start:
// start→destination for a direct route, start→lot→destination for a detour
// and nothing for an unresolved request.
func (d Decision) Legs(start geo.Point) []Leg {
	switch d.Outcome() {
	case OutcomeDirect:
		return []Leg{{From: start, To: d.Destination}}
	case OutcomeDetour:
		return []Leg{
			{From: start, To: *d.Detour},
			{From: *d.Detour, To: d.Destination},
		}
	}
	return nil
}

// Evaluate decides how v reaches destination given the zones and lots.
// A restricted vehicle whose destination is inside a zone, or whose straight
// path crosses one, is routed through the best feasible parking lot; if none
// exists the decision stays restricted with no detour. Allowed vehicles
// always go direct.
func Evaluate(v Vehicle, destination geo.Point, zones []zone.Zone, lots []facility.ParkingLot) Decision {
	d := Decision{
		Destination:       destination,
		DestinationInZone: zone.ContainsAny(destination, zones),
		PathCrossesZone:   zone.CrossesAny(v.Position, destination, zones),
	}

	if v.Access != AccessRestricted || !(d.DestinationInZone || d.PathCrossesZone) {
		return d
	}

	d.Restricted = true
	if lot, ok := facility.Best(v.Position, destination, lots, zones); ok {
		pos := lot.Position
		d.Detour = &pos
	}
	return d
}
