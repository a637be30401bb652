package directions

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
)

// DetourMessage is shown when a restricted vehicle is sent through a lot.
const DetourMessage = "Destination is in a restricted zone. Route to nearest parking lot shown."

// UnresolvedMessage is shown when no parking lot offers a safe detour.
const UnresolvedMessage = "Destination is in a restricted zone and no parking lot offers a route around it."

// Message returns the user-facing text for a decision, or "" for a direct route.
func Message(d routing.Decision) string {
	switch d.Outcome() {
	case routing.OutcomeDetour:
		return DetourMessage
	case routing.OutcomeUnresolved:
		return UnresolvedMessage
	}
	return ""
}

func orbPoint(p geo.Point) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// FeatureCollection renders a decision as GeoJSON: one LineString per
// resolved leg plus Point markers for the start, the detour lot and the
// destination.
func FeatureCollection(start geo.Point, d routing.Decision, paths []Path) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"outcome": string(d.Outcome()),
	}
	if msg := Message(d); msg != "" {
		fc.ExtraMembers["message"] = msg
	}

	for i, p := range paths {
		ls := make(orb.LineString, len(p.Points))
		for j, pt := range p.Points {
			ls[j] = orbPoint(pt)
		}
		f := geojson.NewFeature(ls)
		f.Properties["kind"] = "leg"
		f.Properties["leg"] = i
		f.Properties["fallback"] = p.Fallback
		fc.Append(f)
	}

	marker := func(kind string, p geo.Point) {
		f := geojson.NewFeature(orbPoint(p))
		f.Properties["kind"] = kind
		fc.Append(f)
	}
	marker("start", start)
	if d.Detour != nil {
		marker("parking", *d.Detour)
	}
	marker("destination", d.Destination)
	return fc
}
