// Package zone models restricted-access zones as a closed sum of circle and
// polygon variants, and answers containment and crossing questions about them.
// Zones are values: every edit produces a new Zone.
package zone

import (
	"errors"
	"fmt"
	"math"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
)

// Shape identifies a zone variant.
type Shape string

const (
	ShapeCircle  Shape = "circle"
	ShapePolygon Shape = "polygon"
)

// DefaultRadius is the radius given to a circle placed with a single click.
const DefaultRadius = 500.0

// MinPolygonPoints is the smallest ring a polygon zone may have.
const MinPolygonPoints = 3

// ErrInvalidGeometry is returned when a zone would be built or edited into an
// illegal state.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Zone is either a Circle or a Polygon.
type Zone interface {
	ZoneID() string
	Shape() Shape
	// BoundingBox returns a (min, max) box guaranteed to contain every point
	// for which Contains holds.
	BoundingBox() (geo.Point, geo.Point)
	isZone()
}

// Circle is a zone of every point within Radius meters of Center.
type Circle struct {
	ID string
	geo.Circle
}

// Polygon is a zone bounded by an implicitly closed ring of at least three
// points. The ring may self-intersect.
type Polygon struct {
	ID     string
	Points geo.Ring
}

func (Circle) isZone()  {}
func (Polygon) isZone() {}

func (c Circle) ZoneID() string  { return c.ID }
func (p Polygon) ZoneID() string { return p.ID }

func (Circle) Shape() Shape  { return ShapeCircle }
func (Polygon) Shape() Shape { return ShapePolygon }

// NewCircle builds a validated circle zone.
func NewCircle(id string, center geo.Point, radius float64) (Circle, error) {
	c := Circle{ID: id, Circle: geo.Circle{Center: center, Radius: radius}}
	if err := Validate(c); err != nil {
		return Circle{}, err
	}
	return c, nil
}

// NewPolygon builds a validated polygon zone. The points are copied.
func NewPolygon(id string, pts ...geo.Point) (Polygon, error) {
	p := Polygon{ID: id, Points: geo.Ring(pts).Clone()}
	if err := Validate(p); err != nil {
		return Polygon{}, err
	}
	return p, nil
}

// Validate checks the structural invariants of a zone: a finite center and a
// positive finite radius for circles, at least three finite points for polygons.
// Ring simplicity is not checked.
func Validate(z Zone) error {
	switch v := z.(type) {
	case Circle:
		if !v.Center.IsFinite() {
			return fmt.Errorf("zone %s: center is not finite: %w", v.ID, ErrInvalidGeometry)
		}
		if !(v.Radius > 0) || math.IsInf(v.Radius, 0) {
			return fmt.Errorf("zone %s: radius must be > 0, got %v: %w", v.ID, v.Radius, ErrInvalidGeometry)
		}
	case Polygon:
		if len(v.Points) < MinPolygonPoints {
			return fmt.Errorf("zone %s: polygon needs at least %d points, got %d: %w",
				v.ID, MinPolygonPoints, len(v.Points), ErrInvalidGeometry)
		}
		for i, pt := range v.Points {
			if !pt.IsFinite() {
				return fmt.Errorf("zone %s: point %d is not finite: %w", v.ID, i, ErrInvalidGeometry)
			}
		}
	default:
		return fmt.Errorf("unknown zone type %T: %w", z, ErrInvalidGeometry)
	}
	return nil
}

// BoundingBox returns the ring's bounding box.
func (p Polygon) BoundingBox() (geo.Point, geo.Point) {
	return p.Points.BoundingBox()
}

// BoundingBox returns a degree box around the circle. The latitude extent is
// exact for haversine distance; the longitude extent uses the smallest
// parallel cosine reachable inside the circle. Near the poles or across the
// antimeridian the box widens to the full longitude range.
func (c Circle) BoundingBox() (geo.Point, geo.Point) {
	delta := c.Radius / geo.EarthRadius
	dLat := delta * 180 / math.Pi

	minP := geo.Pt(c.Center.Lat-dLat, -180)
	maxP := geo.Pt(c.Center.Lat+dLat, 180)

	edge := math.Abs(c.Center.Lat)*math.Pi/180 + delta
	if edge < math.Pi/2 {
		ratio := math.Sin(delta/2) / math.Cos(edge)
		if ratio < 1 {
			dLng := 2 * math.Asin(ratio) * 180 / math.Pi
			if c.Center.Lng-dLng >= -180 && c.Center.Lng+dLng <= 180 {
				minP.Lng = c.Center.Lng - dLng
				maxP.Lng = c.Center.Lng + dLng
			}
		}
	}
	return minP, maxP
}

// Midpoints returns the planar midpoint of every ring edge. Midpoint i sits
// on the edge from point i to point i+1 and is inserted at index i+1.
func (p Polygon) Midpoints() []geo.Point {
	out := make([]geo.Point, len(p.Points))
	for i := range p.Points {
		a, b := p.Points.Edge(i)
		out[i] = geo.MidPoint(a, b)
	}
	return out
}

// ResizeHandle returns where the drag handle for a circle's radius is drawn:
// due north of the center by the radius in flat degrees.
func (c Circle) ResizeHandle() geo.Point {
	return geo.Pt(c.Center.Lat+c.Radius/geo.MetersPerDegree, c.Center.Lng)
}

// RadiusFromHandle converts a dragged handle position into a radius in
// meters relative to center.
func RadiusFromHandle(center, handle geo.Point) float64 {
	return center.PlanarDistance(handle) * geo.MetersPerDegree
}
