package geo

import (
	"math"

	"github.com/jbeda/geom"
)

// EarthRadius is the mean Earth radius in meters used by Distance.
const EarthRadius = 6371000.0

// MetersPerDegree is the flat conversion used by interactive drag handles.
const MetersPerDegree = 111000.0

// Point is a (latitude, longitude) pair in degrees.
//
// Everything except Distance treats degrees as a locally flat Cartesian
// plane with longitude on the X axis and latitude on the Y axis.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Pt is a shorthand constructor for Point.
func Pt(lat, lng float64) Point {
	return Point{Lat: lat, Lng: lng}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// Distance returns the great-circle distance in meters from p to q.
func (p Point) Distance(q Point) float64 {
	return Distance(p, q)
}

// Lerp returns the planar interpolation between p and q at t in [0,1].
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		Lat: p.Lat + (q.Lat-p.Lat)*t,
		Lng: p.Lng + (q.Lng-p.Lng)*t,
	}
}

// PlanarDistance returns the Euclidean distance between p and q in degrees.
func (p Point) PlanarDistance(q Point) float64 {
	return q.coord().Minus(p.coord()).Magnitude()
}

// RotateAround returns p rotated by angle radians counterclockwise around center
// in the planar degree space.
func (p Point) RotateAround(center Point, angle float64) Point {
	v := p.coord().Minus(center.coord())
	c, s := math.Cos(angle), math.Sin(angle)
	r := geom.Coord{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
	return fromCoord(r.Plus(center.coord()))
}

// MidPoint returns the planar midpoint between p and q.
func MidPoint(p, q Point) Point {
	return p.Lerp(q, 0.5)
}

// Distance returns the haversine distance in meters between a and b.
// It is symmetric and zero when a == b.
func Distance(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h a hair outside [0,1] for antipodal points.
	h = math.Max(0, math.Min(1, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func (p Point) coord() geom.Coord {
	return geom.Coord{X: p.Lng, Y: p.Lat}
}

func fromCoord(c geom.Coord) Point {
	return Point{Lat: c.Y, Lng: c.X}
}

func dot(a, b geom.Coord) float64 {
	return a.X*b.X + a.Y*b.Y
}

// cross returns the z-component of the 3D cross product of a and b.
func cross(a, b geom.Coord) float64 {
	return a.X*b.Y - a.Y*b.X
}
