package geo

import "math"

// Ring is an ordered vertex sequence, implicitly closed from the last
// vertex back to the first. Simplicity is never checked.
type Ring []Point

// Len returns the number of vertices.
func (r Ring) Len() int {
	return len(r)
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (r Ring) Edge(i int) (Point, Point) {
	n := len(r)
	return r[i%n], r[(i+1)%n]
}

// Clone returns an independent copy of the ring.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// SignedArea returns the planar signed area in square degrees using the
// shoelace formula. Positive for counterclockwise winding.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += r[i].Lng * r[j].Lat
		area -= r[j].Lng * r[i].Lat
	}
	return area / 2
}

// Centroid returns the planar centroid of the ring.
// Degenerate rings fall back to the vertex average.
func (r Ring) Centroid() Point {
	n := len(r)
	if n == 0 {
		return Point{}
	}
	a := r.SignedArea()
	if n < 3 || math.Abs(a) < 1e-15 {
		sum := Point{}
		for _, v := range r {
			sum.Lat += v.Lat
			sum.Lng += v.Lng
		}
		return Point{Lat: sum.Lat / float64(n), Lng: sum.Lng / float64(n)}
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		c := r[i].Lng*r[j].Lat - r[j].Lng*r[i].Lat
		cx += (r[i].Lng + r[j].Lng) * c
		cy += (r[i].Lat + r[j].Lat) * c
	}
	f := 1.0 / (6.0 * a)
	return Point{Lat: cy * f, Lng: cx * f}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (r Ring) BoundingBox() (Point, Point) {
	if len(r) == 0 {
		return Point{}, Point{}
	}
	minP, maxP := r[0], r[0]
	for _, v := range r[1:] {
		minP.Lat = math.Min(minP.Lat, v.Lat)
		minP.Lng = math.Min(minP.Lng, v.Lng)
		maxP.Lat = math.Max(maxP.Lat, v.Lat)
		maxP.Lng = math.Max(maxP.Lng, v.Lng)
	}
	return minP, maxP
}

// PointInPolygon reports whether p is inside the ring using the even-odd
// ray casting rule. Rings with fewer than 3 vertices contain nothing.
// Edges with no latitude extent, including zero-length edges, never
// toggle the result, so the division below never sees a zero denominator.
func PointInPolygon(p Point, ring Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := ring[i], ring[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) &&
			p.Lng < (vj.Lng-vi.Lng)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lng {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Contains is PointInPolygon with the ring as receiver.
func (r Ring) Contains(p Point) bool {
	return PointInPolygon(p, r)
}
