package geo

// Circle is a center with a radius in meters.
type Circle struct {
	Center Point   `json:"center" yaml:"center"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// PointInCircle reports whether p lies within c, boundary inclusive.
func PointInCircle(p Point, c Circle) bool {
	return Distance(p, c.Center) <= c.Radius
}

// SegmentsIntersect reports whether segment p1-p2 intersects segment p3-p4
// using the parametric form. Exactly parallel segments, collinear overlap
// included, are reported as not intersecting.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	d := p2.coord().Minus(p1.coord())
	e := p4.coord().Minus(p3.coord())
	den := cross(d, e)
	if den == 0 {
		return false
	}

	w := p1.coord().Minus(p3.coord())
	ua := cross(e, w) / den
	ub := cross(d, w) / den

	return ua >= 0 && ua <= 1 && ub >= 0 && ub <= 1
}

// SegmentIntersectsCircle reports whether the segment start-end passes within
// c.Radius of c.Center. The center is projected onto the segment in planar
// degree space, the projection is clamped to the segment, and the distance
// from the clamped point to the center is measured with Distance.
// A zero-length segment degenerates to a point test at start.
func SegmentIntersectsCircle(start, end Point, c Circle) bool {
	v := end.coord().Minus(start.coord())
	length := v.Magnitude()
	if length == 0 {
		return PointInCircle(start, c)
	}

	n := v.Times(1 / length)
	proj := dot(c.Center.coord().Minus(start.coord()), n)
	if proj < 0 {
		proj = 0
	} else if proj > length {
		proj = length
	}

	closest := fromCoord(start.coord().Plus(n.Times(proj)))
	return Distance(closest, c.Center) <= c.Radius
}
