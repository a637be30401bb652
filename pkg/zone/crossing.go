package zone

import "github.com/yusuferdem16/zero-emission/pkg/geo"

// Contains reports whether p lies inside z.
func Contains(z Zone, p geo.Point) bool {
	switch v := z.(type) {
	case Circle:
		return geo.PointInCircle(p, v.Circle)
	case Polygon:
		return geo.PointInPolygon(p, v.Points)
	}
	return false
}

// ContainsAny reports whether p lies inside at least one zone.
func ContainsAny(p geo.Point, zones []Zone) bool {
	for _, z := range zones {
		if Contains(z, p) {
			return true
		}
	}
	return false
}

// Crosses reports whether the straight segment start-end touches z.
// For polygons this is true when the segment intersects any ring edge or
// when either endpoint lies inside the ring.
func Crosses(start, end geo.Point, z Zone) bool {
	switch v := z.(type) {
	case Circle:
		return geo.SegmentIntersectsCircle(start, end, v.Circle)
	case Polygon:
		for i := range v.Points {
			a, b := v.Points.Edge(i)
			if geo.SegmentsIntersect(start, end, a, b) {
				return true
			}
		}
		return geo.PointInPolygon(start, v.Points) || geo.PointInPolygon(end, v.Points)
	}
	return false
}

// CrossesAny reports whether start-end crosses at least one zone.
// It stops at the first match; an empty set is never crossed.
func CrossesAny(start, end geo.Point, zones []Zone) bool {
	for _, z := range zones {
		if Crosses(start, end, z) {
			return true
		}
	}
	return false
}
