package zone

import (
	"fmt"
	"math"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
)

// Edit is an interactive geometry change. Edits never mutate the zone they
// are applied to.
type Edit interface {
	// Name is a short identifier used in logs and error messages.
	Name() string
	apply(Zone) (Zone, error)
}

// MoveCenter recenters a circle. The radius is unchanged.
type MoveCenter struct {
	Center geo.Point
}

// Resize sets a circle's radius in meters.
type Resize struct {
	Radius float64
}

// ResizeToHandle sets a circle's radius from a dragged handle position,
// measured against the circle's current center.
type ResizeToHandle struct {
	Handle geo.Point
}

// MovePoint replaces the ring point at Index.
type MovePoint struct {
	Index int
	Point geo.Point
}

// InsertPoint inserts Point so it ends up at Index; Index may equal the ring
// length to append.
type InsertPoint struct {
	Index int
	Point geo.Point
}

// AppendPoint adds Point at the end of the ring.
type AppendPoint struct {
	Point geo.Point
}

// RemovePoint deletes the ring point at Index. Removal that would leave fewer
// than three points is rejected.
type RemovePoint struct {
	Index int
}

// Rotate turns a polygon counterclockwise by Degrees around its ring
// centroid in planar degree space. Rotating a circle leaves it unchanged.
type Rotate struct {
	Degrees float64
}

func (MoveCenter) Name() string     { return "move_center" }
func (Resize) Name() string         { return "resize" }
func (ResizeToHandle) Name() string { return "resize_to_handle" }
func (MovePoint) Name() string      { return "move_point" }
func (InsertPoint) Name() string    { return "insert_point" }
func (AppendPoint) Name() string    { return "append_point" }
func (RemovePoint) Name() string    { return "remove_point" }
func (Rotate) Name() string         { return "rotate" }

// EditError describes a rejected edit. It unwraps to ErrInvalidGeometry.
type EditError struct {
	ZoneID string
	Edit   string
	Reason string
}

func (e *EditError) Error() string {
	return fmt.Sprintf("zone %s: %s rejected: %s", e.ZoneID, e.Edit, e.Reason)
}

func (e *EditError) Unwrap() error {
	return ErrInvalidGeometry
}

func reject(z Zone, e Edit, format string, args ...any) error {
	return &EditError{ZoneID: z.ZoneID(), Edit: e.Name(), Reason: fmt.Sprintf(format, args...)}
}

// Apply returns the zone produced by applying e to z. On rejection it
// returns z unchanged together with an *EditError.
func Apply(z Zone, e Edit) (Zone, error) {
	if e == nil {
		return z, fmt.Errorf("nil edit: %w", ErrInvalidGeometry)
	}
	if z == nil {
		return nil, fmt.Errorf("%s on nil zone: %w", e.Name(), ErrInvalidGeometry)
	}
	next, err := e.apply(z)
	if err != nil {
		return z, err
	}
	if err := Validate(next); err != nil {
		return z, reject(z, e, "%v", err)
	}
	return next, nil
}

// ApplyAll applies edits in order. If any edit is rejected the original
// zone is returned with that edit's error, so a drag that moves a center and
// then a handle is accepted or rejected as a whole.
func ApplyAll(z Zone, edits ...Edit) (Zone, error) {
	cur := z
	for _, e := range edits {
		next, err := Apply(cur, e)
		if err != nil {
			return z, err
		}
		cur = next
	}
	return cur, nil
}

func asCircle(z Zone, e Edit) (Circle, error) {
	c, ok := z.(Circle)
	if !ok {
		return Circle{}, reject(z, e, "not applicable to %s zones", z.Shape())
	}
	return c, nil
}

func asPolygon(z Zone, e Edit) (Polygon, error) {
	p, ok := z.(Polygon)
	if !ok {
		return Polygon{}, reject(z, e, "not applicable to %s zones", z.Shape())
	}
	return p, nil
}

func (e MoveCenter) apply(z Zone) (Zone, error) {
	c, err := asCircle(z, e)
	if err != nil {
		return nil, err
	}
	if !e.Center.IsFinite() {
		return nil, reject(z, e, "center is not finite")
	}
	c.Center = e.Center
	return c, nil
}

func (e Resize) apply(z Zone) (Zone, error) {
	c, err := asCircle(z, e)
	if err != nil {
		return nil, err
	}
	if !(e.Radius > 0) || math.IsInf(e.Radius, 0) {
		return nil, reject(z, e, "radius must be > 0, got %v", e.Radius)
	}
	c.Radius = e.Radius
	return c, nil
}

func (e ResizeToHandle) apply(z Zone) (Zone, error) {
	c, err := asCircle(z, e)
	if err != nil {
		return nil, err
	}
	return Resize{Radius: RadiusFromHandle(c.Center, e.Handle)}.apply(c)
}

func (e MovePoint) apply(z Zone) (Zone, error) {
	p, err := asPolygon(z, e)
	if err != nil {
		return nil, err
	}
	if e.Index < 0 || e.Index >= len(p.Points) {
		return nil, reject(z, e, "index %d out of range [0,%d)", e.Index, len(p.Points))
	}
	pts := p.Points.Clone()
	pts[e.Index] = e.Point
	p.Points = pts
	return p, nil
}

func (e InsertPoint) apply(z Zone) (Zone, error) {
	p, err := asPolygon(z, e)
	if err != nil {
		return nil, err
	}
	if e.Index < 0 || e.Index > len(p.Points) {
		return nil, reject(z, e, "index %d out of range [0,%d]", e.Index, len(p.Points))
	}
	pts := make(geo.Ring, 0, len(p.Points)+1)
	pts = append(pts, p.Points[:e.Index]...)
	pts = append(pts, e.Point)
	pts = append(pts, p.Points[e.Index:]...)
	p.Points = pts
	return p, nil
}

func (e AppendPoint) apply(z Zone) (Zone, error) {
	p, err := asPolygon(z, e)
	if err != nil {
		return nil, err
	}
	return InsertPoint{Index: len(p.Points), Point: e.Point}.apply(p)
}

func (e RemovePoint) apply(z Zone) (Zone, error) {
	p, err := asPolygon(z, e)
	if err != nil {
		return nil, err
	}
	if len(p.Points) <= MinPolygonPoints {
		return nil, reject(z, e, "polygon would have fewer than %d points", MinPolygonPoints)
	}
	if e.Index < 0 || e.Index >= len(p.Points) {
		return nil, reject(z, e, "index %d out of range [0,%d)", e.Index, len(p.Points))
	}
	pts := make(geo.Ring, 0, len(p.Points)-1)
	pts = append(pts, p.Points[:e.Index]...)
	pts = append(pts, p.Points[e.Index+1:]...)
	p.Points = pts
	return p, nil
}

func (e Rotate) apply(z Zone) (Zone, error) {
	if math.IsNaN(e.Degrees) || math.IsInf(e.Degrees, 0) {
		return nil, reject(z, e, "angle is not finite")
	}
	switch v := z.(type) {
	case Circle:
		return v, nil
	case Polygon:
		center := v.Points.Centroid()
		rad := e.Degrees * math.Pi / 180
		pts := make(geo.Ring, len(v.Points))
		for i, pt := range v.Points {
			pts[i] = pt.RotateAround(center, rad)
		}
		v.Points = pts
		return v, nil
	}
	return nil, reject(z, e, "unknown zone type %T", z)
}
