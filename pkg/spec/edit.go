package spec

import (
	"fmt"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

// EditDef is the wire and file form of a zone edit. Op is one of the
// zone.Edit names; the other fields are read according to Op.
type EditDef struct {
	Op      string     `yaml:"op" json:"op"`
	Center  *geo.Point `yaml:"center,omitempty" json:"center,omitempty"`
	Radius  float64    `yaml:"radius,omitempty" json:"radius,omitempty"`
	Handle  *geo.Point `yaml:"handle,omitempty" json:"handle,omitempty"`
	Index   int        `yaml:"index,omitempty" json:"index,omitempty"`
	Point   *geo.Point `yaml:"point,omitempty" json:"point,omitempty"`
	Degrees float64    `yaml:"degrees,omitempty" json:"degrees,omitempty"`
}

// ToEdit converts the record into a zone edit.
func (d EditDef) ToEdit() (zone.Edit, error) {
	need := func(p *geo.Point, field string) (geo.Point, error) {
		if p == nil {
			return geo.Point{}, fmt.Errorf("edit %s: missing %s: %w", d.Op, field, zone.ErrInvalidGeometry)
		}
		return *p, nil
	}

	switch d.Op {
	case "move_center":
		c, err := need(d.Center, "center")
		return zone.MoveCenter{Center: c}, err
	case "resize":
		return zone.Resize{Radius: d.Radius}, nil
	case "resize_to_handle":
		h, err := need(d.Handle, "handle")
		return zone.ResizeToHandle{Handle: h}, err
	case "move_point":
		p, err := need(d.Point, "point")
		return zone.MovePoint{Index: d.Index, Point: p}, err
	case "insert_point":
		p, err := need(d.Point, "point")
		return zone.InsertPoint{Index: d.Index, Point: p}, err
	case "append_point":
		p, err := need(d.Point, "point")
		return zone.AppendPoint{Point: p}, err
	case "remove_point":
		return zone.RemovePoint{Index: d.Index}, nil
	case "rotate":
		return zone.Rotate{Degrees: d.Degrees}, nil
	}
	return nil, fmt.Errorf("unknown edit op %q: %w", d.Op, zone.ErrInvalidGeometry)
}

// Edits converts a list of records, stopping at the first bad one.
func Edits(defs []EditDef) ([]zone.Edit, error) {
	out := make([]zone.Edit, 0, len(defs))
	for i, d := range defs {
		e, err := d.ToEdit()
		if err != nil {
			return nil, fmt.Errorf("edits[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
