package spec

import (
	"errors"
	"testing"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
	"gopkg.in/yaml.v3"
)

func TestEditDefsFromYAML(t *testing.T) {
	src := `
- op: move_center
  center: {lat: 48.86, lng: 2.35}
- op: resize
  radius: 750
- op: insert_point
  index: 2
  point: {lat: 48.861, lng: 2.361}
- op: remove_point
  index: 0
- op: rotate
  degrees: 45
`
	var defs []EditDef
	if err := yaml.Unmarshal([]byte(src), &defs); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	edits, err := Edits(defs)
	if err != nil {
		t.Fatalf("Edits failed: %v", err)
	}
	if len(edits) != 5 {
		t.Fatalf("expected 5 edits, got %d", len(edits))
	}
	if mc, ok := edits[0].(zone.MoveCenter); !ok || mc.Center != geo.Pt(48.86, 2.35) {
		t.Errorf("unexpected first edit %#v", edits[0])
	}
	if ip, ok := edits[2].(zone.InsertPoint); !ok || ip.Index != 2 {
		t.Errorf("unexpected insert edit %#v", edits[2])
	}
	for i, want := range []string{"move_center", "resize", "insert_point", "remove_point", "rotate"} {
		if edits[i].Name() != want {
			t.Errorf("edits[%d] = %s, want %s", i, edits[i].Name(), want)
		}
	}
}

func TestEditDefMissingPoint(t *testing.T) {
	_, err := EditDef{Op: "move_point", Index: 1}.ToEdit()
	if !errors.Is(err, zone.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestEditDefUnknownOp(t *testing.T) {
	if _, err := Edits([]EditDef{{Op: "resize", Radius: 1}, {Op: "explode"}}); err == nil {
		t.Error("expected error for unknown op")
	}
}
