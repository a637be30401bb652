package scene

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

// minExtent pads degenerate boxes; rtreego rejects zero-length sides and
// does not report rectangles that only touch.
const minExtent = 1e-9

// indexEntry implements rtreego.Spatial for one zone's bounding box.
type indexEntry struct {
	id   string
	rect rtreego.Rect
}

func (e *indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

// zoneIndex is an R-tree over zone bounding boxes, used to narrow hit-tests
// before the exact containment and crossing checks.
type zoneIndex struct {
	tree    *rtreego.Rtree
	entries map[string]*indexEntry
}

func newZoneIndex() *zoneIndex {
	return &zoneIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[string]*indexEntry),
	}
}

// zoneBound converts a zone's bounding box into orb's X=lng, Y=lat form.
func zoneBound(z zone.Zone) orb.Bound {
	lo, hi := z.BoundingBox()
	return orb.Bound{
		Min: orb.Point{lo.Lng, lo.Lat},
		Max: orb.Point{hi.Lng, hi.Lat},
	}
}

func pointBound(p geo.Point) orb.Bound {
	return orb.Point{p.Lng, p.Lat}.Bound()
}

func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	minX, minY := b.Min[0]-minExtent, b.Min[1]-minExtent
	w := b.Max[0] - b.Min[0] + 2*minExtent
	h := b.Max[1] - b.Min[1] + 2*minExtent
	if math.IsNaN(w) || math.IsNaN(h) {
		return rtreego.Rect{}, fmt.Errorf("bounding box %v is not finite", b)
	}
	return rtreego.NewRect(rtreego.Point{minX, minY}, []float64{w, h})
}

// put inserts or replaces the entry for z.
func (ix *zoneIndex) put(z zone.Zone) error {
	rect, err := boundToRect(zoneBound(z))
	if err != nil {
		return fmt.Errorf("indexing zone %s: %w", z.ZoneID(), err)
	}
	ix.remove(z.ZoneID())
	e := &indexEntry{id: z.ZoneID(), rect: rect}
	ix.tree.Insert(e)
	ix.entries[e.id] = e
	return nil
}

func (ix *zoneIndex) remove(id string) {
	if e, ok := ix.entries[id]; ok {
		ix.tree.Delete(e)
		delete(ix.entries, id)
	}
}

func (ix *zoneIndex) search(b orb.Bound) map[string]bool {
	rect, err := boundToRect(b)
	if err != nil {
		return nil
	}
	hits := ix.tree.SearchIntersect(rect)
	out := make(map[string]bool, len(hits))
	for _, h := range hits {
		out[h.(*indexEntry).id] = true
	}
	return out
}

// searchPoint returns the IDs of zones whose box may contain p.
func (ix *zoneIndex) searchPoint(p geo.Point) map[string]bool {
	return ix.search(pointBound(p))
}

// searchSegment returns the IDs of zones whose box may meet the segment
// start→end.
func (ix *zoneIndex) searchSegment(start, end geo.Point) map[string]bool {
	return ix.search(pointBound(start).Extend(orb.Point{end.Lng, end.Lat}))
}

func (ix *zoneIndex) size() int {
	return ix.tree.Size()
}
