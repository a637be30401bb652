// Package osm imports parking lots from OpenStreetMap through the Overpass
// API.
package osm

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/serjvanilla/go-overpass"

	"github.com/yusuferdem16/zero-emission/pkg/facility"
	"github.com/yusuferdem16/zero-emission/pkg/geo"
)

// BBox is a south-west / north-east query box.
type BBox struct {
	South, West, North, East float64
}

// String formats the box in Overpass order: south,west,north,east.
func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.South, b.West, b.North, b.East)
}

// Validate checks that the box is ordered and on the globe.
func (b BBox) Validate() error {
	if b.South > b.North || b.West > b.East {
		return fmt.Errorf("bbox %s: south/west must not exceed north/east", b)
	}
	if b.South < -90 || b.North > 90 || b.West < -180 || b.East > 180 {
		return fmt.Errorf("bbox %s: out of range", b)
	}
	return nil
}

// ParseBBox reads "south,west,north,east".
func ParseBBox(s string) (BBox, error) {
	var v [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox %q: want south,west,north,east", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	b := BBox{South: v[0], West: v[1], North: v[2], East: v[3]}
	return b, b.Validate()
}

// Query builds the Overpass QL request for parking nodes and ways in b.
func Query(b BBox) string {
	return fmt.Sprintf(`
		[out:json];
		(
			node["amenity"="parking"](%[1]s);
			way["amenity"="parking"](%[1]s);
		);
		out body;
		>;
		out skel qt;
	`, b)
}

// Importer fetches parking lots from an Overpass endpoint.
type Importer struct {
	endpoint string
	timeout  time.Duration
}

// NewImporter creates an importer for the given interpreter URL.
func NewImporter(endpoint string, timeout time.Duration) *Importer {
	return &Importer{endpoint: endpoint, timeout: timeout}
}

// ctxTransport attaches a context to every request, since the Overpass
// client does not take one.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(r.WithContext(t.ctx))
}

// Parking returns the parking lots inside b, sorted by OSM ID.
func (im *Importer) Parking(ctx context.Context, b BBox) ([]facility.ParkingLot, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, im.timeout)
	defer cancel()

	httpClient := &http.Client{
		Timeout:   im.timeout,
		Transport: ctxTransport{ctx: ctx, base: http.DefaultTransport},
	}
	client := overpass.NewWithSettings(im.endpoint, 1, httpClient)

	result, err := client.Query(Query(b))
	if err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}
	return ParkingLots(&result), nil
}

// ParkingLots converts tagged parking nodes and ways into lots. A way is
// placed at the mean of its nodes. Unnamed lots keep an empty name so the
// caller can number them.
func ParkingLots(result *overpass.Result) []facility.ParkingLot {
	type found struct {
		id   int64
		kind string
		lot  facility.ParkingLot
	}
	var all []found

	for _, node := range result.Nodes {
		if node.Tags["amenity"] != "parking" {
			continue
		}
		all = append(all, found{id: node.ID, kind: "node", lot: facility.ParkingLot{
			Position: geo.Pt(node.Lat, node.Lon),
			Name:     node.Tags["name"],
		}})
	}

	for _, way := range result.Ways {
		if way.Tags["amenity"] != "parking" || len(way.Nodes) == 0 {
			continue
		}
		var lat, lon float64
		n := 0
		for _, node := range way.Nodes {
			if node == nil {
				continue
			}
			lat += node.Lat
			lon += node.Lon
			n++
		}
		if n == 0 {
			continue
		}
		all = append(all, found{id: way.ID, kind: "way", lot: facility.ParkingLot{
			Position: geo.Pt(lat/float64(n), lon/float64(n)),
			Name:     way.Tags["name"],
		}})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].kind != all[j].kind {
			return all[i].kind < all[j].kind
		}
		return all[i].id < all[j].id
	})

	lots := make([]facility.ParkingLot, len(all))
	for i, f := range all {
		f.lot.ID = fmt.Sprintf("osm-%s-%d", f.kind, f.id)
		lots[i] = f.lot
	}
	return lots
}
