// Package facility searches parking lots for detours around restricted zones.
package facility

import (
	"fmt"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

// ParkingLot is a place a restricted vehicle may stop outside every zone.
type ParkingLot struct {
	ID       string    `json:"id"`
	Position geo.Point `json:"position"`
	Name     string    `json:"name"`
}

// DefaultName is the display name given to the n-th lot (1-based) when none is set.
func DefaultName(n int) string {
	return fmt.Sprintf("Parking %d", n)
}

// Nearest returns the lot closest to p. Ties go to the earliest lot in the
// slice. ok is false when lots is empty.
func Nearest(p geo.Point, lots []ParkingLot) (lot ParkingLot, ok bool) {
	if len(lots) == 0 {
		return ParkingLot{}, false
	}
	best := 0
	bestDist := geo.Distance(p, lots[0].Position)
	for i := 1; i < len(lots); i++ {
		if d := geo.Distance(p, lots[i].Position); d < bestDist {
			best, bestDist = i, d
		}
	}
	return lots[best], true
}

// Feasible reports whether neither leg start→lot nor lot→end crosses a zone.
func Feasible(start, end geo.Point, lot ParkingLot, zones []zone.Zone) bool {
	return !zone.CrossesAny(start, lot.Position, zones) &&
		!zone.CrossesAny(lot.Position, end, zones)
}

// DetourDistance is the length of start→lot→end in meters.
func DetourDistance(start, end geo.Point, lot ParkingLot) float64 {
	return geo.Distance(start, lot.Position) + geo.Distance(lot.Position, end)
}

// Best returns the feasible lot with the shortest detour from start to end.
// Ties go to the earliest lot in the slice. ok is false when no lot is
// feasible, which includes the case of no lots at all.
func Best(start, end geo.Point, lots []ParkingLot, zones []zone.Zone) (lot ParkingLot, ok bool) {
	bestDist := 0.0
	for _, l := range lots {
		if !Feasible(start, end, l, zones) {
			continue
		}
		d := DetourDistance(start, end, l)
		if !ok || d < bestDist {
			lot, bestDist, ok = l, d, true
		}
	}
	return lot, ok
}
