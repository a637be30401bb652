package scene

import (
	"testing"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
	"github.com/yusuferdem16/zero-emission/pkg/zone"
)

func benchScene(b *testing.B, n int) *Scene {
	s := New("bench")
	populate(b, s, n)
	return s
}

func BenchmarkZonesAt400(b *testing.B) {
	s := benchScene(b, 20)
	p := geo.Pt(48.905, 2.405)
	for b.Loop() {
		s.ZonesAt(p)
	}
}

func BenchmarkContainsAnyBruteForce400(b *testing.B) {
	zones := benchScene(b, 20).Zones()
	p := geo.Pt(48.905, 2.405)
	for b.Loop() {
		zone.ContainsAny(p, zones)
	}
}

func BenchmarkEvaluate400(b *testing.B) {
	s := benchScene(b, 20)
	v, _ := s.AddVehicle(geo.Pt(48.79, 2.29), routing.AccessRestricted)
	for i := 0; i < 10; i++ {
		s.AddParkingLot(geo.Pt(48.79+float64(i)*0.02, 2.50), "")
	}
	dest := geo.Pt(49.0, 2.50)
	for b.Loop() {
		s.Evaluate(v.ID, dest)
	}
}
