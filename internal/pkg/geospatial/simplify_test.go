package geospatial_test

import (
	"math"
	"testing"

	"github.com/roadbook/roadbook/internal/core/domain"
	"github.com/roadbook/roadbook/internal/pkg/geospatial"
)

// zigzag builds a path along a line with alternating lateral offsets.
func zigzag(n int, amplitude float64) domain.Path {
	path := make(domain.Path, n)
	for i := range path {
		lat := 30.0 + float64(i)*0.001
		lng := -115.0
		if i%2 == 1 {
			lng += amplitude
		}
		path[i] = domain.GeoPoint{Lat: lat, Lng: lng}
	}
	return path
}

func TestSimplify_ShortPathsUnchanged(t *testing.T) {
	for _, path := range []domain.Path{
		nil,
		{{Lat: 30, Lng: -115}},
		{{Lat: 30, Lng: -115}, {Lat: 31, Lng: -116}},
	} {
		out := geospatial.Simplify(path, 0.0005)
		if len(out) != len(path) {
			t.Errorf("path of length %d changed to %d", len(path), len(out))
		}
	}
}

func TestSimplify_CollinearCollapsesToEndpoints(t *testing.T) {
	path := make(domain.Path, 50)
	for i := range path {
		path[i] = domain.GeoPoint{Lat: 30.0 + float64(i)*0.01, Lng: -115.0 + float64(i)*0.01}
	}

	out := geospatial.Simplify(path, 0.0005)
	if len(out) != 2 {
		t.Fatalf("collinear path should collapse to 2 points, got %d", len(out))
	}
	if out[0] != path[0] || out[1] != path[len(path)-1] {
		t.Error("endpoints not retained")
	}
}

func TestSimplify_LargeDeviationsKept(t *testing.T) {
	// Amplitude well above tolerance: every interior vertex matters.
	path := zigzag(9, 0.01)
	out := geospatial.Simplify(path, 0.0005)
	if len(out) != len(path) {
		t.Errorf("expected all %d points kept, got %d", len(path), len(out))
	}
}

func TestSimplify_SubsequenceProperty(t *testing.T) {
	path := zigzag(101, 0.0003)
	out := geospatial.Simplify(path, 0.0005)

	if out[0] != path[0] || out[len(out)-1] != path[len(path)-1] {
		t.Fatal("endpoints not retained")
	}

	// Every output point must appear in the input, in order.
	j := 0
	for _, pt := range out {
		found := false
		for ; j < len(path); j++ {
			if path[j] == pt {
				found = true
				j++
				break
			}
		}
		if !found {
			t.Fatalf("output point %+v is not an in-order member of the input", pt)
		}
	}
}

func TestSimplify_ErrorBound(t *testing.T) {
	const tolerance = 0.0005
	path := zigzag(101, 0.0003)
	out := geospatial.Simplify(path, tolerance)

	// Each discarded input point must be within tolerance of the simplified
	// segment that spans it.
	seg := 0
	for _, pt := range path {
		for seg < len(out)-2 && !between(out[seg], out[seg+1], pt, path) {
			seg++
		}
		d := pointToSegment(pt, out[seg], out[seg+1])
		if d > tolerance+1e-12 {
			t.Fatalf("discarded point %+v deviates %g degrees, tolerance %g", pt, d, tolerance)
		}
	}
}

// between reports whether pt lies between a and b in the original ordering.
func between(a, b, pt domain.GeoPoint, path domain.Path) bool {
	ai, bi, pi := -1, -1, -1
	for i, p := range path {
		if p == a && ai == -1 {
			ai = i
		}
		if p == b && i > ai {
			bi = i
		}
		if p == pt && pi == -1 {
			pi = i
		}
	}
	return ai <= pi && pi <= bi
}

func pointToSegment(p, a, b domain.GeoPoint) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat
	if dx == 0 && dy == 0 {
		return math.Hypot(p.Lng-a.Lng, p.Lat-a.Lat)
	}
	t := ((p.Lng-a.Lng)*dx + (p.Lat-a.Lat)*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p.Lng-(a.Lng+t*dx), p.Lat-(a.Lat+t*dy))
}

func TestSimplify_Deterministic(t *testing.T) {
	path := zigzag(500, 0.0004)

	first := geospatial.Simplify(path, 0.0005)
	second := geospatial.Simplify(path, 0.0005)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("outputs differ at %d", i)
		}
	}
}

func TestSimplifyMax_EnforcesPointCap(t *testing.T) {
	path := zigzag(500, 0.01) // every vertex significant at base tolerance

	out := geospatial.SimplifyMax(path, 0.0005, 100)
	if len(out) > 100 {
		t.Fatalf("expected at most 100 points, got %d", len(out))
	}
	if out[0] != path[0] || out[len(out)-1] != path[len(path)-1] {
		t.Error("endpoints not retained under cap")
	}
}

func TestHaversine(t *testing.T) {
	// Bilbao Abando to Moyua is a few hundred meters.
	d := geospatial.Haversine(43.2609, -2.9334, 43.2627, -2.9253)
	if d < 500 || d > 1000 {
		t.Errorf("implausible distance %f meters", d)
	}

	if geospatial.Haversine(30, -115, 30, -115) != 0 {
		t.Error("identical points should be 0 meters apart")
	}
}
