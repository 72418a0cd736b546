package globe

import "testing"

func TestSectorFromLatLons(t *testing.T) {
	got := SectorFromLatLons([]LatLon{LL(10, -20), LL(-5, 40), LL(30, 0)})
	want := Sector{MinLat: -5, MaxLat: 30, MinLon: -20, MaxLon: 40}
	if got != want {
		t.Errorf("SectorFromLatLons = %+v, want %+v", got, want)
	}
	if got := SectorFromLatLons(nil); got != (Sector{}) {
		t.Errorf("SectorFromLatLons(nil) = %+v, want zero", got)
	}
}

func TestSectorContains(t *testing.T) {
	s := Sector{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	tests := []struct {
		name string
		ll   LatLon
		want bool
	}{
		{"interior", LL(5, 5), true},
		{"corner", LL(0, 0), true},
		{"edge", LL(10, 5), true},
		{"outside lat", LL(11, 5), false},
		{"outside lon", LL(5, -1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.ll); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.ll, got, tt.want)
			}
		})
	}
}

func TestSectorIntersection(t *testing.T) {
	a := Sector{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	b := Sector{MinLat: 5, MaxLat: 15, MinLon: 5, MaxLon: 15}
	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("Intersection reported no overlap")
	}
	want := Sector{MinLat: 5, MaxLat: 10, MinLon: 5, MaxLon: 10}
	if got != want {
		t.Errorf("Intersection = %+v, want %+v", got, want)
	}

	c := Sector{MinLat: 20, MaxLat: 30, MinLon: 20, MaxLon: 30}
	if _, ok := a.Intersection(c); ok {
		t.Error("Intersection of disjoint sectors reported overlap")
	}

	// Touching sectors intersect but their intersection has no area.
	d := Sector{MinLat: 0, MaxLat: 10, MinLon: 10, MaxLon: 20}
	if !a.Intersects(d) {
		t.Error("touching sectors should intersect")
	}
}

func TestSectorUnion(t *testing.T) {
	a := Sector{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	var empty Sector
	if got := a.Union(empty); got != a {
		t.Errorf("Union with empty = %+v, want %+v", got, a)
	}
	b := Sector{MinLat: -5, MaxLat: 5, MinLon: 20, MaxLon: 30}
	want := Sector{MinLat: -5, MaxLat: 10, MinLon: 0, MaxLon: 30}
	if got := a.Union(b); got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
}

func TestSectorCorners(t *testing.T) {
	s := Sector{MinLat: -1, MaxLat: 1, MinLon: -2, MaxLon: 2}
	c := s.Corners()
	if c[0] != LL(-1, -2) || c[2] != LL(1, 2) {
		t.Errorf("Corners = %v", c)
	}
}
