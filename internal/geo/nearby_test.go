package geo

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"
)

type spot struct {
	id    string
	point *Point
}

func (s spot) Key() string { return s.id }

func (s spot) Point() (Point, bool) {
	if s.point == nil {
		return Point{}, false
	}
	return *s.point, true
}

func at(id string, lat, lng float64) spot {
	return spot{id: id, point: &Point{Lat: lat, Lng: lng}}
}

func keys[T Locatable](matches []Match[T]) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Candidate.Key()
	}
	return out
}

func TestNearby_NewYorkToLosAngeles(t *testing.T) {
	candidates := []spot{at("la", 34.0522, -118.2437)}

	got := Nearby(40.7128, -74.0060, 50, candidates)
	if len(got) != 0 {
		t.Fatalf("expected LA excluded at 50km, got %v", keys(got))
	}

	got = Nearby(40.7128, -74.0060, 4000, candidates)
	if len(got) != 1 {
		t.Fatalf("expected LA included at 4000km, got %d matches", len(got))
	}
	if math.Abs(got[0].DistanceKm-3936) > 1 {
		t.Errorf("expected distance ≈ 3936, got %.2f", got[0].DistanceKm)
	}
}

func TestNearby_TiesOrderedByKey(t *testing.T) {
	candidates := []spot{
		at("zeta", 5.6037, -0.1870),
		at("alpha", 5.6037, -0.1870),
		at("mid", 5.6037, -0.1870),
	}

	got := Nearby(5.6037, -0.1870, 10, candidates)
	want := []string{"alpha", "mid", "zeta"}
	if fmt.Sprint(keys(got)) != fmt.Sprint(want) {
		t.Fatalf("expected order %v, got %v", want, keys(got))
	}
	for _, m := range got {
		if m.DistanceKm != 0 {
			t.Errorf("expected distance 0 for %s, got %v", m.Candidate.id, m.DistanceKm)
		}
	}
}

func TestNearby_BoundaryIsExcluded(t *testing.T) {
	c := at("edge", 1, 0)
	exact := DistanceKm(0, 0, 1, 0)

	if got := Nearby(0, 0, exact, []spot{c}); len(got) != 0 {
		t.Errorf("candidate exactly on the radius must be excluded, got %v", keys(got))
	}
	if got := Nearby(0, 0, exact+1e-6, []spot{c}); len(got) != 1 {
		t.Errorf("candidate just inside the radius must be included, got %v", keys(got))
	}
}

func TestNearby_SkipsCandidatesWithoutLocation(t *testing.T) {
	candidates := []spot{{id: "nowhere"}, at("here", 0, 0)}

	got := Nearby(0, 0, 1, candidates)
	if len(got) != 1 || got[0].Candidate.id != "here" {
		t.Fatalf("expected only 'here', got %v", keys(got))
	}
}

func TestNearby_DefaultRadius(t *testing.T) {
	// ~44km and ~56km north of the origin
	candidates := []spot{at("inside", 0.4, 0), at("outside", 0.5, 0)}

	for _, r := range []float64{0, -1, math.NaN()} {
		got := Nearby(0, 0, r, candidates)
		if len(got) != 1 || got[0].Candidate.id != "inside" {
			t.Errorf("radius %v: expected default 50km to keep only 'inside', got %v", r, keys(got))
		}
	}
}

func TestNearby_EmptyResultIsNotNil(t *testing.T) {
	got := Nearby[spot](0, 0, 10, nil)
	if got == nil {
		t.Fatal("expected empty non-nil slice")
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func randomCandidates(r *rand.Rand, n int) []spot {
	out := make([]spot, n)
	for i := range out {
		out[i] = at(fmt.Sprintf("c-%03d", i), r.Float64()*20-10, r.Float64()*20-10)
	}
	return out
}

func TestNearby_SortedAscending(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		candidates := randomCandidates(r, 200)
		got := Nearby(0, 0, 1000, candidates)

		ok := sort.SliceIsSorted(got, func(i, j int) bool {
			return got[i].DistanceKm < got[j].DistanceKm
		})
		if !ok {
			t.Fatalf("round %d: result not sorted by distance", round)
		}
		for i := 1; i < len(got); i++ {
			if got[i].DistanceKm < got[i-1].DistanceKm {
				t.Fatalf("round %d: distance decreased at %d", round, i)
			}
		}
	}
}

func TestNearby_SmallerRadiusIsSubset(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	candidates := randomCandidates(r, 300)
	radii := []float64{1, 50, 120, 400, 900, 2000}

	for i := 0; i < len(radii)-1; i++ {
		small := Nearby(0, 0, radii[i], candidates)
		large := Nearby(0, 0, radii[i+1], candidates)

		inLarge := make(map[string]bool, len(large))
		for _, m := range large {
			inLarge[m.Candidate.id] = true
		}
		for _, m := range small {
			if !inLarge[m.Candidate.id] {
				t.Errorf("%s found within %vkm but not within %vkm", m.Candidate.id, radii[i], radii[i+1])
			}
		}
	}
}

func TestNearby_DoesNotMutateInput(t *testing.T) {
	candidates := []spot{at("b", 1, 1), at("a", 0, 0)}
	_ = Nearby(0, 0, 1000, candidates)

	if candidates[0].id != "b" || candidates[1].id != "a" {
		t.Errorf("input slice reordered: %v", candidates)
	}
}
