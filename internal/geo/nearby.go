package geo

import (
	"math"
	"sort"
)

// DefaultRadiusKm is used when a caller does not ask for a radius.
const DefaultRadiusKm = 50.0

// Locatable is anything the matcher can rank by distance.
type Locatable interface {
	// Key identifies the candidate and breaks ties between equal distances.
	Key() string
	// Point returns the candidate's coordinate, or false when it has none.
	Point() (Point, bool)
}

// Match is a candidate annotated with its distance from the origin.
type Match[T Locatable] struct {
	Candidate  T
	DistanceKm float64
}

// Nearby keeps the candidates strictly closer than radiusKm to the origin and
// orders them by ascending distance, then by key. A non-positive radius means
// DefaultRadiusKm. The result is never nil.
func Nearby[T Locatable](originLat, originLng, radiusKm float64, candidates []T) []Match[T] {
	if radiusKm <= 0 || math.IsNaN(radiusKm) {
		radiusKm = DefaultRadiusKm
	}

	origin := Point{Lat: originLat, Lng: originLng}
	matches := make([]Match[T], 0, len(candidates))
	for _, c := range candidates {
		p, ok := c.Point()
		if !ok {
			continue
		}
		d := Distance(origin, p)
		if d < radiusKm {
			matches = append(matches, Match[T]{Candidate: c, DistanceKm: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].Candidate.Key() < matches[j].Candidate.Key()
	})

	return matches
}
