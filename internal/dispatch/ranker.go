package dispatch

import (
	"math"
	"sort"
	"time"
)

// Candidate is a master eligible for a request, as returned by the selector
// query. Latitude/Longitude are set only when the master shares location;
// DistanceKm is filled in against the client's position before ranking.
type Candidate struct {
	MasterID     int
	Name         string
	Latitude     *float64
	Longitude    *float64
	DistanceKm   *float64
	Rating       float64
	Reviews      int
	UpdatedAt    time.Time
	Availability Availability
}

func (c Candidate) rankDistance() float64 {
	if c.DistanceKm == nil {
		return math.Inf(1)
	}
	return *c.DistanceKm
}

// Rank orders candidates in place: distance ascending with unknown distance
// last, then rating descending, then review count descending, then the
// freshest profile. The sort is stable, so equal candidates keep the
// selector's recency order.
func Rank(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := cands[i].rankDistance(), cands[j].rankDistance()
		if di != dj {
			return di < dj
		}
		if cands[i].Rating != cands[j].Rating {
			return cands[i].Rating > cands[j].Rating
		}
		if cands[i].Reviews != cands[j].Reviews {
			return cands[i].Reviews > cands[j].Reviews
		}
		return cands[i].UpdatedAt.After(cands[j].UpdatedAt)
	})
}
