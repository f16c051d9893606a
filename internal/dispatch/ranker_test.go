package dispatch

import (
	"testing"
	"time"
)

func km(v float64) *float64 { return &v }

func TestRankKnownDistanceFirst(t *testing.T) {
	cands := []Candidate{
		{MasterID: 1, DistanceKm: km(3.0), Rating: 4.0},
		{MasterID: 2, DistanceKm: km(1.0), Rating: 4.0},
		{MasterID: 3, DistanceKm: nil, Rating: 5.0},
	}

	Rank(cands)

	want := []int{2, 1, 3}
	for i, id := range want {
		if cands[i].MasterID != id {
			t.Fatalf("position %d: got master %d, want %d", i, cands[i].MasterID, id)
		}
	}
}

func TestRankTieBreaks(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	cands := []Candidate{
		{MasterID: 1, DistanceKm: km(2.0), Rating: 4.0, Reviews: 10, UpdatedAt: older},
		{MasterID: 2, DistanceKm: km(2.0), Rating: 4.5, Reviews: 3, UpdatedAt: older},
		{MasterID: 3, DistanceKm: km(2.0), Rating: 4.0, Reviews: 25, UpdatedAt: older},
		{MasterID: 4, DistanceKm: km(2.0), Rating: 4.0, Reviews: 10, UpdatedAt: newer},
	}

	Rank(cands)

	// Rating wins, then review count, then the freshest profile.
	want := []int{2, 3, 4, 1}
	for i, id := range want {
		if cands[i].MasterID != id {
			t.Fatalf("position %d: got master %d, want %d", i, cands[i].MasterID, id)
		}
	}
}

func TestRankZeroReviewsRankByZero(t *testing.T) {
	cands := []Candidate{
		{MasterID: 1, Rating: 0, Reviews: 0},
		{MasterID: 2, Rating: 3.5, Reviews: 2},
	}

	Rank(cands)

	if cands[0].MasterID != 2 {
		t.Fatalf("rated master must precede unrated one, got %d first", cands[0].MasterID)
	}
}
