package dispatch

import (
	"context"
	"time"

	"masterlink/internal/models"
)

// Logger is a minimal logger interface required by the engine.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Settings holds the engine constants. Zero values fall back to the
// production defaults.
type Settings struct {
	ResponseWindow time.Duration
	CycleInterval  time.Duration
	InitialBatch   int
	ExpandedBatch  int
	MaxCandidates  int
}

func (s Settings) withDefaults() Settings {
	if s.ResponseWindow <= 0 {
		s.ResponseWindow = 30 * time.Minute
	}
	if s.CycleInterval <= 0 {
		s.CycleInterval = time.Minute
	}
	if s.InitialBatch <= 0 {
		s.InitialBatch = 15
	}
	if s.ExpandedBatch <= 0 {
		s.ExpandedBatch = 20
	}
	if s.MaxCandidates <= 0 {
		s.MaxCandidates = 200
	}
	return s
}

// CandidateSource returns eligible, not-yet-dispatched masters for a
// request, most recently updated first, capped at limit.
type CandidateSource interface {
	SelectCandidates(ctx context.Context, req models.ServiceRequest, limit int) ([]Candidate, error)
}

// AwaitingRequest is an open request with no responses and no live
// dispatches, together with its dispatch history.
type AwaitingRequest struct {
	Request         models.ServiceRequest
	TotalDispatches int
	MaxBatch        int
}

// DispatchStore persists dispatch rows and drives the cycle queries.
type DispatchStore interface {
	// InsertBatch writes one dispatch row per master and returns the IDs
	// actually inserted. Rows violating the (request, master) uniqueness
	// are skipped silently.
	InsertBatch(ctx context.Context, requestID int, masterIDs []int, batchNo int, sentAt, expiresAt time.Time) ([]int, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	ListAwaiting(ctx context.Context, now time.Time) ([]AwaitingRequest, error)
}

// OfferNotifier is told about every dispatch row written. Notification
// failures must not fail the dispatch; implementations log and move on.
type OfferNotifier interface {
	OfferSent(ctx context.Context, req models.ServiceRequest, masterID, batchNo int, expiresAt time.Time)
}

// Dispatcher selects, ranks, filters and persists one batch of offers.
type Dispatcher struct {
	candidates CandidateSource
	store      DispatchStore
	notifier   OfferNotifier
	logger     Logger
	settings   Settings
	clock      func() time.Time
}

func NewDispatcher(candidates CandidateSource, store DispatchStore, notifier OfferNotifier, logger Logger, settings Settings) *Dispatcher {
	return &Dispatcher{
		candidates: candidates,
		store:      store,
		notifier:   notifier,
		logger:     logger,
		settings:   settings.withDefaults(),
		clock:      time.Now,
	}
}

// DispatchBatch offers the request to up to batchSize top-ranked,
// schedule-compatible masters, all sharing one expiry. It returns the count
// actually dispatched and that expiry. A closed request, a non-positive
// batch size or an empty pool dispatch nothing and return no error.
func (d *Dispatcher) DispatchBatch(ctx context.Context, req models.ServiceRequest, batchSize, batchNo int) (int, time.Time, error) {
	if req.Status != models.RequestStatusOpen || batchSize <= 0 {
		return 0, time.Time{}, nil
	}

	cands, err := d.candidates.SelectCandidates(ctx, req, d.settings.MaxCandidates)
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(cands) == 0 {
		return 0, time.Time{}, nil
	}

	for i := range cands {
		cands[i].DistanceKm = clientDistance(req, cands[i])
	}
	Rank(cands)

	now := d.clock()
	picked := make([]int, 0, batchSize)
	for _, c := range cands {
		if !IsScheduleCompatible(c.Availability, req, now) {
			continue
		}
		picked = append(picked, c.MasterID)
		if len(picked) == batchSize {
			break
		}
	}
	if len(picked) == 0 {
		return 0, time.Time{}, nil
	}

	expiresAt := now.Add(d.settings.ResponseWindow)
	inserted, err := d.store.InsertBatch(ctx, req.ID, picked, batchNo, now, expiresAt)
	if err != nil {
		return 0, time.Time{}, err
	}

	if d.notifier != nil {
		for _, masterID := range inserted {
			d.notifier.OfferSent(ctx, req, masterID, batchNo, expiresAt)
		}
	}

	d.logger.Infof("dispatch: request %d batch %d sent to %d masters", req.ID, batchNo, len(inserted))
	return len(inserted), expiresAt, nil
}

// clientDistance yields a distance only when both parties share location.
func clientDistance(req models.ServiceRequest, c Candidate) *float64 {
	if !req.ShareLocation {
		return nil
	}
	return distancePtr(req.Latitude, req.Longitude, c.Latitude, c.Longitude)
}
