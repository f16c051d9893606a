package dispatch

import (
	"context"
	"testing"
	"time"

	"masterlink/internal/models"
)

type testLogger struct{}

func (testLogger) Infof(string, ...interface{})  {}
func (testLogger) Errorf(string, ...interface{}) {}

type stubCandidates struct {
	cands []Candidate
	calls int
}

func (s *stubCandidates) SelectCandidates(ctx context.Context, req models.ServiceRequest, limit int) ([]Candidate, error) {
	s.calls++
	out := make([]Candidate, len(s.cands))
	copy(out, s.cands)
	return out, nil
}

type insertCall struct {
	requestID int
	masterIDs []int
	batchNo   int
	expiresAt time.Time
}

type stubStore struct {
	inserts     []insertCall
	skipMasters map[int]bool
	awaiting    []AwaitingRequest
	expireCalls int
	expired     int64
}

func (s *stubStore) InsertBatch(ctx context.Context, requestID int, masterIDs []int, batchNo int, sentAt, expiresAt time.Time) ([]int, error) {
	s.inserts = append(s.inserts, insertCall{requestID: requestID, masterIDs: masterIDs, batchNo: batchNo, expiresAt: expiresAt})
	inserted := make([]int, 0, len(masterIDs))
	for _, id := range masterIDs {
		if s.skipMasters[id] {
			continue
		}
		inserted = append(inserted, id)
	}
	return inserted, nil
}

func (s *stubStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	s.expireCalls++
	return s.expired, nil
}

func (s *stubStore) ListAwaiting(ctx context.Context, now time.Time) ([]AwaitingRequest, error) {
	return s.awaiting, nil
}

type stubNotifier struct {
	notified []int
}

func (s *stubNotifier) OfferSent(ctx context.Context, req models.ServiceRequest, masterID, batchNo int, expiresAt time.Time) {
	s.notified = append(s.notified, masterID)
}

func openRequest() models.ServiceRequest {
	return models.ServiceRequest{ID: 7, UserID: 1, Status: models.RequestStatusOpen, ScheduleMode: models.ScheduleToday}
}

func manyCandidates(n int) []Candidate {
	cands := make([]Candidate, 0, n)
	for i := 0; i < n; i++ {
		cands = append(cands, Candidate{MasterID: 100 + i})
	}
	return cands
}

func TestDispatchBatchHappyPath(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	cands := &stubCandidates{cands: manyCandidates(30)}
	store := &stubStore{}
	notifier := &stubNotifier{}

	d := NewDispatcher(cands, store, notifier, testLogger{}, Settings{ResponseWindow: 30 * time.Minute})
	d.clock = func() time.Time { return now }

	count, expiresAt, err := d.DispatchBatch(context.Background(), openRequest(), 15, 1)
	if err != nil {
		t.Fatalf("DispatchBatch error: %v", err)
	}
	if count != 15 {
		t.Fatalf("dispatched %d, want 15", count)
	}
	if want := now.Add(30 * time.Minute); !expiresAt.Equal(want) {
		t.Fatalf("expiry %v, want %v", expiresAt, want)
	}
	if len(store.inserts) != 1 || len(store.inserts[0].masterIDs) != 15 {
		t.Fatalf("expected a single insert of 15 rows, got %+v", store.inserts)
	}
	if len(notifier.notified) != 15 {
		t.Fatalf("notified %d masters, want 15", len(notifier.notified))
	}
}

func TestDispatchBatchNoOps(t *testing.T) {
	cands := &stubCandidates{cands: manyCandidates(5)}
	store := &stubStore{}

	d := NewDispatcher(cands, store, nil, testLogger{}, Settings{})

	closed := openRequest()
	closed.Status = models.RequestStatusClosed
	if count, _, err := d.DispatchBatch(context.Background(), closed, 15, 1); err != nil || count != 0 {
		t.Fatalf("closed request: count=%d err=%v, want 0, nil", count, err)
	}

	if count, _, err := d.DispatchBatch(context.Background(), openRequest(), 0, 1); err != nil || count != 0 {
		t.Fatalf("zero batch size: count=%d err=%v, want 0, nil", count, err)
	}

	empty := NewDispatcher(&stubCandidates{}, store, nil, testLogger{}, Settings{})
	if count, _, err := empty.DispatchBatch(context.Background(), openRequest(), 15, 1); err != nil || count != 0 {
		t.Fatalf("empty pool: count=%d err=%v, want 0, nil", count, err)
	}

	if len(store.inserts) != 0 {
		t.Fatalf("no-op paths must not persist anything, got %+v", store.inserts)
	}
}

func TestDispatchBatchFiltersSchedule(t *testing.T) {
	monday := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	cands := &stubCandidates{cands: []Candidate{
		{MasterID: 1, Availability: Availability{Days: []string{"tue"}}},
		{MasterID: 2, Availability: Availability{Days: []string{"mon"}}},
		{MasterID: 3},
	}}
	store := &stubStore{}

	d := NewDispatcher(cands, store, nil, testLogger{}, Settings{})
	d.clock = func() time.Time { return monday }

	count, _, err := d.DispatchBatch(context.Background(), openRequest(), 15, 1)
	if err != nil {
		t.Fatalf("DispatchBatch error: %v", err)
	}
	if count != 2 {
		t.Fatalf("dispatched %d, want 2 (tuesday-only master filtered out)", count)
	}
	for _, id := range store.inserts[0].masterIDs {
		if id == 1 {
			t.Fatalf("schedule-incompatible master was dispatched")
		}
	}
}

func TestDispatchBatchSkipsDuplicates(t *testing.T) {
	cands := &stubCandidates{cands: manyCandidates(3)}
	store := &stubStore{skipMasters: map[int]bool{101: true}}
	notifier := &stubNotifier{}

	d := NewDispatcher(cands, store, notifier, testLogger{}, Settings{})

	count, _, err := d.DispatchBatch(context.Background(), openRequest(), 15, 2)
	if err != nil {
		t.Fatalf("DispatchBatch error: %v", err)
	}
	if count != 2 {
		t.Fatalf("dispatched %d, want 2 (duplicate absorbed)", count)
	}
	for _, id := range notifier.notified {
		if id == 101 {
			t.Fatalf("master with an existing dispatch row must not be re-notified")
		}
	}
}

func TestDispatchBatchRanksBeforeCut(t *testing.T) {
	near, far := 1.0, 9.0
	lat, lon := 43.0, 76.0
	req := openRequest()
	req.ShareLocation = true
	req.Latitude, req.Longitude = &lat, &lon

	nearLat, nearLon := 43.0, 76.0+near/111.19
	farLat, farLon := 43.0, 76.0+far/111.19
	cands := &stubCandidates{cands: []Candidate{
		{MasterID: 1, Latitude: &farLat, Longitude: &farLon},
		{MasterID: 2, Latitude: &nearLat, Longitude: &nearLon},
	}}
	store := &stubStore{}

	d := NewDispatcher(cands, store, nil, testLogger{}, Settings{})

	if _, _, err := d.DispatchBatch(context.Background(), req, 1, 1); err != nil {
		t.Fatalf("DispatchBatch error: %v", err)
	}
	if got := store.inserts[0].masterIDs; len(got) != 1 || got[0] != 2 {
		t.Fatalf("batch of one must pick the nearest master, got %v", got)
	}
}
