package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"masterlink/internal/models"
)

type stubDispatcher struct {
	count     int
	expiresAt time.Time
	err       error
	calls     int
	batchSize int
	batchNo   int
}

func (s *stubDispatcher) DispatchBatch(ctx context.Context, req models.ServiceRequest, batchSize, batchNo int) (int, time.Time, error) {
	s.calls++
	s.batchSize = batchSize
	s.batchNo = batchNo
	if s.err != nil {
		return 0, time.Time{}, s.err
	}
	return s.count, s.expiresAt, nil
}

func validInput() models.ServiceRequest {
	return models.ServiceRequest{
		UserID:       10,
		Title:        "Fix kitchen sink",
		CityID:       1,
		DistrictID:   2,
		CategoryID:   3,
		LocationMode: models.LocationClientSite,
		ScheduleMode: models.ScheduleToday,
	}
}

func TestCreateRequestDispatchesInitialBatch(t *testing.T) {
	expiry := time.Now().Add(30 * time.Minute)
	d := &stubDispatcher{count: 12, expiresAt: expiry}
	svc := &RequestService{RequestRepo: &stubRequests{}, Dispatcher: d, InitialBatch: 15, Logger: nopLogger{}}

	created, receipt, err := svc.CreateRequest(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateRequest error: %v", err)
	}
	if created.Status != models.RequestStatusOpen {
		t.Fatalf("status %q, want open", created.Status)
	}
	if d.calls != 1 || d.batchSize != 15 || d.batchNo != 1 {
		t.Fatalf("dispatcher called %d times with size=%d batch=%d, want 1/15/1", d.calls, d.batchSize, d.batchNo)
	}
	if receipt.DispatchedCount != 12 || receipt.ExpiresAt == nil || !receipt.ExpiresAt.Equal(expiry) {
		t.Fatalf("bad receipt: %+v", receipt)
	}
}

func TestCreateRequestDegradesOnDispatchFailure(t *testing.T) {
	d := &stubDispatcher{err: errors.New("store unavailable")}
	svc := &RequestService{RequestRepo: &stubRequests{}, Dispatcher: d, InitialBatch: 15, Logger: nopLogger{}}

	created, receipt, err := svc.CreateRequest(context.Background(), validInput())
	if err != nil {
		t.Fatalf("dispatch failure must not fail the creation: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("request must still be persisted")
	}
	if receipt.DispatchedCount != 0 || receipt.ExpiresAt != nil {
		t.Fatalf("degraded receipt must be empty: %+v", receipt)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	svc := &RequestService{RequestRepo: &stubRequests{}, Dispatcher: &stubDispatcher{}, InitialBatch: 15, Logger: nopLogger{}}

	for _, mutate := range []func(*models.ServiceRequest){
		func(r *models.ServiceRequest) { r.CityID = 0 },
		func(r *models.ServiceRequest) { r.CategoryID = 0 },
		func(r *models.ServiceRequest) { r.LocationMode = "somewhere" },
		func(r *models.ServiceRequest) { r.ScheduleMode = "whenever" },
	} {
		input := validInput()
		mutate(&input)
		if _, _, err := svc.CreateRequest(context.Background(), input); !errors.Is(err, models.ErrInvalidInput) {
			t.Fatalf("input %+v: got %v, want ErrInvalidInput", input, err)
		}
	}
}
