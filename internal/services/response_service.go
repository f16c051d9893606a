package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"masterlink/internal/dispatch"
	"masterlink/internal/models"
)

type ResponseStore interface {
	GetByID(ctx context.Context, id int) (models.Response, error)
	GetByPair(ctx context.Context, requestID, userID int) (models.Response, error)
	Create(ctx context.Context, resp models.Response) (models.Response, error)
	Update(ctx context.Context, resp models.Response) (models.Response, error)
	Accept(ctx context.Context, responseID int) (models.Response, bool, error)
	Reject(ctx context.Context, responseID int) (models.Response, error)
}

type DispatchGate interface {
	GetByPair(ctx context.Context, requestID, masterID int) (models.Dispatch, error)
	MarkResponded(ctx context.Context, requestID, masterID int) error
}

type MasterSource interface {
	GetProfile(ctx context.Context, masterID int) (models.MasterProfile, error)
}

// EventSink receives the thread-created event on first-time acceptance.
type EventSink interface {
	PublishThreadCreated(ctx context.Context, ev models.ThreadCreatedEvent) error
}

// Pusher delivers frames to connected websocket clients.
type Pusher interface {
	PushToUser(userID int, ev models.WSEvent)
}

type ResponseService struct {
	ResponseRepo ResponseStore
	RequestRepo  RequestStore
	DispatchRepo DispatchGate
	MasterRepo   MasterSource
	Events       EventSink
	Hub          Pusher
	Logger       dispatch.Logger
}

// SubmitResponse creates a master's reply to a request, or amends the
// existing one while it is still "sent". A reply is only admitted when the
// request is open, the master is eligible, and either an amendable response
// or a live dispatch exists for the pair. Submission marks the dispatch
// responded.
func (s *ResponseService) SubmitResponse(ctx context.Context, input models.Response) (models.Response, error) {
	input.Comment = strings.TrimSpace(input.Comment)
	if input.RequestID <= 0 || input.UserID <= 0 {
		return models.Response{}, models.ErrInvalidInput
	}
	if input.Empty() {
		return models.Response{}, models.ErrEmptyResponse
	}

	req, err := s.RequestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Response{}, models.ErrNoRecord
		}
		return models.Response{}, err
	}
	if req.Status != models.RequestStatusOpen {
		return models.Response{}, models.ErrRequestClosed
	}
	if req.UserID == input.UserID {
		return models.Response{}, models.ErrForbidden
	}

	profile, err := s.MasterRepo.GetProfile(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Response{}, models.ErrNotEligible
		}
		return models.Response{}, err
	}
	if !profile.IsActive ||
		profile.CityID != req.CityID ||
		profile.DistrictID != req.DistrictID ||
		!profile.ServesCategory(req.CategoryID) ||
		!profile.AcceptsLocation(req.LocationMode) {
		return models.Response{}, models.ErrNotEligible
	}

	existing, err := s.ResponseRepo.GetByPair(ctx, input.RequestID, input.UserID)
	if err == nil {
		switch existing.Status {
		case models.ResponseStatusAccepted:
			return models.Response{}, models.ErrResponseAccepted
		case models.ResponseStatusRejected:
			return models.Response{}, models.ErrResponseRejected
		}
		existing.Price = input.Price
		existing.Comment = input.Comment
		existing.ProposedAt = input.ProposedAt
		updated, err := s.ResponseRepo.Update(ctx, existing)
		if err != nil {
			return models.Response{}, err
		}
		if err := s.DispatchRepo.MarkResponded(ctx, input.RequestID, input.UserID); err != nil {
			return models.Response{}, err
		}
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Response{}, err
	}

	d, err := s.DispatchRepo.GetByPair(ctx, input.RequestID, input.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Response{}, models.ErrNotDispatched
		}
		return models.Response{}, err
	}
	if d.Status == models.DispatchStatusExpired || time.Now().After(d.ExpiresAt) {
		return models.Response{}, models.ErrWindowClosed
	}

	created, err := s.ResponseRepo.Create(ctx, input)
	if err != nil {
		return models.Response{}, err
	}
	if err := s.DispatchRepo.MarkResponded(ctx, input.RequestID, input.UserID); err != nil {
		return models.Response{}, err
	}
	return created, nil
}

// AcceptResponse runs the first-accept-wins cascade. Only the request owner
// may accept. On first-time acceptance a thread-created event goes out to
// the chat subsystem; event failures are logged and never roll back the
// transition.
func (s *ResponseService) AcceptResponse(ctx context.Context, responseID, callerID int) (models.Response, error) {
	resp, err := s.ResponseRepo.GetByID(ctx, responseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Response{}, models.ErrNoRecord
		}
		return models.Response{}, err
	}

	req, err := s.RequestRepo.GetByID(ctx, resp.RequestID)
	if err != nil {
		return models.Response{}, err
	}
	if req.UserID != callerID {
		return models.Response{}, models.ErrForbidden
	}

	accepted, first, err := s.ResponseRepo.Accept(ctx, responseID)
	if err != nil {
		return models.Response{}, err
	}

	if first {
		ev := models.ThreadCreatedEvent{
			EventID:     uuid.NewString(),
			RequestID:   req.ID,
			ResponseID:  accepted.ID,
			ClientID:    req.UserID,
			MasterID:    accepted.UserID,
			ServiceName: req.Title,
			CreatedAt:   time.Now(),
		}
		if err := s.Events.PublishThreadCreated(ctx, ev); err != nil {
			s.Logger.Errorf("response %d: thread created event failed: %v", accepted.ID, err)
		}
		if s.Hub != nil {
			frame := models.WSEvent{Type: "thread_created", Data: ev}
			s.Hub.PushToUser(req.UserID, frame)
			s.Hub.PushToUser(accepted.UserID, frame)
		}
	}
	return accepted, nil
}

// RejectResponse declines a single reply without touching the rest of the
// request.
func (s *ResponseService) RejectResponse(ctx context.Context, responseID, callerID int) (models.Response, error) {
	resp, err := s.ResponseRepo.GetByID(ctx, responseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Response{}, models.ErrNoRecord
		}
		return models.Response{}, err
	}

	req, err := s.RequestRepo.GetByID(ctx, resp.RequestID)
	if err != nil {
		return models.Response{}, err
	}
	if req.UserID != callerID {
		return models.Response{}, models.ErrForbidden
	}

	return s.ResponseRepo.Reject(ctx, responseID)
}
