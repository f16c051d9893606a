package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"masterlink/internal/dispatch"
	"masterlink/internal/models"
)

// BatchDispatcher is the engine entry point the request flow needs.
type BatchDispatcher interface {
	DispatchBatch(ctx context.Context, req models.ServiceRequest, batchSize, batchNo int) (int, time.Time, error)
}

type RequestStore interface {
	Create(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error)
	GetByID(ctx context.Context, id int) (models.ServiceRequest, error)
}

type DispatchSummarySource interface {
	SummaryByRequest(ctx context.Context, requestID int) (models.DispatchSummary, error)
}

type RequestService struct {
	RequestRepo  RequestStore
	DispatchRepo DispatchSummarySource
	Dispatcher   BatchDispatcher
	InitialBatch int
	Logger       dispatch.Logger
}

// CreateRequest persists the request and fires the initial dispatch batch
// synchronously, so the client immediately learns how many masters were
// notified. A failed dispatch is logged and degraded to an empty receipt;
// the request stays open and the next cycle picks it up.
func (s *RequestService) CreateRequest(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, models.DispatchReceipt, error) {
	if req.UserID <= 0 || req.CityID <= 0 || req.DistrictID <= 0 || req.CategoryID <= 0 {
		return models.ServiceRequest{}, models.DispatchReceipt{}, models.ErrInvalidInput
	}
	if !req.LocationMode.Valid() {
		return models.ServiceRequest{}, models.DispatchReceipt{}, models.ErrInvalidInput
	}
	switch req.ScheduleMode {
	case models.ScheduleToday, models.ScheduleTomorrow, models.ScheduleChoose:
	default:
		return models.ServiceRequest{}, models.DispatchReceipt{}, models.ErrInvalidInput
	}

	created, err := s.RequestRepo.Create(ctx, req)
	if err != nil {
		return models.ServiceRequest{}, models.DispatchReceipt{}, err
	}

	count, expiresAt, err := s.Dispatcher.DispatchBatch(ctx, created, s.InitialBatch, 1)
	if err != nil {
		s.Logger.Errorf("request %d: initial dispatch failed, leaving it to the cycle: %v", created.ID, err)
		return created, models.DispatchReceipt{}, nil
	}

	receipt := models.DispatchReceipt{DispatchedCount: count}
	if count > 0 {
		receipt.ExpiresAt = &expiresAt
	}
	return created, receipt, nil
}

// GetDispatchSummary returns the fan-out progress of the caller's request.
func (s *RequestService) GetDispatchSummary(ctx context.Context, requestID, callerID int) (models.DispatchSummary, error) {
	req, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DispatchSummary{}, models.ErrNoRecord
		}
		return models.DispatchSummary{}, err
	}
	if req.UserID != callerID {
		return models.DispatchSummary{}, models.ErrForbidden
	}
	return s.DispatchRepo.SummaryByRequest(ctx, requestID)
}
