package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/google/uuid"

	"masterlink/internal/dispatch"
	"masterlink/internal/models"
)

type TokenSource interface {
	GetByUserID(ctx context.Context, userID int) (string, error)
}

// OfferEventSink publishes offer events for the out-of-process consumers.
type OfferEventSink interface {
	PublishOfferSent(ctx context.Context, ev models.OfferSentEvent) error
}

// NotificationService tells a master about a fresh offer over FCM, mirrors
// the event onto the bus, and pushes batch progress to the request owner's
// websocket. Every path here is best-effort: failures are logged, the
// dispatch itself is already persisted.
type NotificationService struct {
	Client    *messaging.Client
	TokenRepo TokenSource
	Events    OfferEventSink
	Hub       Pusher
	Logger    dispatch.Logger
}

// OfferSent implements dispatch.OfferNotifier.
func (s *NotificationService) OfferSent(ctx context.Context, req models.ServiceRequest, masterID, batchNo int, expiresAt time.Time) {
	ev := models.OfferSentEvent{
		EventID:   uuid.NewString(),
		RequestID: req.ID,
		MasterID:  masterID,
		BatchNo:   batchNo,
		ExpiresAt: expiresAt,
	}

	if s.Events != nil {
		if err := s.Events.PublishOfferSent(ctx, ev); err != nil {
			s.Logger.Errorf("offer event request %d master %d: %v", req.ID, masterID, err)
		}
	}

	if s.Hub != nil {
		s.Hub.PushToUser(req.UserID, models.WSEvent{Type: "dispatch_progress", Data: ev})
	}

	s.sendPush(ctx, req, masterID, expiresAt)
}

func (s *NotificationService) sendPush(ctx context.Context, req models.ServiceRequest, masterID int, expiresAt time.Time) {
	if s.Client == nil || s.TokenRepo == nil {
		return
	}

	token, err := s.TokenRepo.GetByUserID(ctx, masterID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.Logger.Errorf("fcm token lookup for master %d: %v", masterID, err)
		}
		return
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "New request nearby",
			Body:  req.Title,
		},
		Data: map[string]string{
			"request_id": strconv.Itoa(req.ID),
			"expires_at": expiresAt.Format(time.RFC3339),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
	}

	if _, err := s.Client.Send(ctx, message); err != nil {
		s.Logger.Errorf("fcm send to master %d: %v", masterID, err)
	}
}
