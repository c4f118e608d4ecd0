package service

import (
	"context"
	"fmt"
	"strconv"

	"adhub/internal/domain"
	"adhub/internal/repository"
	"adhub/pkg/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type messageSender interface {
	Send(ctx context.Context, msg *messaging.Message) (string, error)
}

// FCMService pushes order status changes to the owner's device.
type FCMService struct {
	client messageSender
	users  *repository.UserRepository
}

// NewFCMService returns nil when Firebase is not configured or fails to start.
func NewFCMService(serviceAccountPath string, users *repository.UserRepository, log *logger.Logger) *FCMService {
	if serviceAccountPath == "" {
		return nil
	}
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Warnw("firebase app init failed, push disabled", "error", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Warnw("firebase messaging init failed, push disabled", "error", err)
		return nil
	}
	return &FCMService{client: client, users: users}
}

func (s *FCMService) Name() string { return "fcm" }

// Send delivers one push. Missing tokens are not an error.
func (s *FCMService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if s == nil || token == "" {
		return nil
	}
	msg := &messaging.Message{
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Token:        token,
		Android: &messaging.AndroidConfig{
			Priority:     "high",
			Notification: &messaging.AndroidNotification{Sound: "default"},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{Aps: &messaging.Aps{Sound: "default"}},
		},
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}

func (s *FCMService) NotifyOrderStatus(ctx context.Context, ev domain.OrderStatusEvent) error {
	if s == nil {
		return nil
	}
	u, err := s.users.GetByID(ctx, ev.UserID)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Your %s campaign order #%d is %s.", ev.ServiceName, ev.OrderID, ev.Status)
	return s.Send(ctx, u.FCMToken, "Order update", body, map[string]string{
		"type":     "ORDER_STATUS",
		"order_id": strconv.FormatUint(uint64(ev.OrderID), 10),
		"status":   ev.Status,
	})
}
