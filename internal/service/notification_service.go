package service

import (
	"context"
	"time"

	"adhub/internal/domain"
	"adhub/internal/models"
	"adhub/pkg/logger"
)

const sinkTimeout = 5 * time.Second

// OrderStatusSink receives order status changes. Delivery is best effort.
type OrderStatusSink interface {
	NotifyOrderStatus(ctx context.Context, ev domain.OrderStatusEvent) error
}

// NotificationService fans order status changes out to every sink. A failing
// sink is logged and never fails the caller; clients recover missed events by
// reading the order.
type NotificationService struct {
	sinks []OrderStatusSink
	log   *logger.Logger
}

func NewNotificationService(log *logger.Logger, sinks ...OrderStatusSink) *NotificationService {
	s := &NotificationService{log: log.Named("notify")}
	for _, sink := range sinks {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
	return s
}

func (s *NotificationService) AddSink(sink OrderStatusSink) {
	s.sinks = append(s.sinks, sink)
}

func (s *NotificationService) OrderStatusChanged(ctx context.Context, o *models.Order) {
	if s == nil || o == nil {
		return
	}
	ev := domain.OrderStatusEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		ServiceName: o.ServiceName,
		Status:      o.Status,
		At:          time.Now().UTC(),
	}
	for _, sink := range s.sinks {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
		if err := sink.NotifyOrderStatus(sctx, ev); err != nil {
			s.log.Warnw("order status notification failed", "order_id", o.ID, "status", o.Status, "sink", sinkName(sink), "error", err)
		}
		cancel()
	}
}

func sinkName(sink OrderStatusSink) string {
	if n, ok := sink.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "sink"
}
