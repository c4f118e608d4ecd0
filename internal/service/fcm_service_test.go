package service

import (
	"context"
	"testing"

	"adhub/internal/domain"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*messaging.Message
}

func (f *fakeSender) Send(_ context.Context, msg *messaging.Message) (string, error) {
	f.sent = append(f.sent, msg)
	return "projects/x/messages/1", nil
}

func TestFCMOrderStatusPush(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.userWithBalance(t, 1, 0)
	sender := &fakeSender{}
	fcm := &FCMService{client: sender, users: f.users}

	ev := domain.OrderStatusEvent{OrderID: 4, UserID: u.ID, ServiceName: domain.ServiceFacebook, Status: domain.OrderStatusApproved}
	require.NoError(t, fcm.NotifyOrderStatus(ctx, ev))
	require.Empty(t, sender.sent)

	require.NoError(t, f.users.SetFCMToken(ctx, u.ID, "device-token"))
	require.NoError(t, fcm.NotifyOrderStatus(ctx, ev))
	require.Len(t, sender.sent, 1)
	require.Equal(t, "device-token", sender.sent[0].Token)
	require.Equal(t, "4", sender.sent[0].Data["order_id"])
	require.Equal(t, "approved", sender.sent[0].Data["status"])

	var disabled *FCMService
	require.NoError(t, disabled.NotifyOrderStatus(ctx, ev))
}
