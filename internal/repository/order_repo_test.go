package repository

import (
	"context"
	"testing"

	"adhub/internal/domain"
	"adhub/internal/models"

	"github.com/stretchr/testify/require"
)

func TestOrderRoundTrip(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 1)
	repo := NewOrderRepository(db)

	details := models.RawJSON(`{"campaign_id":"123","ad_ids":["a","b"]}`)
	o, err := repo.Create(ctx, u.ID, domain.ServiceFacebook, 4000, details)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, o.Status)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ServiceFacebook, got.ServiceName)
	require.Equal(t, details, got.Details)
	require.Equal(t, domain.OrderStatusPending, got.Status)
	require.Equal(t, int64(4000), got.Amount)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderListAndUpdate(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	u1 := seedUser(t, db, 1)
	u2 := seedUser(t, db, 2)
	repo := NewOrderRepository(db)

	first, err := repo.Create(ctx, u1.ID, domain.ServiceTikTok, 100, "")
	require.NoError(t, err)
	second, err := repo.Create(ctx, u1.ID, domain.ServiceSnapchat, 200, "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, u2.ID, domain.ServiceTikTok, 300, "")
	require.NoError(t, err)

	list, err := repo.ListByUserID(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	updated, err := repo.UpdateStatus(ctx, first.ID, domain.OrderStatusApproved)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusApproved, updated.Status)
	_, err = repo.UpdateStatus(ctx, 999, domain.OrderStatusApproved)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.UpdateDetails(ctx, first.ID, `{"campaign_id":"x"}`))
	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, models.RawJSON(`{"campaign_id":"x"}`), got.Details)
}

func TestOrderTransitionFromPending(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 1)
	repo := NewOrderRepository(db)
	o, err := repo.Create(ctx, u.ID, domain.ServiceGoogleAds, 100, "")
	require.NoError(t, err)

	ok, err := repo.TransitionFromPending(ctx, o.ID, domain.OrderStatusRejected)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.TransitionFromPending(ctx, o.ID, domain.OrderStatusApproved)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusRejected, got.Status)

	_, err = repo.TransitionFromPending(ctx, 999, domain.OrderStatusApproved)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
