package repository

import (
	"context"
	"sync"
	"testing"

	"adhub/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestWalletCreateAndGet(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 1)
	repo := NewWalletRepository(db)

	cust := "cus_123"
	w, err := repo.Create(ctx, u.ID, &cust, "usd")
	require.NoError(t, err)
	require.Equal(t, int64(0), w.Amount)

	got, err := repo.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, w.ID, got.ID)
	require.Equal(t, "cus_123", *got.ExternalPaymentCustomerID)

	_, err = repo.Create(ctx, u.ID, nil, "usd")
	require.ErrorIs(t, err, domain.ErrDuplicateWallet)

	_, err = repo.GetByUserID(ctx, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWalletUpdateAmount(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 1)
	repo := NewWalletRepository(db)
	_, err := repo.Create(ctx, u.ID, nil, "usd")
	require.NoError(t, err)

	w, err := repo.UpdateAmount(ctx, u.ID, 100)
	require.NoError(t, err)
	require.Equal(t, int64(100), w.Amount)

	w, err = repo.UpdateAmount(ctx, u.ID, -40)
	require.NoError(t, err)
	require.Equal(t, int64(60), w.Amount)

	_, err = repo.UpdateAmount(ctx, u.ID, -61)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	w, err = repo.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(60), w.Amount)

	_, err = repo.UpdateAmount(ctx, 999, 10)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.UpdateAmount(ctx, u.ID, 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestWalletConcurrentDebitsNeverOverspend(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 1)
	repo := NewWalletRepository(db)
	_, err := repo.Create(ctx, u.ID, nil, "usd")
	require.NoError(t, err)
	_, err = repo.UpdateAmount(ctx, u.ID, 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.UpdateAmount(ctx, u.ID, -30); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	w, err := repo.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 3, succeeded)
	require.Equal(t, int64(10), w.Amount)
}
