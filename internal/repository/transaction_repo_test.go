package repository

import (
	"context"
	"testing"

	"adhub/internal/domain"
	"adhub/internal/models"

	"github.com/stretchr/testify/require"
)

func TestTransactionAppendAndList(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 1)
	w, err := NewWalletRepository(db).Create(ctx, u.ID, nil, "usd")
	require.NoError(t, err)
	o, err := NewOrderRepository(db).Create(ctx, u.ID, domain.ServiceFacebook, 40, "")
	require.NoError(t, err)
	repo := NewTransactionRepository(db)

	require.NoError(t, repo.Create(ctx, &models.Transaction{UserID: u.ID, WalletID: w.ID, Type: domain.TxTypeCredit, Amount: 100, Reference: "pi_1"}))
	require.NoError(t, repo.Create(ctx, &models.Transaction{UserID: u.ID, WalletID: w.ID, OrderID: &o.ID, Type: domain.TxTypePay, Amount: 40}))
	require.NoError(t, repo.Create(ctx, &models.Transaction{UserID: u.ID, WalletID: w.ID, OrderID: &o.ID, Type: domain.TxTypeRefund, Amount: 40}))
	require.NoError(t, repo.Create(ctx, &models.Transaction{UserID: u.ID, WalletID: w.ID, Type: domain.TxTypeCredit, Amount: 5, Reference: "pi_2"}))

	list, err := repo.ListByWalletID(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	types := []string{list[0].Type, list[1].Type, list[2].Type, list[3].Type}
	require.Equal(t, []string{domain.TxTypeCredit, domain.TxTypePay, domain.TxTypeRefund, domain.TxTypeCredit}, types)

	pay, err := repo.GetByOrderAndType(ctx, o.ID, domain.TxTypePay)
	require.NoError(t, err)
	require.Equal(t, int64(40), pay.Amount)

	byOrder, err := repo.ListByOrderID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, byOrder, 2)
}

func TestTransactionSecondRefundRejected(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	u := seedUser(t, db, 1)
	w, err := NewWalletRepository(db).Create(ctx, u.ID, nil, "usd")
	require.NoError(t, err)
	o, err := NewOrderRepository(db).Create(ctx, u.ID, domain.ServiceFacebook, 40, "")
	require.NoError(t, err)
	repo := NewTransactionRepository(db)

	require.NoError(t, repo.Create(ctx, &models.Transaction{UserID: u.ID, WalletID: w.ID, OrderID: &o.ID, Type: domain.TxTypeRefund, Amount: 40}))
	err = repo.Create(ctx, &models.Transaction{UserID: u.ID, WalletID: w.ID, OrderID: &o.ID, Type: domain.TxTypeRefund, Amount: 40})
	require.ErrorIs(t, err, domain.ErrIntegrity)

	err = repo.Create(ctx, &models.Transaction{UserID: u.ID, WalletID: w.ID, Type: domain.TxTypeCredit, Amount: 0})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}
