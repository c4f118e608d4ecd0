package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"adhub/config"
	"adhub/internal/database/dbtest"
	"adhub/internal/domain"
	"adhub/internal/models"
	"adhub/internal/repository"
	"adhub/pkg/logger"
	"adhub/pkg/payment"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingSink keeps every event it is handed.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.OrderStatusEvent
	err    error
}

func (r *recordingSink) NotifyOrderStatus(_ context.Context, ev domain.OrderStatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingSink) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Status)
	}
	return out
}

type fixture struct {
	db         *gorm.DB
	cfg        *config.Config
	users      *repository.UserRepository
	wallets    *repository.WalletRepository
	orders     *repository.OrderRepository
	txs        *repository.TransactionRepository
	payments   *repository.PaymentRepository
	gateway    *payment.StubGateway
	sink       *recordingSink
	settlement *SettlementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	cfg := &config.Config{}
	cfg.Stripe.Currency = "usd"
	cfg.Services.MinAmount = map[string]int64{
		domain.ServiceFacebook:  10,
		domain.ServiceTikTok:    10,
		domain.ServiceSnapchat:  10,
		domain.ServiceGoogleAds: 10,
	}
	cfg.JWT = config.JWTConfig{AccessSecret: "a", RefreshSecret: "r", AccessExpiry: time.Minute, RefreshExpiry: time.Hour, Issuer: "test"}
	f := &fixture{
		db:       db,
		cfg:      cfg,
		users:    repository.NewUserRepository(db),
		wallets:  repository.NewWalletRepository(db),
		orders:   repository.NewOrderRepository(db),
		txs:      repository.NewTransactionRepository(db),
		payments: repository.NewPaymentRepository(db),
		gateway:  &payment.StubGateway{Secret: "whsec"},
		sink:     &recordingSink{},
	}
	notifier := NewNotificationService(logger.NewNop(), f.sink)
	f.settlement = NewSettlementService(cfg, db, f.wallets, f.orders, f.txs, f.payments, f.gateway, notifier, logger.NewNop())
	return f
}

// userWithBalance creates a user whose wallet holds balance, credited the way
// a deposit would be.
func (f *fixture) userWithBalance(t *testing.T, n int, balance int64) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Email: fmt.Sprintf("u%d@example.com", n), Role: domain.RoleClient}
	require.NoError(t, f.users.Create(ctx, u))
	w, err := f.wallets.Create(ctx, u.ID, nil, "usd")
	require.NoError(t, err)
	if balance > 0 {
		_, err = f.wallets.UpdateAmount(ctx, u.ID, balance)
		require.NoError(t, err)
		require.NoError(t, f.txs.Create(ctx, &models.Transaction{UserID: u.ID, WalletID: w.ID, Type: domain.TxTypeCredit, Amount: balance, Reference: "seed"}))
	}
	return u
}

func (f *fixture) balance(t *testing.T, userID uint) int64 {
	t.Helper()
	w, err := f.wallets.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	return w.Amount
}

// requireLedgerBalanced checks the wallet equals the signed sum of its ledger
// and that pay entries and orders match one to one.
func (f *fixture) requireLedgerBalanced(t *testing.T, userID uint) {
	t.Helper()
	ctx := context.Background()
	w, err := f.wallets.GetByUserID(ctx, userID)
	require.NoError(t, err)
	entries, err := f.txs.ListByWalletID(ctx, w.ID)
	require.NoError(t, err)

	var sum int64
	pays := map[uint]int{}
	for _, e := range entries {
		if domain.IsCredit(e.Type) {
			sum += e.Amount
		} else {
			sum -= e.Amount
		}
		if e.Type == domain.TxTypePay {
			require.NotNil(t, e.OrderID)
			pays[*e.OrderID]++
		}
	}
	require.Equal(t, w.Amount, sum)
	require.GreaterOrEqual(t, w.Amount, int64(0))

	orders, err := f.orders.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, pays, len(orders))
	for _, o := range orders {
		require.Equal(t, 1, pays[o.ID], "order %d", o.ID)
	}
}
