package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"adhub/internal/domain"
	"adhub/pkg/logger"
	"adhub/pkg/payment"

	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAuthService(f.cfg, f.db, f.users, f.wallets, f.gateway, logger.NewNop())

	u, tokens, err := svc.Register(ctx, " New@Example.com ", "password123")
	require.NoError(t, err)
	require.Equal(t, "new@example.com", u.Email)
	require.Equal(t, domain.RoleClient, u.Role)
	require.NotEmpty(t, tokens.AccessToken)

	w, err := f.wallets.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), w.Amount)
	require.NotNil(t, w.ExternalPaymentCustomerID)
	require.Equal(t, fmt.Sprintf("cus_stub_%d", u.ID), *w.ExternalPaymentCustomerID)

	_, _, err = svc.Register(ctx, "new@example.com", "password123")
	require.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestLoginAndRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAuthService(f.cfg, f.db, f.users, f.wallets, nil, logger.NewNop())

	admin, err := svc.CreateAdmin(ctx, "ops@example.com", "password123")
	require.NoError(t, err)
	require.True(t, admin.IsAdmin())

	_, _, err = svc.Login(ctx, "ops@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCreds)
	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, domain.ErrInvalidCreds)

	_, tokens, err := svc.Login(ctx, "OPS@example.com", "password123")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, tokens.AccessToken)
	require.Error(t, err)
}

func TestNotificationFailuresAreSwallowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.userWithBalance(t, 1, 100)
	failing := &recordingSink{err: context.DeadlineExceeded}
	f.settlement.notifier.AddSink(failing)

	_, err := f.settlement.Purchase(ctx, u.ID, domain.ServiceFacebook, 40, "")
	require.NoError(t, err)
	require.Equal(t, []string{domain.OrderStatusPending}, failing.statuses())
	require.Equal(t, []string{domain.OrderStatusPending}, f.sink.statuses())
}

// customerGateway counts customer creations and can be told to fail them.
type customerGateway struct {
	*payment.StubGateway
	created int
	err     error
}

func (g *customerGateway) CreateCustomer(ctx context.Context, email string, userID uint) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.created++
	return g.StubGateway.CreateCustomer(ctx, email, userID)
}

func TestFailedRegistrationCreatesNoCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gw := &customerGateway{StubGateway: f.gateway}
	svc := NewAuthService(f.cfg, f.db, f.users, f.wallets, gw, logger.NewNop())

	_, _, err := svc.Register(ctx, "once@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, 1, gw.created)

	_, _, err = svc.Register(ctx, "once@example.com", "password123")
	require.ErrorIs(t, err, domain.ErrEmailExists)
	require.Equal(t, 1, gw.created)
}

func TestRegisterSurvivesCustomerFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gw := &customerGateway{StubGateway: f.gateway, err: errors.New("processor down")}
	svc := NewAuthService(f.cfg, f.db, f.users, f.wallets, gw, logger.NewNop())

	u, tokens, err := svc.Register(ctx, "later@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)

	w, err := f.wallets.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, w.ExternalPaymentCustomerID)

	// Deposits still work without a customer.
	settlement := NewSettlementService(f.cfg, f.db, f.wallets, f.orders, f.txs, f.payments, gw, nil, logger.NewNop())
	dep, err := settlement.Deposit(ctx, u.ID, 1000)
	require.NoError(t, err)
	require.NotEmpty(t, dep.PaymentIntentID)
}
