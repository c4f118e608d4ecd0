package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"adhub/config"
	"adhub/internal/domain"
	"adhub/internal/models"
	"adhub/internal/repository"
	"adhub/pkg/logger"
	"adhub/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementService keeps wallets, orders and the ledger consistent. Every
// balance change happens in the same database transaction as the ledger
// entry that records it.
type SettlementService struct {
	db        *gorm.DB
	wallets   *repository.WalletRepository
	orders    *repository.OrderRepository
	txs       *repository.TransactionRepository
	payments  *repository.PaymentRepository
	gateway   payment.Gateway
	notifier  *NotificationService
	minAmount map[string]int64
	currency  string
	log       *logger.Logger
}

func NewSettlementService(
	cfg *config.Config,
	db *gorm.DB,
	wallets *repository.WalletRepository,
	orders *repository.OrderRepository,
	txs *repository.TransactionRepository,
	payments *repository.PaymentRepository,
	gateway payment.Gateway,
	notifier *NotificationService,
	log *logger.Logger,
) *SettlementService {
	return &SettlementService{
		db:        db,
		wallets:   wallets,
		orders:    orders,
		txs:       txs,
		payments:  payments,
		gateway:   gateway,
		notifier:  notifier,
		minAmount: cfg.Services.MinAmount,
		currency:  cfg.Stripe.Currency,
		log:       log.Named("settlement"),
	}
}

type PurchaseResult struct {
	Order       *models.Order       `json:"order"`
	Transaction *models.Transaction `json:"transaction"`
	Wallet      *models.Wallet      `json:"wallet"`
}

// DecisionResult reports the order after a decision. Applied is false when
// the order was already terminal and nothing changed.
type DecisionResult struct {
	Order   *models.Order       `json:"order"`
	Refund  *models.Transaction `json:"refund,omitempty"`
	Applied bool                `json:"applied"`
}

type DepositResult struct {
	PaymentID       uint   `json:"payment_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// checkPayAbility rejects unknown services and amounts below the service floor.
// The balance itself is checked by the conditional debit.
func (s *SettlementService) checkPayAbility(serviceName string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	floor, ok := s.minAmount[serviceName]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownService, serviceName)
	}
	if amount < floor {
		return fmt.Errorf("%w: %s requires at least %d", domain.ErrInsufficientFunds, serviceName, floor)
	}
	return nil
}

// Purchase debits the user's wallet and records a pending order with its pay
// entry. Either all three are stored or none is.
func (s *SettlementService) Purchase(ctx context.Context, userID uint, serviceName string, amount int64, details models.RawJSON) (*PurchaseResult, error) {
	if err := s.checkPayAbility(serviceName, amount); err != nil {
		return nil, err
	}
	var res PurchaseResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallets := s.wallets.WithTx(tx)
		w, err := wallets.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if w.Amount < amount {
			return domain.ErrInsufficientFunds
		}
		order, err := s.orders.WithTx(tx).Create(ctx, userID, serviceName, amount, details)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		w, err = wallets.UpdateAmount(ctx, userID, -amount)
		if err != nil {
			return err
		}
		pay := &models.Transaction{
			UserID:   userID,
			WalletID: w.ID,
			OrderID:  &order.ID,
			Type:     domain.TxTypePay,
			Amount:   amount,
		}
		if err := s.txs.WithTx(tx).Create(ctx, pay); err != nil {
			return fmt.Errorf("record pay: %w", err)
		}
		res = PurchaseResult{Order: order, Transaction: pay, Wallet: w}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			s.log.Errorw("purchase rolled back", "user_id", userID, "service", serviceName, "amount", amount, "error", err)
		}
		return nil, err
	}
	s.log.Infow("purchase", "user_id", userID, "order_id", res.Order.ID, "service", serviceName, "amount", amount, "balance", res.Wallet.Amount)
	s.notifier.OrderStatusChanged(ctx, res.Order)
	return &res, nil
}

// ApplyExternalDecision settles a pending order as approved or rejected.
// A rejection refunds the pay amount in the same transaction as the status
// change. Decisions on a terminal order change nothing.
func (s *SettlementService) ApplyExternalDecision(ctx context.Context, orderID uint, decision string) (*DecisionResult, error) {
	status, ok := domain.NormalizeOrderStatus(decision)
	if !ok || !domain.IsTerminalStatus(status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, decision)
	}
	var res DecisionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		moved, err := orders.TransitionFromPending(ctx, orderID, status)
		if err != nil {
			return err
		}
		if moved && status == domain.OrderStatusRejected {
			refund, err := s.refund(ctx, tx, orderID)
			if err != nil {
				return err
			}
			res.Refund = refund
		}
		res.Applied = moved
		res.Order, err = orders.GetByID(ctx, orderID)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			s.log.Errorw("decision rolled back", "order_id", orderID, "decision", status, "error", err)
		}
		return nil, err
	}
	if !res.Applied {
		s.log.Debugw("decision ignored, order already settled", "order_id", orderID, "decision", status, "current", res.Order.Status)
		return &res, nil
	}
	s.log.Infow("order settled", "order_id", orderID, "status", status, "refunded", res.Refund != nil)
	s.notifier.OrderStatusChanged(ctx, res.Order)
	return &res, nil
}

// UpdateOrderStatus is the operator path: unlike webhook decisions, asking
// for a different status on a settled order is an error.
func (s *SettlementService) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*DecisionResult, error) {
	canonical, ok := domain.NormalizeOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if canonical == domain.OrderStatusPending {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.Status != domain.OrderStatusPending {
			return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, order.Status, canonical)
		}
		return &DecisionResult{Order: order}, nil
	}
	res, err := s.ApplyExternalDecision(ctx, orderID, canonical)
	if err != nil {
		return nil, err
	}
	if !res.Applied && res.Order.Status != canonical {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, res.Order.Status, canonical)
	}
	return res, nil
}

// refund credits back the order's pay entry. Runs inside the caller's transaction.
func (s *SettlementService) refund(ctx context.Context, tx *gorm.DB, orderID uint) (*models.Transaction, error) {
	txs := s.txs.WithTx(tx)
	pay, err := txs.GetByOrderAndType(ctx, orderID, domain.TxTypePay)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d has no pay entry", domain.ErrIntegrity, orderID)
		}
		return nil, err
	}
	if _, err := s.wallets.WithTx(tx).UpdateAmount(ctx, pay.UserID, pay.Amount); err != nil {
		return nil, fmt.Errorf("credit refund: %w", err)
	}
	refund := &models.Transaction{
		UserID:   pay.UserID,
		WalletID: pay.WalletID,
		OrderID:  &orderID,
		Type:     domain.TxTypeRefund,
		Amount:   pay.Amount,
	}
	if err := txs.Create(ctx, refund); err != nil {
		return nil, fmt.Errorf("record refund: %w", err)
	}
	return refund, nil
}

// Deposit opens a payment intent for a wallet top-up. The wallet is credited
// only when the processor confirms the payment (CreditDeposit).
func (s *SettlementService) Deposit(ctx context.Context, userID uint, amount int64) (*DepositResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	customer := ""
	if w.ExternalPaymentCustomerID != nil {
		customer = *w.ExternalPaymentCustomerID
	}
	currency := w.Currency
	if currency == "" {
		currency = s.currency
	}
	key := uuid.NewString()
	intent, err := s.gateway.CreatePaymentIntent(ctx, payment.IntentRequest{
		AmountCents:    amount,
		Currency:       currency,
		CustomerRef:    customer,
		IdempotencyKey: key,
		Metadata: map[string]string{
			"user_id":   strconv.FormatUint(uint64(userID), 10),
			"wallet_id": strconv.FormatUint(uint64(w.ID), 10),
		},
	})
	if err != nil {
		return nil, err
	}
	p := &models.Payment{
		UserID:         userID,
		AmountCents:    amount,
		Currency:       currency,
		Provider:       domain.PaymentProviderStripe,
		ProviderRef:    intent.ID,
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: key,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		s.log.Reconcile("payment intent created without local record", "user_id", userID, "intent_id", intent.ID, "amount", amount, "error", err)
		return nil, fmt.Errorf("record payment: %w", err)
	}
	s.log.Infow("deposit started", "user_id", userID, "payment_id", p.ID, "intent_id", intent.ID, "amount", amount)
	return &DepositResult{
		PaymentID:       p.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        currency,
	}, nil
}

// CreditDeposit applies a confirmed payment to the wallet once. It reports
// false when the payment had already been settled. A non-zero amount must
// match what was requested.
func (s *SettlementService) CreditDeposit(ctx context.Context, intentID string, amount int64) (bool, error) {
	credited := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.payments.WithTx(tx)
		p, err := payments.GetByProviderRef(ctx, intentID)
		if err != nil {
			return err
		}
		if amount != 0 && amount != p.AmountCents {
			return fmt.Errorf("%w: intent %s paid %d, expected %d", domain.ErrIntegrity, intentID, amount, p.AmountCents)
		}
		ok, err := payments.Complete(ctx, p.ID, time.Now())
		if err != nil || !ok {
			return err
		}
		if p.Status == domain.PaymentStatusFailed {
			s.log.Reconcile("confirmed charge on a payment marked failed, crediting", "intent_id", intentID, "payment_id", p.ID, "user_id", p.UserID)
		}
		w, err := s.wallets.WithTx(tx).UpdateAmount(ctx, p.UserID, p.AmountCents)
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}
		if err := s.txs.WithTx(tx).Create(ctx, &models.Transaction{
			UserID:    p.UserID,
			WalletID:  w.ID,
			Type:      domain.TxTypeCredit,
			Amount:    p.AmountCents,
			Reference: intentID,
		}); err != nil {
			return fmt.Errorf("record credit: %w", err)
		}
		credited = true
		return nil
	})
	if err != nil {
		s.log.Reconcile("deposit not credited", "intent_id", intentID, "amount", amount, "error", err)
		return false, err
	}
	if credited {
		s.log.Infow("deposit credited", "intent_id", intentID)
	}
	return credited, nil
}

// FailDeposit marks a pending payment as failed. Only a canceled intent is
// final; a declined attempt can still be retried and succeed. Settled
// payments are left alone.
func (s *SettlementService) FailDeposit(ctx context.Context, intentID string) (bool, error) {
	p, err := s.payments.GetByProviderRef(ctx, intentID)
	if err != nil {
		return false, err
	}
	ok, err := s.payments.Fail(ctx, p.ID)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Infow("deposit failed", "intent_id", intentID, "user_id", p.UserID)
	}
	return ok, nil
}

func (s *SettlementService) Wallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	return s.wallets.GetByUserID(ctx, userID)
}

// WalletTransactions returns the user's ledger, oldest first.
func (s *SettlementService) WalletTransactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.txs.ListByWalletID(ctx, w.ID)
}

var domainErrors = []error{
	domain.ErrNotFound,
	domain.ErrInsufficientFunds,
	domain.ErrInvalidAmount,
	domain.ErrUnknownService,
	domain.ErrInvalidStatus,
	domain.ErrInvalidTransition,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
