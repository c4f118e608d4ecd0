package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adhub/internal/domain"
	"adhub/internal/models"
	"adhub/internal/repository"
	"adhub/pkg/adnetwork"
	"adhub/pkg/logger"
)

const defaultCampaignLength = 7 * 24 * time.Hour

// CampaignSubmitter sends a campaign to the ad network behind a service name.
type CampaignSubmitter interface {
	Supports(service string) bool
	Submit(ctx context.Context, service string, c adnetwork.Campaign) (*adnetwork.Result, error)
}

// OrderService buys ad campaigns: it charges the wallet through the
// settlement service, then asks the ad network to create the campaign.
type OrderService struct {
	settlement *SettlementService
	orders     *repository.OrderRepository
	networks   CampaignSubmitter
	log        *logger.Logger
}

func NewOrderService(settlement *SettlementService, orders *repository.OrderRepository, networks CampaignSubmitter, log *logger.Logger) *OrderService {
	return &OrderService{settlement: settlement, orders: orders, networks: networks, log: log.Named("orders")}
}

// PlaceCampaignOrder charges amount and submits the campaign. When the network
// refuses it, the order is rejected (and refunded) before the upstream error
// is returned.
func (s *OrderService) PlaceCampaignOrder(ctx context.Context, userID uint, service string, amount int64, c adnetwork.Campaign) (*PurchaseResult, error) {
	if !s.networks.Supports(service) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownService, service)
	}
	if c.DailyBudget == 0 {
		c.DailyBudget = amount
	}
	if c.StartTime.IsZero() {
		c.StartTime = time.Now().UTC().Truncate(time.Minute)
	}
	if c.EndTime.IsZero() {
		c.EndTime = c.StartTime.Add(defaultCampaignLength)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res, err := s.settlement.Purchase(ctx, userID, service, amount, "")
	if err != nil {
		return nil, err
	}
	orderID := res.Order.ID

	result, err := s.networks.Submit(ctx, service, c)
	if err != nil {
		s.log.Warnw("campaign submission failed, rejecting order", "order_id", orderID, "service", service, "error", err)
		if _, derr := s.settlement.ApplyExternalDecision(ctx, orderID, domain.OrderStatusRejected); derr != nil {
			s.log.Reconcile("order charged but campaign failed and refund did not apply", "order_id", orderID, "user_id", userID, "amount", amount, "error", derr)
		}
		return nil, err
	}

	details, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateDetails(ctx, orderID, models.RawJSON(details)); err != nil {
		s.log.Reconcile("campaign created but details not stored", "order_id", orderID, "service", service, "external_ids", result.ExternalIDs, "error", err)
	}
	res.Order.Details = models.RawJSON(details)
	s.log.Infow("campaign submitted", "order_id", orderID, "service", service, "external_ids", result.ExternalIDs)
	return res, nil
}

// GetOrder returns the order if the requester owns it or is an admin.
// Other users' orders are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, requesterID uint, isAdmin bool, orderID uint) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != requesterID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// ListUserOrders returns a user's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, requesterID uint, isAdmin bool, userID uint) ([]models.Order, error) {
	if !isAdmin && requesterID != userID {
		return nil, domain.ErrForbidden
	}
	return s.orders.ListByUserID(ctx, userID)
}
