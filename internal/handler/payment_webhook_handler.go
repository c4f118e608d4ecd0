package handler

import (
	"errors"
	"io"
	"net/http"

	"adhub/internal/domain"
	"adhub/internal/service"
	"adhub/pkg/logger"
	"adhub/pkg/payment"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 64 << 10

// PaymentWebhookHandler receives payment processor events. Credits are
// idempotent, so a 5xx here only makes the processor retry.
type PaymentWebhookHandler struct {
	gateway    payment.Gateway
	settlement *service.SettlementService
	log        *logger.Logger
}

func NewPaymentWebhookHandler(gateway payment.Gateway, settlement *service.SettlementService, log *logger.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{gateway: gateway, settlement: settlement, log: log.Named("payment-webhook")}
}

func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "invalid body")
		return
	}
	ev, err := h.gateway.ConstructEvent(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		badRequest(c, "invalid event")
		return
	}
	ctx := c.Request.Context()
	switch ev.Type {
	case payment.EventIntentSucceeded:
		credited, err := h.settlement.CreditDeposit(ctx, ev.IntentID, ev.Amount)
		if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrIntegrity) {
			respondError(c, err)
			return
		}
		h.log.Infow("payment succeeded", "event_id", ev.ID, "intent_id", ev.IntentID, "credited", credited)
	case payment.EventIntentFailed:
		// The intent returns to requires_payment_method; the payment stays pending.
		h.log.Infow("payment attempt declined", "event_id", ev.ID, "intent_id", ev.IntentID)
	case payment.EventIntentCanceled:
		if _, err := h.settlement.FailDeposit(ctx, ev.IntentID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			respondError(c, err)
			return
		}
		h.log.Infow("payment canceled", "event_id", ev.ID, "intent_id", ev.IntentID)
	default:
		h.log.Debugw("ignoring event", "event_id", ev.ID, "type", ev.Type)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
