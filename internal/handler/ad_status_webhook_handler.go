package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"adhub/internal/service"
	"adhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AdStatusWebhookHandler applies moderation decisions reported for an order.
// The body must carry a hex HMAC-SHA256 in X-Webhook-Signature. Unsigned
// calls are accepted only when no secret is set and allowUnsigned is true.
type AdStatusWebhookHandler struct {
	settlement    *service.SettlementService
	secret        string
	allowUnsigned bool
	log           *logger.Logger
}

func NewAdStatusWebhookHandler(settlement *service.SettlementService, secret string, allowUnsigned bool, log *logger.Logger) *AdStatusWebhookHandler {
	return &AdStatusWebhookHandler{
		settlement:    settlement,
		secret:        secret,
		allowUnsigned: allowUnsigned,
		log:           log.Named("ad-status-webhook"),
	}
}

type adStatusPayload struct {
	OrderID  uint   `json:"order_id"`
	Decision string `json:"decision"`
	Status   string `json:"status"` // older senders use status
}

func (h *AdStatusWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "invalid body")
		return
	}
	if !h.authorized(body, c.GetHeader("X-Webhook-Signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}
	var p adStatusPayload
	if err := json.Unmarshal(body, &p); err != nil {
		badRequest(c, "invalid json")
		return
	}
	decision := p.Decision
	if decision == "" {
		decision = p.Status
	}
	if p.OrderID == 0 || decision == "" {
		badRequest(c, "order_id and decision required")
		return
	}
	res, err := h.settlement.ApplyExternalDecision(c.Request.Context(), p.OrderID, decision)
	if err != nil {
		respondError(c, err)
		return
	}
	h.log.Infow("ad decision", "order_id", p.OrderID, "decision", decision, "applied", res.Applied)
	c.JSON(http.StatusOK, res)
}

func (h *AdStatusWebhookHandler) authorized(body []byte, signature string) bool {
	if h.secret == "" {
		return h.allowUnsigned
	}
	return h.verifySignature(body, signature)
}

func (h *AdStatusWebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
