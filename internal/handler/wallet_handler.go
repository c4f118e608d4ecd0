package handler

import (
	"net/http"

	"adhub/internal/middleware"
	"adhub/internal/service"
	"adhub/pkg/money"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	settlement *service.SettlementService
}

func NewWalletHandler(settlement *service.SettlementService) *WalletHandler {
	return &WalletHandler{settlement: settlement}
}

// GetWallet returns the caller's balance. Amounts are minor units; balance is
// the same value formatted in major units.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	w, err := h.settlement.Wallet(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet":  w,
		"balance": money.FormatMinor(w.Amount),
	})
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	list, err := h.settlement.WalletTransactions(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
