package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"adhub/internal/middleware"
	"adhub/internal/service"
	"adhub/pkg/adnetwork"
	"adhub/pkg/money"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders     *service.OrderService
	settlement *service.SettlementService
}

func NewOrderHandler(orders *service.OrderService, settlement *service.SettlementService) *OrderHandler {
	return &OrderHandler{orders: orders, settlement: settlement}
}

// Request amounts are major units ("40" or "40.00"); responses carry minor units.
type CreateOrderRequest struct {
	ServiceName string             `json:"service_name" binding:"required"`
	Amount      json.Number        `json:"amount" binding:"required"`
	Campaign    adnetwork.Campaign `json:"campaign"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type DepositRequest struct {
	Amount json.Number `json:"amount" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	amount, err := money.ParseMinor(req.Amount.String())
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.orders.PlaceCampaignOrder(c.Request.Context(), middleware.GetUserID(c), req.ServiceName, amount, req.Campaign)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	o, err := h.orders.GetOrder(c.Request.Context(), middleware.GetUserID(c), middleware.IsAdmin(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	list, err := h.orders.ListUserOrders(c.Request.Context(), middleware.GetUserID(c), middleware.IsAdmin(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// UpdateStatus is the admin path for settling an order by hand.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.settlement.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Deposit starts a wallet top-up; the wallet is credited by the payment webhook.
func (h *OrderHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	amount, err := money.ParseMinor(req.Amount.String())
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.settlement.Deposit(c.Request.Context(), middleware.GetUserID(c), amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}
