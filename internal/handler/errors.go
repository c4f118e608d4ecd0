package handler

import (
	"errors"
	"net/http"

	"adhub/internal/auth"
	"adhub/internal/domain"
	"adhub/pkg/money"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrInsufficientFunds, http.StatusPaymentRequired},
	{domain.ErrDuplicateWallet, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusConflict},
	{domain.ErrEmailExists, http.StatusConflict},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrUnknownService, http.StatusBadRequest},
	{domain.ErrInvalidStatus, http.StatusBadRequest},
	{domain.ErrInvalidCampaign, http.StatusBadRequest},
	{money.ErrInvalidAmount, http.StatusBadRequest},
	{money.ErrTooPrecise, http.StatusBadRequest},
	{domain.ErrInvalidCreds, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
}

// respondError writes {"error": ...} with the status the error maps to.
// Unmapped errors are 500 and their text is not exposed.
func respondError(c *gin.Context, err error) {
	if domain.IsUpstream(err) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error()})
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
