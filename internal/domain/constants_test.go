package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeOrderStatus(t *testing.T) {
	cases := map[string]string{
		"pending":    OrderStatusPending,
		"onProgress": OrderStatusPending,
		"approved":   OrderStatusApproved,
		"done":       OrderStatusApproved,
		"rejected":   OrderStatusRejected,
	}
	for in, want := range cases {
		got, ok := NormalizeOrderStatus(in)
		require.True(t, ok, in)
		require.Equal(t, want, got)
	}
	_, ok := NormalizeOrderStatus("cancelled")
	require.False(t, ok)
}

func TestTerminalAndCredit(t *testing.T) {
	require.False(t, IsTerminalStatus(OrderStatusPending))
	require.True(t, IsTerminalStatus(OrderStatusApproved))
	require.True(t, IsTerminalStatus(OrderStatusRejected))
	require.True(t, IsCredit(TxTypeRefund))
	require.True(t, IsCredit(TxTypeCredit))
	require.False(t, IsCredit(TxTypePay))
}

func TestUpstreamError(t *testing.T) {
	err := fmt.Errorf("submit: %w", &UpstreamError{Provider: "facebook", Status: 400, Message: "Invalid parameter"})
	require.True(t, IsUpstream(err))
	require.False(t, IsUpstream(errors.New("plain")))
	require.Contains(t, err.Error(), "facebook: Invalid parameter (http 400)")
}
