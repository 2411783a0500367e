package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusInProcessing,
		OrderStatusPreparingShipment,
		OrderStatusShipped,
		OrderStatusDelivered,
	} {
		require.True(t, s.Valid(), string(s))
	}

	for _, s := range []OrderStatus{"", "refunded", "PAID", "unknown"} {
		require.False(t, s.Valid(), string(s))
	}
}
