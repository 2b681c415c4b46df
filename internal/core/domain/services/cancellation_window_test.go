package services_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancellationWindowPolicy_CanCustomerCancel(t *testing.T) {
	policy := services.NewCancellationWindowPolicy()
	now := time.Now().UTC()

	orderInStatus := func(t *testing.T, status order.Status) *order.Order {
		t.Helper()
		o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), status,
			order.StageTimestamps{}, nil, 1)
		require.NoError(t, err)
		return o
	}

	t.Run("should allow cancellation while pending or accepted", func(t *testing.T) {
		assert.True(t, policy.CanCustomerCancel(orderInStatus(t, order.Pending)))
		assert.True(t, policy.CanCustomerCancel(orderInStatus(t, order.Accepted)))
	})

	t.Run("should block cancellation once preparation starts", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Preparing, order.Ready, order.OutForDelivery,
			order.Completed, order.Cancelled,
		} {
			assert.False(t, policy.CanCustomerCancel(orderInStatus(t, status)),
				"status %s", status)
		}
	})

	t.Run("should block cancellation for unconstructed order", func(t *testing.T) {
		var o order.Order

		assert.False(t, policy.CanCustomerCancel(&o))
	})

	t.Run("should close the window after acceptance moves on", func(t *testing.T) {
		o := orderInStatus(t, order.Accepted)
		require.True(t, policy.CanCustomerCancel(o))

		require.NoError(t, o.TransitionTo(order.Preparing, "", now))
		assert.False(t, policy.CanCustomerCancel(o))
	})
}

func TestCancellationWindowPolicy_ReasonIfBlocked(t *testing.T) {
	policy := services.NewCancellationWindowPolicy()

	t.Run("should return empty string inside the window", func(t *testing.T) {
		assert.Empty(t, policy.ReasonIfBlocked(order.Pending))
		assert.Empty(t, policy.ReasonIfBlocked(order.Accepted))
	})

	t.Run("should explain why cancellation is blocked", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Preparing, order.Ready, order.OutForDelivery,
			order.Completed, order.Cancelled,
		} {
			assert.NotEmpty(t, policy.ReasonIfBlocked(status), "status %s", status)
		}
	})
}
