package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistoryEntry(t *testing.T) {
	entryID := kernel.NewUUID()
	orderID := kernel.NewUUID()
	tenantID := kernel.NewUUID()
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	staff, err := actor.NewActor(kernel.NewUUID(), "Dana", actor.RoleStaff)
	require.NoError(t, err)

	t.Run("should create entry with all fields", func(t *testing.T) {
		entry, err := order.NewHistoryEntry(entryID, orderID, tenantID,
			order.Pending, order.Accepted, staff, "looks good", "key-1", createdAt)

		require.NoError(t, err)
		require.NoError(t, entry.Validate())
		assert.True(t, entry.ID().IsEqual(entryID))
		assert.True(t, entry.OrderID().IsEqual(orderID))
		assert.True(t, entry.TenantID().IsEqual(tenantID))
		require.NotNil(t, entry.PrevStatus())
		assert.Equal(t, order.Pending, *entry.PrevStatus())
		assert.Equal(t, order.Accepted, entry.NewStatus())
		require.NotNil(t, entry.ActorID())
		assert.True(t, entry.ActorID().IsEqual(*staff.ID()))
		assert.Equal(t, "Dana", entry.ActorName())
		require.NotNil(t, entry.Observation())
		assert.Equal(t, "looks good", *entry.Observation())
		require.NotNil(t, entry.IdempotencyKey())
		assert.Equal(t, "key-1", *entry.IdempotencyKey())
		assert.Equal(t, createdAt, entry.CreatedAt())
	})

	t.Run("should store blank observation and key as absent", func(t *testing.T) {
		entry, err := order.NewHistoryEntry(entryID, orderID, tenantID,
			order.Pending, order.Accepted, staff, "   ", "", createdAt)

		require.NoError(t, err)
		assert.Nil(t, entry.Observation())
		assert.Nil(t, entry.IdempotencyKey())
	})

	t.Run("should record nil actor ID for the system actor", func(t *testing.T) {
		entry, err := order.NewHistoryEntry(entryID, orderID, tenantID,
			order.Pending, order.Accepted, actor.NewSystemActor(), "", "", createdAt)

		require.NoError(t, err)
		assert.Nil(t, entry.ActorID())
		assert.Equal(t, "system", entry.ActorName())
	})

	t.Run("should fail with invalid identifiers", func(t *testing.T) {
		var invalidID kernel.UUID

		entry, err := order.NewHistoryEntry(invalidID, orderID, tenantID,
			order.Pending, order.Accepted, staff, "", "", createdAt)

		require.Error(t, err)
		assert.Nil(t, entry)
	})

	t.Run("should fail with invalid statuses", func(t *testing.T) {
		entry, err := order.NewHistoryEntry(entryID, orderID, tenantID,
			order.Unknown, order.Accepted, staff, "", "", createdAt)
		require.Error(t, err)
		assert.Nil(t, entry)

		entry, err = order.NewHistoryEntry(entryID, orderID, tenantID,
			order.Pending, order.Unknown, staff, "", "", createdAt)
		require.Error(t, err)
		assert.Nil(t, entry)
	})

	t.Run("should fail with zero timestamp", func(t *testing.T) {
		entry, err := order.NewHistoryEntry(entryID, orderID, tenantID,
			order.Pending, order.Accepted, staff, "", "", time.Time{})

		require.Error(t, err)
		assert.Nil(t, entry)
		assert.Contains(t, err.Error(), "createdAt")
	})
}

func TestNewSeedHistoryEntry(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should create seed entry with no previous status", func(t *testing.T) {
		staff, err := actor.NewActor(kernel.NewUUID(), "Dana", actor.RoleStaff)
		require.NoError(t, err)

		entry, err := order.NewSeedHistoryEntry(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), staff, createdAt)

		require.NoError(t, err)
		assert.Nil(t, entry.PrevStatus())
		assert.Equal(t, order.Pending, entry.NewStatus())
		assert.Nil(t, entry.Observation())
		assert.Nil(t, entry.IdempotencyKey())
	})
}

func TestRestoreHistoryEntry(t *testing.T) {
	entryID := kernel.NewUUID()
	orderID := kernel.NewUUID()
	tenantID := kernel.NewUUID()
	actorID := kernel.NewUUID()
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should restore entry with all persisted fields", func(t *testing.T) {
		prev := order.Accepted
		obs := "wrong address"
		key := "key-9"
		metadata := map[string]string{"source": "phone"}

		entry, err := order.RestoreHistoryEntry(entryID, orderID, tenantID,
			&prev, order.Pending, &actorID, "Dana", &obs, &key, metadata, createdAt)

		require.NoError(t, err)
		require.NotNil(t, entry.PrevStatus())
		assert.Equal(t, order.Accepted, *entry.PrevStatus())
		assert.Equal(t, order.Pending, entry.NewStatus())
		require.NotNil(t, entry.ActorID())
		assert.True(t, entry.ActorID().IsEqual(actorID))
		require.NotNil(t, entry.Observation())
		assert.Equal(t, obs, *entry.Observation())
		require.NotNil(t, entry.IdempotencyKey())
		assert.Equal(t, key, *entry.IdempotencyKey())
		assert.Equal(t, metadata, entry.Metadata())
	})

	t.Run("should restore seed entry with nil optionals", func(t *testing.T) {
		entry, err := order.RestoreHistoryEntry(entryID, orderID, tenantID,
			nil, order.Pending, nil, "system", nil, nil, nil, createdAt)

		require.NoError(t, err)
		assert.Nil(t, entry.PrevStatus())
		assert.Nil(t, entry.ActorID())
		assert.Nil(t, entry.Observation())
		assert.Nil(t, entry.IdempotencyKey())
		assert.Empty(t, entry.Metadata())
	})

	t.Run("should fail with invalid previous status", func(t *testing.T) {
		prev := order.Unknown

		entry, err := order.RestoreHistoryEntry(entryID, orderID, tenantID,
			&prev, order.Pending, nil, "system", nil, nil, nil, createdAt)

		require.Error(t, err)
		assert.Nil(t, entry)
	})
}

func TestHistoryEntry_Validate(t *testing.T) {
	t.Run("should fail validation for nil and zero value entries", func(t *testing.T) {
		var nilEntry *order.HistoryEntry
		assert.Equal(t, order.ErrHistoryEntryIsNotConstructed, nilEntry.Validate())

		var zeroEntry order.HistoryEntry
		assert.Equal(t, order.ErrHistoryEntryIsNotConstructed, zeroEntry.Validate())
	})
}

func TestHistoryEntry_Immutability(t *testing.T) {
	t.Run("should return copies of metadata", func(t *testing.T) {
		metadata := map[string]string{"source": "phone"}
		entry, err := order.RestoreHistoryEntry(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), nil, order.Pending, nil, "system", nil, nil, metadata,
			time.Now().UTC())
		require.NoError(t, err)

		got := entry.Metadata()
		got["source"] = "tampered"

		assert.Equal(t, "phone", entry.Metadata()["source"])
	})
}
