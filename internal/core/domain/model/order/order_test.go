package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func validDetails() order.Details {
	warehouseID := kernel.NewUUID()
	destination := kernel.MustNewLocation(12.9716, 77.5946)
	return order.Details{
		CustomerID:       "customer-1",
		CustomerName:     "Asha",
		DeliveryAddress:  "12 MG Road",
		ProductID:        kernel.NewUUID(),
		Quantity:         2,
		TotalAmountCents: 49900,
		WarehouseID:      &warehouseID,
		Destination:      &destination,
	}
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), validDetails(), placedAt)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order", func(t *testing.T) {
		id := kernel.NewUUID()
		details := validDetails()

		o, err := order.NewOrder(id, details, placedAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.PendingAssignment, o.Status())
		assert.Nil(t, o.AgentID())
		assert.Empty(t, o.ConfirmationCode())
		assert.Equal(t, placedAt, o.CreatedAt())
		assert.Equal(t, placedAt, o.UpdatedAt())
		assert.Nil(t, o.DeliveredAt())
		assert.Equal(t, details, o.Details())
		assert.Zero(t, o.Version())
	})

	t.Run("should allow missing warehouse and destination", func(t *testing.T) {
		details := validDetails()
		details.WarehouseID = nil
		details.Destination = nil

		o, err := order.NewOrder(kernel.NewUUID(), details, placedAt)

		require.NoError(t, err)
		assert.Nil(t, o.WarehouseID())
		assert.Nil(t, o.Destination())
	})

	t.Run("should join validation errors", func(t *testing.T) {
		details := validDetails()
		details.Quantity = 0

		o, err := order.NewOrder(kernel.UUID{}, details, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("should reject missing product", func(t *testing.T) {
		details := validDetails()
		details.ProductID = kernel.UUID{}

		_, err := order.NewOrder(kernel.NewUUID(), details, placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRestoreOrder(t *testing.T) {
	agentID := kernel.NewUUID()

	t.Run("should restore in-flight order", func(t *testing.T) {
		o, err := order.RestoreOrder(kernel.NewUUID(), validDetails(), order.State{
			Status:           order.PickedUp,
			AgentID:          &agentID,
			ConfirmationCode: "123456",
			CreatedAt:        placedAt,
			UpdatedAt:        placedAt.Add(time.Minute),
			Version:          7,
		})

		require.NoError(t, err)
		assert.Equal(t, order.PickedUp, o.Status())
		assert.True(t, o.IsAssignedTo(agentID))
		assert.Equal(t, int64(7), o.Version())
		assert.Equal(t, placedAt.Add(time.Minute), o.UpdatedAt())
	})

	t.Run("should reject assigned order without agent", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), validDetails(), order.State{
			Status:    order.Assigned,
			CreatedAt: placedAt,
			UpdatedAt: placedAt,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "to have no agent")
	})

	t.Run("should reject terminal order with agent", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), validDetails(), order.State{
			Status:    order.Delivered,
			AgentID:   &agentID,
			CreatedAt: placedAt,
			UpdatedAt: placedAt,
		})

		require.Error(t, err)
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	agentID := kernel.NewUUID()
	step := func(n int) time.Time { return placedAt.Add(time.Duration(n) * time.Minute) }

	o := newPendingOrder(t)

	require.NoError(t, o.Assign(agentID, step(1)))
	assert.Equal(t, order.Assigned, o.Status())
	assert.True(t, o.IsAssignedTo(agentID))
	assert.Equal(t, step(1), o.UpdatedAt())

	require.NoError(t, o.PickUp("654321", step(2)))
	assert.Equal(t, order.PickedUp, o.Status())
	assert.Equal(t, order.ConfirmationCode("654321"), o.ConfirmationCode())
	assert.Equal(t, step(2), o.UpdatedAt())

	require.NoError(t, o.SendOutForDelivery(step(3)))
	assert.Equal(t, order.OutForDelivery, o.Status())
	assert.Equal(t, step(3), o.UpdatedAt())

	require.NoError(t, o.Deliver("654321", step(4)))
	assert.Equal(t, order.Delivered, o.Status())
	assert.Nil(t, o.AgentID())
	require.NotNil(t, o.DeliveredAt())
	assert.Equal(t, step(4), *o.DeliveredAt())
	assert.Equal(t, step(4), o.UpdatedAt())
	assert.Equal(t, placedAt, o.CreatedAt())
}

func TestOrder_Assign(t *testing.T) {
	t.Run("should reject zero agent id", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Assign(kernel.UUID{}, placedAt)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.Equal(t, order.PendingAssignment, o.Status())
	})

	t.Run("should reject reassignment", func(t *testing.T) {
		o := newPendingOrder(t)
		first := kernel.NewUUID()
		require.NoError(t, o.Assign(first, placedAt))

		err := o.Assign(kernel.NewUUID(), placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		assert.True(t, o.IsAssignedTo(first))
	})
}

func TestOrder_PickUp(t *testing.T) {
	t.Run("should reject pickup of pending order", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.PickUp("123456", placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		assert.Empty(t, o.ConfirmationCode())
	})

	t.Run("should reject malformed code", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), placedAt))

		err := o.PickUp("12", placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Assigned, o.Status())
	})
}

func TestOrder_Deliver(t *testing.T) {
	outForDelivery := func(t *testing.T) *order.Order {
		t.Helper()
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), placedAt))
		require.NoError(t, o.PickUp("111111", placedAt))
		require.NoError(t, o.SendOutForDelivery(placedAt))
		return o
	}

	t.Run("should reject wrong code and keep state", func(t *testing.T) {
		o := outForDelivery(t)
		updatedAt := o.UpdatedAt()

		err := o.Deliver("222222", placedAt.Add(time.Hour))

		require.ErrorIs(t, err, order.ErrInvalidConfirmationCode)
		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.NotNil(t, o.AgentID())
		assert.Nil(t, o.DeliveredAt())
		assert.Equal(t, updatedAt, o.UpdatedAt())
	})

	t.Run("should reject empty code", func(t *testing.T) {
		o := outForDelivery(t)

		require.ErrorIs(t, o.Deliver("", placedAt), order.ErrInvalidConfirmationCode)
	})

	t.Run("should accept code with surrounding whitespace", func(t *testing.T) {
		o := outForDelivery(t)

		require.NoError(t, o.Deliver(" 111111\n", placedAt))
	})

	t.Run("should check status before code", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), placedAt))
		require.NoError(t, o.PickUp("111111", placedAt))

		err := o.Deliver("111111", placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel pending order", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Cancel(placedAt.Add(time.Second)))
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, placedAt.Add(time.Second), o.UpdatedAt())
	})

	t.Run("should cancel assigned order and clear agent", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), placedAt))

		require.NoError(t, o.Cancel(placedAt))
		assert.Nil(t, o.AgentID())
	})

	t.Run("should reject cancellation after pickup", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(kernel.NewUUID(), placedAt))
		require.NoError(t, o.PickUp("123456", placedAt))

		err := o.Cancel(placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		assert.Equal(t, order.PickedUp, o.Status())
		assert.NotNil(t, o.AgentID())
	})
}

func TestOrder_VersionAndAge(t *testing.T) {
	o := newPendingOrder(t)

	o.AdvanceVersion()
	o.AdvanceVersion()

	assert.Equal(t, int64(2), o.Version())
	assert.Equal(t, 45*time.Second, o.Age(placedAt.Add(45*time.Second)))
}

func TestOrder_ZeroValueIsInvalid(t *testing.T) {
	var o *order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
}
